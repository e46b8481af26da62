// Package domain contains the core business entities, value objects, and
// domain logic of the application: decks, cards, study sessions, challenges
// and the leaderboard read models. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
