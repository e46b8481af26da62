// Package service holds the application use cases: managing decks and
// cards, studying, leaderboards, challenges, deck templates and AI card
// generation.
//
// Services coordinate the stores inside transactions and enforce ownership.
// They return domain and store sentinel errors, possibly wrapped in a
// ServiceError, so callers can rely on errors.Is.
package service
