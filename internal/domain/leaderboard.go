package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is one user's standing on a deck, over test sessions only.
type LeaderboardEntry struct {
	UserID        string    `json:"user_id"`
	BestScore     float64   `json:"best_score"`
	TotalSessions int       `json:"total_sessions"`
	TotalCards    int       `json:"total_cards"`
	LastStudied   time.Time `json:"last_studied"`
}

// GlobalLeaderboardEntry aggregates a user's test sessions across all decks.
type GlobalLeaderboardEntry struct {
	UserID        string    `json:"user_id"`
	TotalSessions int       `json:"total_sessions"`
	TotalCards    int       `json:"total_cards"`
	TotalCorrect  int       `json:"total_correct"`
	AverageScore  float64   `json:"average_score"`
	LastStudied   time.Time `json:"last_studied"`
}

// DeckLeaderboard is the top of one active deck's leaderboard.
type DeckLeaderboard struct {
	DeckID        uuid.UUID          `json:"deck_id"`
	DeckName      string             `json:"deck_name"`
	TotalSessions int                `json:"total_sessions"`
	UniqueUsers   int                `json:"unique_users"`
	TopScores     []LeaderboardEntry `json:"top_scores"`
}

// UserRank is a user's 1-based position on a deck leaderboard. Rank and
// UserScore are nil when the user has no test sessions on the deck.
type UserRank struct {
	Rank       *int `json:"rank"`
	TotalUsers int  `json:"total_users"`
	UserScore  *int `json:"user_score"`
}

// DeckStatistics summarizes one user's sessions on a deck.
type DeckStatistics struct {
	TotalSessions int        `json:"total_sessions"`
	TotalCards    int        `json:"total_cards"`
	TotalCorrect  int        `json:"total_correct"`
	AverageScore  int        `json:"average_score"`
	LastStudied   *time.Time `json:"last_studied"`
}

// NewDeckStatistics aggregates sessions, which must be ordered most recent first.
func NewDeckStatistics(sessions []StudySession) DeckStatistics {
	var stats DeckStatistics
	if len(sessions) == 0 {
		return stats
	}
	for _, s := range sessions {
		stats.TotalCards += s.TotalCards
		stats.TotalCorrect += s.CorrectAnswers
	}
	stats.TotalSessions = len(sessions)
	stats.AverageScore = Percentage(stats.TotalCorrect, stats.TotalCards)
	last := sessions[0].CompletedAt
	stats.LastStudied = &last
	return stats
}

// RankOf finds userID in entries ordered by descending best score.
func RankOf(entries []LeaderboardEntry, userID string) UserRank {
	r := UserRank{TotalUsers: len(entries)}
	for i, e := range entries {
		if e.UserID != userID {
			continue
		}
		rank := i + 1
		score := int(math.Round(e.BestScore))
		r.Rank, r.UserScore = &rank, &score
		break
	}
	return r
}
