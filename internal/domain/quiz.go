package domain

import (
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/phrazzld/flashdeck-api/internal/cardtext"
)

// Test mode rules.
const (
	// MinTestCards is the smallest deck that can be studied in test mode.
	MinTestCards = 4
	// PassThreshold is the lowest passing percentage.
	PassThreshold = 70
	// Distractors is the number of wrong options offered per question.
	Distractors = 3
)

// ErrTooFewCards is returned when a deck is too small for test mode.
var ErrTooFewCards = validationError("test mode needs at least 4 cards")

// Question is one multiple-choice question built from a card.
type Question struct {
	CardID  uuid.UUID `json:"card_id"`
	Front   string    `json:"front"`
	Options []string  `json:"options"`
	Answer  string    `json:"-"`
}

// BuildQuestion offers card's back together with up to Distractors backs from
// other cards in deck, shuffled with rng. Backs that normalize to the correct
// answer, or to an option already offered, are never used as distractors.
func BuildQuestion(card Card, deck []Card, rng *rand.Rand) Question {
	seen := map[string]struct{}{cardtext.Normalize(card.Back): {}}
	var pool []string
	for _, other := range deck {
		if other.ID == card.ID {
			continue
		}
		key := cardtext.Normalize(other.Back)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		pool = append(pool, other.Back)
	}

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	options := append(pool[:min(Distractors, len(pool))], card.Back)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return Question{
		CardID:  card.ID,
		Front:   card.Front,
		Options: slices.Clip(options),
		Answer:  card.Back,
	}
}

// CheckAnswer reports whether given matches expected after normalization.
func CheckAnswer(given, expected string) bool {
	want := cardtext.Normalize(expected)
	return want != "" && cardtext.Normalize(given) == want
}

// Passed reports whether a percentage meets PassThreshold.
func Passed(percentage int) bool {
	return percentage >= PassThreshold
}
