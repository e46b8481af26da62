package generation

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"
)

// MinDescriptionLength is the shortest description worth sending to a model.
const MinDescriptionLength = 3

// Request asks for Count cards about Description.
type Request struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// TextGenerator produces raw "Front | Back" lines from a request.
type TextGenerator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("flashcards").Parse(promptSource))

// Validate checks the request against the configured card ceiling.
func Validate(req Request, maxCards int) error {
	if utf8.RuneCountInString(strings.TrimSpace(req.Description)) < MinDescriptionLength {
		return fmt.Errorf("%w: description must be at least %d characters",
			ErrInvalidRequest, MinDescriptionLength)
	}
	if req.Count < 1 || req.Count > maxCards {
		return fmt.Errorf("%w: card count must be between 1 and %d", ErrInvalidRequest, maxCards)
	}
	return nil
}

// BuildPrompt renders the card-generation prompt.
func BuildPrompt(description string, count int) string {
	var b strings.Builder
	// Execute only fails on writer errors, which strings.Builder never returns.
	_ = promptTemplate.Execute(&b, Request{Description: strings.TrimSpace(description), Count: count})
	return strings.TrimSpace(b.String())
}
