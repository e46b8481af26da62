package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/flashdeck-api/internal/store"
)

const (
	recentTemplateCount = 5
	smartTemplateWindow = 10
)

// Template is a suggested starting point for a new AI-generated deck.
type Template struct {
	ID              string     `json:"id"`
	Label           string     `json:"label"`
	BaseDescription string     `json:"base_description"`
	DeckName        string     `json:"deck_name"`
	IsRecent        bool       `json:"is_recent,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	Topics          []string   `json:"topics,omitempty"`
}

// Templates holds both kinds of suggestions.
type Templates struct {
	Recent []Template `json:"recent"`
	Smart  []Template `json:"smart"`
}

// TemplateService suggests deck templates from a user's history.
type TemplateService interface {
	// Recent turns the user's latest decks into reusable templates.
	Recent(ctx context.Context, userID string) ([]Template, error)

	// Smart suggests new topics based on keywords in recent deck descriptions.
	Smart(ctx context.Context, userID string) ([]Template, error)

	// All returns recent and smart templates together.
	All(ctx context.Context, userID string) (*Templates, error)
}

// smartRule suggests its template when any recent description mentions a keyword.
type smartRule struct {
	keywords []string
	template Template
}

var smartRules = []smartRule{
	{
		keywords: []string{"book", "author", "literature"},
		template: Template{
			ID:              "smart-books",
			Label:           "Books & Authors",
			BaseDescription: "famous books with their authors",
			DeckName:        "Books & Authors",
			Topics:          []string{"dutch literature", "classic novels", "bestsellers", "poetry", "non-fiction"},
		},
	},
	{
		keywords: []string{"movie", "film", "director"},
		template: Template{
			ID:              "smart-movies",
			Label:           "Movies & Directors",
			BaseDescription: "famous movies with their directors",
			DeckName:        "Movies & Directors",
			Topics:          []string{"dutch cinema", "hollywood classics", "european films", "documentaries"},
		},
	},
	{
		keywords: []string{"english", "dutch", "spanish", "french", "german"},
		template: Template{
			ID:              "smart-advanced-vocab",
			Label:           "Advanced Vocabulary",
			BaseDescription: "advanced vocabulary with definitions",
			DeckName:        "Advanced Vocabulary",
			Topics:          []string{"idioms", "business terms", "academic words", "slang"},
		},
	},
}

type templateServiceImpl struct {
	decks  store.DeckStore
	logger *slog.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(decks store.DeckStore, logger *slog.Logger) (TemplateService, error) {
	if decks == nil {
		return nil, errors.New("template service requires a deck store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &templateServiceImpl{
		decks:  decks,
		logger: logger.With(slog.String("component", "template_service")),
	}, nil
}

func (s *templateServiceImpl) Recent(ctx context.Context, userID string) ([]Template, error) {
	decks, err := s.decks.ListRecentForUser(ctx, userID, recentTemplateCount)
	if err != nil {
		return nil, NewServiceError("template", "recent", "failed to fetch templates", err)
	}

	templates := make([]Template, 0, len(decks))
	for _, d := range decks {
		created := d.CreatedAt
		templates = append(templates, Template{
			ID:              "recent-" + d.ID.String(),
			Label:           d.Name,
			BaseDescription: d.Description,
			DeckName:        d.Name,
			IsRecent:        true,
			CreatedAt:       &created,
		})
	}
	return templates, nil
}

func (s *templateServiceImpl) Smart(ctx context.Context, userID string) ([]Template, error) {
	decks, err := s.decks.ListRecentForUser(ctx, userID, smartTemplateWindow)
	if err != nil {
		return nil, NewServiceError("template", "smart", "failed to generate suggestions", err)
	}

	descriptions := make([]string, 0, len(decks))
	for _, d := range decks {
		if d.Description != "" {
			descriptions = append(descriptions, strings.ToLower(d.Description))
		}
	}

	suggestions := make([]Template, 0, len(smartRules))
	for _, rule := range smartRules {
		if mentionsAny(descriptions, rule.keywords) {
			suggestions = append(suggestions, rule.template)
		}
	}
	return suggestions, nil
}

func (s *templateServiceImpl) All(ctx context.Context, userID string) (*Templates, error) {
	recent, err := s.Recent(ctx, userID)
	if err != nil {
		return nil, err
	}
	smart, err := s.Smart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Templates{Recent: recent, Smart: smart}, nil
}

func mentionsAny(texts, keywords []string) bool {
	for _, t := range texts {
		for _, k := range keywords {
			if strings.Contains(t, k) {
				return true
			}
		}
	}
	return false
}
