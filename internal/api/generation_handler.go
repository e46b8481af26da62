package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck-api/internal/api/shared"
	"github.com/phrazzld/flashdeck-api/internal/service"
)

// GenerationHandler serves AI card generation and deck templates.
type GenerationHandler struct {
	generation service.GenerationService
	templates  service.TemplateService
	logger     *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(
	generation service.GenerationService,
	templates service.TemplateService,
	logger *slog.Logger,
) *GenerationHandler {
	if generation == nil || templates == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("generation service, template service and logger are required for GenerationHandler")
	}
	return &GenerationHandler{
		generation: generation,
		templates:  templates,
		logger:     logger.With(slog.String("component", "generation_handler")),
	}
}

// Generate handles POST /api/generate. The generated cards are a preview;
// the client creates the deck from them.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	result, err := h.generation.Generate(r.Context(), userID, req.Description, req.Count)
	if err != nil {
		HandleAPIError(w, r, err, "AI generation failed. Please try again.")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Templates handles GET /api/templates.
func (h *GenerationHandler) Templates(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	templates, err := h.templates.All(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load templates")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, templates)
}
