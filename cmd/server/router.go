package main

import (
	"net/http"

	"github.com/phrazzld/flashdeck-api/internal/api"
	"github.com/phrazzld/flashdeck-api/internal/api/middleware"
)

// setupRouter creates the handlers from the application's services and
// mounts them on the API router.
func (app *application) setupRouter() http.Handler {
	handlers := api.Handlers{
		Decks:        api.NewDeckHandler(app.deckService, app.logger),
		Cards:        api.NewCardHandler(app.cardService, app.logger),
		Study:        api.NewStudyHandler(app.studyService, app.logger),
		Leaderboards: api.NewLeaderboardHandler(app.leaderboardService, app.logger),
		Challenges:   api.NewChallengeHandler(app.challengeService, app.logger),
		Generation:   api.NewGenerationHandler(app.generationService, app.templateService, app.logger),
	}
	return api.NewRouter(handlers, middleware.NewAuthMiddleware(app.jwtService), app.db, app.logger)
}
