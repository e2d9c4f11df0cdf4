package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tenxcards/cards-api/internal/api"
	apiMiddleware "github.com/tenxcards/cards-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	allowedOrigins := app.config.Server.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	generationHandler := api.NewGenerationHandler(app.generationService)
	reviewHandler := api.NewReviewHandler(app.reviewService)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Generation and review endpoints
			r.Post("/generations", generationHandler.Generate)
			r.Get("/generations/{sessionID}", generationHandler.GetSession)
			r.Post("/generations/{sessionID}/accept", reviewHandler.Accept)
			r.Post("/generations/{sessionID}/reject", reviewHandler.Reject)

			// Flashcard collection endpoints
			r.Get("/flashcards", flashcardHandler.List)
			r.Post("/flashcards", flashcardHandler.Create)
			r.Delete("/flashcards/{flashcardID}", flashcardHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
