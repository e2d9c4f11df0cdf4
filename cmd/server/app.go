package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tenxcards/cards-api/internal/config"
	"github.com/tenxcards/cards-api/internal/events"
	"github.com/tenxcards/cards-api/internal/generation"
	"github.com/tenxcards/cards-api/internal/platform/gemini"
	"github.com/tenxcards/cards-api/internal/platform/postgres"
	"github.com/tenxcards/cards-api/internal/service"
	"github.com/tenxcards/cards-api/internal/service/auth"
	"github.com/tenxcards/cards-api/internal/store"
)

// application holds the wired dependencies of one server process.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore      store.UserStore
	sessionStore   store.SessionStore
	flashcardStore store.FlashcardStore

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	generator generation.Generator
	emitter   events.Emitter

	generationService *service.GenerationService
	reviewService     *service.ReviewService
	flashcardService  *service.FlashcardService
}

// newApplication wires stores, gateways and services over the given
// configuration. The database is opened and migrated before any service is
// constructed.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database.URL, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	generator, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini generator: %w", err)
	}

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(events.NewLogHandler(logger))

	userStore := postgres.NewPostgresUserStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)

	llmTimeout := time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second

	generationService, err := service.NewGenerationService(
		db, sessionStore, flashcardStore, generator, emitter, llmTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	reviewService, err := service.NewReviewService(db, sessionStore, flashcardStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	flashcardService, err := service.NewFlashcardService(flashcardStore, emitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		userStore:         userStore,
		sessionStore:      sessionStore,
		flashcardStore:    flashcardStore,
		jwtService:        jwtService,
		passwordHasher:    auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		passwordVerifier:  auth.NewBcryptVerifier(),
		generator:         generator,
		emitter:           emitter,
		generationService: generationService,
		reviewService:     reviewService,
		flashcardService:  flashcardService,
	}, nil
}

// close releases resources held by the application.
func (app *application) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
