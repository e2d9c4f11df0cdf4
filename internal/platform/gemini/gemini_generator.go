package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/tenxcards/cards-api/internal/config"
	"github.com/tenxcards/cards-api/internal/generation"
	"github.com/tenxcards/cards-api/internal/platform/logger"
)

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// Ensure GeminiGenerator implements generation.Generator interface
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator from the LLM
// configuration. If logger is nil, a default logger will be used.
// Returns generation.ErrInvalidConfig for missing or invalid settings.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return nil, fmt.Errorf("%w: temperature must be between 0 and 2, got %v",
			generation.ErrInvalidConfig, cfg.Temperature)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// ModelName implements generation.Generator.ModelName.
func (g *GeminiGenerator) ModelName() string {
	return g.model
}

// GenerateCards implements generation.Generator.GenerateCards.
// It sends the input text with the fixed system instruction and the
// structured-output schema, and decodes the JSON response into proposals.
// No retries are performed; any failure is returned to the caller, which
// records it on the generation session.
func (g *GeminiGenerator) GenerateCards(
	ctx context.Context,
	inputText string,
) ([]generation.CardProposal, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if inputText == "" {
		return nil, fmt.Errorf("%w: input text cannot be empty", generation.ErrGenerationFailed)
	}

	prompt := buildPrompt(inputText)

	log.Debug("calling Gemini API",
		slog.String("model", g.model),
		slog.Int("prompt_length", len(prompt)))

	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(g.config.Temperature),
		MaxOutputTokens:   g.config.MaxOutputTokens,
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			log.Error("Gemini API error",
				slog.Int("code", apiErr.Code),
				slog.String("status", apiErr.Status))
			return nil, fmt.Errorf("%w: API error %d (%s)",
				generation.ErrGenerationFailed, apiErr.Code, apiErr.Status)
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: finish reason safety", generation.ErrContentBlocked)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var payload responsePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	if len(payload.Flashcards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	log.Debug("Gemini API call successful",
		slog.String("model", g.model),
		slog.Int("card_count", len(payload.Flashcards)))

	return payload.Flashcards, nil
}

// buildPrompt wraps the user's text in the generation instruction.
func buildPrompt(inputText string) string {
	return fmt.Sprintf(`Generate educational flashcards from the following text:

%s

Create 5-10 flashcards that cover the most important concepts, facts, and ideas from this text.`, inputText)
}
