package gemini

import (
	"google.golang.org/genai"

	"github.com/tenxcards/cards-api/internal/domain"
	"github.com/tenxcards/cards-api/internal/generation"
)

// systemInstruction is the fixed instruction sent with every generation
// request. The domain is always the same: turn the given text into 5-10
// reviewable flashcards.
const systemInstruction = `You are an expert educational content creator specializing in creating effective flashcards for learning.

Your task is to analyze the provided text and generate 5-10 high-quality flashcards that help students learn the key concepts.

Guidelines:
- Create clear, concise questions that test understanding of important concepts
- Provide complete, accurate answers with sufficient context
- Focus on fundamental concepts, definitions, facts, and relationships
- Avoid overly complex or ambiguous questions
- Each flashcard should be self-contained and understandable
- Use simple, direct language appropriate for the subject matter
- Ensure questions have definitive, factual answers`

// responsePayload mirrors the structured-output schema below.
type responsePayload struct {
	Flashcards []generation.CardProposal `json:"flashcards"`
}

// responseSchema constrains the model output to a list of 5-10 flashcards
// with the same length limits the domain enforces.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"flashcards": {
				Type:     genai.TypeArray,
				MinItems: genai.Ptr[int64](5),
				MaxItems: genai.Ptr[int64](10),
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"front": {
							Type:        genai.TypeString,
							Description: "The question or prompt on the front of the flashcard",
							MaxLength:   genai.Ptr[int64](domain.MaxFrontLength),
						},
						"back": {
							Type:        genai.TypeString,
							Description: "The answer or explanation on the back of the flashcard",
							MaxLength:   genai.Ptr[int64](domain.MaxBackLength),
						},
					},
					Required: []string{"front", "back"},
				},
			},
		},
		Required: []string{"flashcards"},
	}
}
