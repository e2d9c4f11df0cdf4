package generation

import "context"

// CardProposal is one raw {front, back} pair returned by an LLM, before
// candidate validation has run. Field order and content are exactly what
// the model produced.
type CardProposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator defines the interface for producing flashcard proposals from
// input text. Implementations own prompt construction, the structured-output
// contract, and mapping provider failures onto this package's errors.
type Generator interface {
	// GenerateCards asks the model for 5-10 flashcard proposals covering the
	// given text. Proposals are returned in model output order, unvalidated;
	// the caller filters them.
	//
	// The context bounds the call: callers are expected to attach a deadline,
	// and expiry surfaces as an error like any other gateway failure.
	GenerateCards(ctx context.Context, inputText string) ([]CardProposal, error)

	// ModelName reports the model identifier this generator is configured
	// with, recorded on the generation session for auditing.
	ModelName() string
}
