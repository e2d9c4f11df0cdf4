// Package gemini implements the generation.Generator interface using
// Google's Gemini API with a structured-output contract: responses are
// constrained to a JSON schema of 5-10 {front, back} pairs.
package gemini
