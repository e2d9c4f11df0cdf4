package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxInputTextLength is the maximum accepted length of generation input text.
const MaxInputTextLength = 10000

// FieldError reports a validation failure on a named field. It is
// transport-independent: HTTP handlers translate it into a 400 response,
// the generation service uses it to discard individual LLM candidates.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface for FieldError.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateFront checks a front text value after trimming: required,
// at most MaxFrontLength characters.
func ValidateFront(front string) *FieldError {
	return validateText("front", front, MaxFrontLength)
}

// ValidateBack checks a back text value after trimming: required,
// at most MaxBackLength characters.
func ValidateBack(back string) *FieldError {
	return validateText("back", back, MaxBackLength)
}

// ValidateInputText checks generation input text after trimming: required,
// at most MaxInputTextLength characters.
func ValidateInputText(text string) *FieldError {
	return validateText("input_text", text, MaxInputTextLength)
}

func validateText(field, value string, maxLen int) *FieldError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return &FieldError{
			Field:   field,
			Message: fmt.Sprintf("too long (max %d characters)", maxLen),
		}
	}
	return nil
}
