package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFront(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ValidateFront("What is Go?"))
	assert.Nil(t, ValidateFront(strings.Repeat("x", MaxFrontLength)))
	// Limits apply after trimming.
	assert.Nil(t, ValidateFront("  "+strings.Repeat("x", MaxFrontLength)+"  "))

	err := ValidateFront("   ")
	require.NotNil(t, err)
	assert.Equal(t, "front", err.Field)
	assert.Equal(t, "is required", err.Message)

	err = ValidateFront(strings.Repeat("x", MaxFrontLength+1))
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "too long")
}

func TestValidateBack(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ValidateBack(strings.Repeat("x", MaxBackLength)))

	err := ValidateBack(strings.Repeat("x", MaxBackLength+1))
	require.NotNil(t, err)
	assert.Equal(t, "back", err.Field)
}

func TestValidateInputText(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ValidateInputText(strings.Repeat("x", MaxInputTextLength)))

	err := ValidateInputText("")
	require.NotNil(t, err)
	assert.Equal(t, "input_text", err.Field)

	err = ValidateInputText(strings.Repeat("x", MaxInputTextLength+1))
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "too long")
}

func TestValidationCountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	// 200 multibyte characters are within the limit even though the byte
	// length is far larger.
	assert.Nil(t, ValidateFront(strings.Repeat("ü", MaxFrontLength)))
	assert.NotNil(t, ValidateFront(strings.Repeat("ü", MaxFrontLength+1)))
}

func TestFieldErrorMessage(t *testing.T) {
	t.Parallel()

	err := &FieldError{Field: "front", Message: "is required"}
	assert.Equal(t, "front: is required", err.Error())
}
