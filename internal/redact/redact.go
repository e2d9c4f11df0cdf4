// Package redact strips likely-sensitive fragments from strings before they
// are logged. Raw LLM and database errors pass through here so connection
// strings, API keys and addresses never reach operational logs verbatim.
package redact

import "regexp"

var (
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)
	apiKeyRegex = regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)
	jwtRegex    = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)
	emailRegex  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// The JWT pattern must run before the key pattern: the key value charset
	// includes ".", so a token-prefixed JWT would otherwise be consumed as a
	// generic key.
	replacements = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{jwtRegex, "[REDACTED_JWT]"},
		{dbConnRegex, "[REDACTED_CREDENTIAL]@"},
		{apiKeyRegex, "$1$2[REDACTED_KEY]"},
		{emailRegex, "[REDACTED_EMAIL]"},
	}
)

// String redacts sensitive fragments from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range replacements {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive fragments from an error's Error() output.
// Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
