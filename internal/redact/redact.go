// Package redact strips sensitive material from strings before they are
// logged. Error messages can carry connection strings, tokens, or email
// addresses; nothing in this package is exposed to API clients, it only
// keeps the logs clean.
package redact

import "regexp"

const (
	credentialPlaceholder = "[REDACTED_CREDENTIAL]"
	tokenPlaceholder      = "[REDACTED_TOKEN]"
	emailPlaceholder      = "[REDACTED_EMAIL]"
	pathPlaceholder       = "[REDACTED_PATH]"
)

var replacements = []struct {
	pattern     *regexp.Regexp
	placeholder string
}{
	// Connection strings with embedded credentials.
	{regexp.MustCompile(`(?i)(postgres|postgresql|redis|mysql)://[^@\s]+@`), credentialPlaceholder},
	// password=..., pwd: ... fragments.
	{regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`), credentialPlaceholder},
	// Three-part base64url JWTs.
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), tokenPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), emailPlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){3,}`), pathPlaceholder},
}

// String redacts sensitive fragments from the input.
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

// Error redacts sensitive fragments from an error's message.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
