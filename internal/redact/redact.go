// Package redact scrubs sensitive values from strings before they are logged
// or returned in error responses: credentials in connection strings, bearer
// tokens, filesystem paths, stack traces and precise geographic coordinates.
package redact

import (
	"fmt"
	"regexp"
)

// Placeholders substituted for redacted content.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedLocationPlaceholder   = "[REDACTED_LOCATION]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order; earlier rules shield their output from later ones.
var rules = []rule{
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		RedactedJWTPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|sqlite|file)://[^@\s/]+@`),
		"${1}://" + RedactedCredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*[^\s&'"]+`),
		RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)\b(secret|token|api[_-]?key)\s*[=:]\s*[A-Za-z0-9_\-.~+/]{8,}`),
		RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(`-?\d{1,3}\.\d{3,}\s*,\s*-?\d{1,3}\.\d{3,}`),
		RedactedLocationPlaceholder,
	},
	{
		regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		RedactedStackPlaceholder,
	},
	{
		regexp.MustCompile(`(/[\w.-]+){2,}`),
		RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Coordinates renders a location at one decimal place, about eleven
// kilometres, which is enough to debug time zone and hemisphere issues
// without recording where the user is.
func Coordinates(lat, lon float64) string {
	return fmt.Sprintf("%.1f,%.1f", lat, lon)
}
