// Package redact scrubs sensitive information from strings before they
// are written to logs. Error messages routinely embed connection
// strings, credentials, or tokens; nothing in this service should ever
// log those verbatim.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// Precompiled patterns, ordered so the broader credential patterns run
// before the email pattern.
var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb)://[^@\s]+@`)

	// password=..., passwd: ... and similar key/value credentials
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?|['"]?[=:])[^'"&\s]{3,}`)

	// Generic API keys, secrets, and bearer tokens
	apiKeyRegex = regexp.MustCompile(`(?i)(api[_-]?key|secret|token|bearer)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Standard three-part base64url-encoded JWT
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String returns s with all recognized sensitive fragments replaced by
// placeholders.
func String(s string) string {
	if s == "" {
		return s
	}

	s = dbConnRegex.ReplaceAllString(s, RedactedCredentialPlaceholder)
	s = passwordRegex.ReplaceAllString(s, RedactedCredentialPlaceholder)
	s = apiKeyRegex.ReplaceAllString(s, RedactedKeyPlaceholder)
	s = jwtTokenRegex.ReplaceAllString(s, RedactedJWTPlaceholder)
	s = emailRegex.ReplaceAllString(s, RedactedEmailPlaceholder)

	return s
}

// Error returns the redacted message of err, or an empty string for a
// nil error. Use this whenever a raw error is attached to a log record.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
