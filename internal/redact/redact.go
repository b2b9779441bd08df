package redact

import (
	"regexp"
	"strings"
)

const placeholder = "[REDACTED]"

// minLiteralLen keeps short placeholder values from blanking out ordinary words.
const minLiteralLen = 8

// secretPatterns are regex heuristics for common credential types.
var secretPatterns = []*regexp.Regexp{
	// GitHub tokens (classic, OAuth, user-to-server, server-to-server, refresh)
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// GitHub fine-grained personal access tokens
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	// Bearer and token authorization headers
	regexp.MustCompile(`(?i)(Bearer|token)\s+[A-Za-z0-9._-]{20,}`),
	// Basic authorization headers
	regexp.MustCompile(`(?i)Basic\s+[A-Za-z0-9+/=]{16,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Generic API keys
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
}

// urlUserinfo matches credentials embedded in a URL authority.
var urlUserinfo = regexp.MustCompile(`(https?://)[^/\s:@]+(:[^/\s@]*)?@`)

// Secrets replaces detected credentials in text with [REDACTED].
func Secrets(text string) string {
	result := urlUserinfo.ReplaceAllString(text, "${1}"+placeholder+"@")
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllLiteralString(result, placeholder)
	}
	return result
}

// Tokens replaces every literal occurrence of the given credential values,
// then applies the Secrets heuristics. Values shorter than eight characters
// are ignored.
func Tokens(text string, values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if len(v) < minLiteralLen {
			continue
		}
		text = strings.ReplaceAll(text, v, placeholder)
	}
	return Secrets(text)
}

// Mask shows only the last four characters of a credential, for display in
// configuration listings.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= minLiteralLen {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
