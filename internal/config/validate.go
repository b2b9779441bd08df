package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ConfigError is a fatal configuration problem detected before any
// repository is processed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// IsCredential reports whether the error concerns a missing or invalid credential.
func (e *ConfigError) IsCredential() bool {
	return e.Field == "githubToken"
}

// IsCredentialError reports whether err is a ConfigError about credentials.
func IsCredentialError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce) && ce.IsCredential()
}

// ValidateToken checks that a usable GitHub token is configured.
func ValidateToken(token string) error {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return &ConfigError{Field: "githubToken", Reason: "no GitHub token configured; set GITHUB_TOKEN or run 'prscan config set githubToken <token>'"}
	case token == PlaceholderToken:
		return &ConfigError{Field: "githubToken", Reason: "GitHub token is still the placeholder " + PlaceholderToken}
	}
	return nil
}

// Validate checks the settings used by a run. The token is checked first so
// credential problems are reported ahead of tuning mistakes.
func (c Config) Validate() error {
	if err := ValidateToken(c.GitHubToken); err != nil {
		return err
	}
	if c.APIURL == "" {
		return &ConfigError{Field: "apiURL", Reason: "must not be empty"}
	}
	if c.MaxParallelRequests <= 0 {
		return &ConfigError{Field: "maxParallelRequests", Reason: fmt.Sprintf("must be positive, got %d", c.MaxParallelRequests)}
	}
	if c.RateLimitDelayMs < 0 {
		return &ConfigError{Field: "rateLimitDelayMs", Reason: fmt.Sprintf("must not be negative, got %d", c.RateLimitDelayMs)}
	}
	if c.CandidateDelayMs < 0 {
		return &ConfigError{Field: "candidateDelayMs", Reason: fmt.Sprintf("must not be negative, got %d", c.CandidateDelayMs)}
	}
	if c.CandidateFetchLimit <= 0 || c.CandidateFetchLimit > 100 {
		return &ConfigError{Field: "candidateFetchLimit", Reason: fmt.Sprintf("must be between 1 and 100, got %d", c.CandidateFetchLimit)}
	}
	if c.CandidateInspectLimit <= 0 || c.CandidateInspectLimit > c.CandidateFetchLimit {
		return &ConfigError{Field: "candidateInspectLimit", Reason: fmt.Sprintf("must be between 1 and candidateFetchLimit (%d), got %d", c.CandidateFetchLimit, c.CandidateInspectLimit)}
	}
	if c.MaxRetries < 0 {
		return &ConfigError{Field: "maxRetries", Reason: fmt.Sprintf("must not be negative, got %d", c.MaxRetries)}
	}
	if c.RequestTimeoutSeconds <= 0 {
		return &ConfigError{Field: "requestTimeoutSeconds", Reason: fmt.Sprintf("must be positive, got %d", c.RequestTimeoutSeconds)}
	}
	if !slices.Contains(Formats, c.Format) {
		return &ConfigError{Field: "format", Reason: fmt.Sprintf("unknown format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))}
	}
	return nil
}
