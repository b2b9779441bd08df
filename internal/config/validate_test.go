package config

import (
	"errors"
	"testing"
)

func validConfig() Config {
	cfg := Default()
	cfg.GitHubToken = "ghp_valid"
	return cfg
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}

func TestValidate_Token(t *testing.T) {
	for _, token := range []string{"", "   ", PlaceholderToken} {
		cfg := validConfig()
		cfg.GitHubToken = token
		err := cfg.Validate()
		if !IsCredentialError(err) {
			t.Errorf("token %q: error = %v, want credential ConfigError", token, err)
		}
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero parallelism", func(c *Config) { c.MaxParallelRequests = 0 }, "maxParallelRequests"},
		{"negative delay", func(c *Config) { c.RateLimitDelayMs = -1 }, "rateLimitDelayMs"},
		{"negative candidate delay", func(c *Config) { c.CandidateDelayMs = -1 }, "candidateDelayMs"},
		{"fetch limit over page max", func(c *Config) { c.CandidateFetchLimit = 101 }, "candidateFetchLimit"},
		{"inspect above fetch", func(c *Config) { c.CandidateInspectLimit = 60 }, "candidateInspectLimit"},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "maxRetries"},
		{"zero timeout", func(c *Config) { c.RequestTimeoutSeconds = 0 }, "requestTimeoutSeconds"},
		{"unknown format", func(c *Config) { c.Format = "sarif" }, "format"},
		{"empty api url", func(c *Config) { c.APIURL = "" }, "apiURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want *ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
			if ce.IsCredential() {
				t.Error("IsCredential = true for a non-credential field")
			}
		})
	}
}

func TestValidate_ZeroDelaysAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimitDelayMs = 0
	cfg.CandidateDelayMs = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate error: %v", err)
	}
}
