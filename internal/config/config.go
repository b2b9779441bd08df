package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// PlaceholderToken is the token value shipped in sample settings files.
const PlaceholderToken = "YOUR_GITHUB_TOKEN_HERE"

// Config represents the prscan configuration.
type Config struct {
	GitHubToken           string      `json:"githubToken"`
	AzureDevOpsToken      string      `json:"azureDevOpsToken,omitempty"`
	APIURL                string      `json:"apiURL"`
	RateLimitDelayMs      int         `json:"rateLimitDelayMs"`
	CandidateDelayMs      int         `json:"candidateDelayMs"`
	MaxParallelRequests   int         `json:"maxParallelRequests"`
	CandidateFetchLimit   int         `json:"candidateFetchLimit"`
	CandidateInspectLimit int         `json:"candidateInspectLimit"`
	MaxRetries            int         `json:"maxRetries"`
	RequestTimeoutSeconds int         `json:"requestTimeoutSeconds"`
	RepoListFile          string      `json:"repoListFile"`
	RangesFile            string      `json:"rangesFile"`
	OutputFile            string      `json:"outputFile"`
	Format                string      `json:"format"`
	Cache                 CacheConfig `json:"cache"`
}

// CacheConfig controls caching of immutable forge responses.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// Formats lists the accepted console output formats.
var Formats = []string{"text", "json", "markdown"}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		APIURL:                "https://api.github.com",
		RateLimitDelayMs:      1000,
		CandidateDelayMs:      200,
		MaxParallelRequests:   5,
		CandidateFetchLimit:   50,
		CandidateInspectLimit: 20,
		MaxRetries:            3,
		RequestTimeoutSeconds: 60,
		RepoListFile:          "repo_list.json",
		RangesFile:            "test_config.json",
		OutputFile:            "results.json",
		Format:                "text",
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 7 * 24 * 3600,
		},
	}
}

// RateLimitDelay is the pause before each commit lookup.
func (c Config) RateLimitDelay() time.Duration {
	return time.Duration(c.RateLimitDelayMs) * time.Millisecond
}

// CandidateDelay is the pause after each fallback candidate is inspected.
func (c Config) CandidateDelay() time.Duration {
	return time.Duration(c.CandidateDelayMs) * time.Millisecond
}

// RequestTimeout bounds a single forge HTTP request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheTTL is how long cached forge responses stay valid. Zero means forever.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ConfigDir returns the platform-appropriate config directory for prscan.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prscan"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "prscan"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "prscan"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "prscan"), nil
	default:
		return filepath.Join(home, ".config", "prscan"), nil
	}
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return ConfigPath()
}

// LoadFile reads the config file at path (the default location when empty)
// over the built-in defaults. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	path, err := resolvePath(path)
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	// Keys absent from the file keep their default values.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), &ConfigError{Field: path, Reason: fmt.Sprintf("parsing config file: %v", err)}
	}
	return cfg, nil
}

// Save writes the config to path (the default location when empty). The file
// may hold credentials, so it is created user-readable only.
func Save(path string, cfg Config) error {
	path, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only flags the user set should be present).
func Load(path string, overrides map[string]string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(&cfg, key, value); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

var envKeys = []struct {
	env string
	key string
}{
	{"GITHUB_TOKEN", "githubToken"},
	{"AZURE_DEVOPS_TOKEN", "azureDevOpsToken"},
	{"GITHUB_API_URL", "apiURL"},
	{"PRSCAN_RATE_LIMIT_DELAY_MS", "rateLimitDelayMs"},
	{"PRSCAN_MAX_PARALLEL", "maxParallelRequests"},
	{"PRSCAN_FORMAT", "format"},
	{"PRSCAN_OUTPUT", "outputFile"},
}

func mergeEnv(cfg *Config) error {
	for _, e := range envKeys {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		if err := SetField(cfg, e.key, v); err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
	}
	return nil
}

// Keys lists the settable config keys in display order.
var Keys = []string{
	"githubToken", "azureDevOpsToken", "apiURL",
	"rateLimitDelayMs", "candidateDelayMs", "maxParallelRequests",
	"candidateFetchLimit", "candidateInspectLimit", "maxRetries", "requestTimeoutSeconds",
	"repoListFile", "rangesFile", "outputFile", "format",
	"cache.enabled", "cache.dir", "cache.ttlSeconds",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	intField := func(dst *int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return &ConfigError{Field: key, Reason: fmt.Sprintf("must be an integer, got %q", value)}
		}
		*dst = n
		return nil
	}

	switch key {
	case "githubToken":
		cfg.GitHubToken = value
	case "azureDevOpsToken":
		cfg.AzureDevOpsToken = value
	case "apiURL":
		cfg.APIURL = value
	case "rateLimitDelayMs":
		return intField(&cfg.RateLimitDelayMs)
	case "candidateDelayMs":
		return intField(&cfg.CandidateDelayMs)
	case "maxParallelRequests":
		return intField(&cfg.MaxParallelRequests)
	case "candidateFetchLimit":
		return intField(&cfg.CandidateFetchLimit)
	case "candidateInspectLimit":
		return intField(&cfg.CandidateInspectLimit)
	case "maxRetries":
		return intField(&cfg.MaxRetries)
	case "requestTimeoutSeconds":
		return intField(&cfg.RequestTimeoutSeconds)
	case "repoListFile":
		cfg.RepoListFile = value
	case "rangesFile":
		cfg.RangesFile = value
	case "outputFile":
		cfg.OutputFile = value
	case "format":
		cfg.Format = value
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ConfigError{Field: key, Reason: fmt.Sprintf("must be true or false, got %q", value)}
		}
		cfg.Cache.Enabled = b
	case "cache.dir":
		cfg.Cache.Dir = value
	case "cache.ttlSeconds":
		return intField(&cfg.Cache.TTLSeconds)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Field returns the display value of a config key. Credentials are returned
// as stored; callers mask them.
func Field(cfg Config, key string) (string, error) {
	switch key {
	case "githubToken":
		return cfg.GitHubToken, nil
	case "azureDevOpsToken":
		return cfg.AzureDevOpsToken, nil
	case "apiURL":
		return cfg.APIURL, nil
	case "rateLimitDelayMs":
		return strconv.Itoa(cfg.RateLimitDelayMs), nil
	case "candidateDelayMs":
		return strconv.Itoa(cfg.CandidateDelayMs), nil
	case "maxParallelRequests":
		return strconv.Itoa(cfg.MaxParallelRequests), nil
	case "candidateFetchLimit":
		return strconv.Itoa(cfg.CandidateFetchLimit), nil
	case "candidateInspectLimit":
		return strconv.Itoa(cfg.CandidateInspectLimit), nil
	case "maxRetries":
		return strconv.Itoa(cfg.MaxRetries), nil
	case "requestTimeoutSeconds":
		return strconv.Itoa(cfg.RequestTimeoutSeconds), nil
	case "repoListFile":
		return cfg.RepoListFile, nil
	case "rangesFile":
		return cfg.RangesFile, nil
	case "outputFile":
		return cfg.OutputFile, nil
	case "format":
		return cfg.Format, nil
	case "cache.enabled":
		return strconv.FormatBool(cfg.Cache.Enabled), nil
	case "cache.dir":
		return cfg.Cache.Dir, nil
	case "cache.ttlSeconds":
		return strconv.Itoa(cfg.Cache.TTLSeconds), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}

// IsSecretKey reports whether key holds a credential.
func IsSecretKey(key string) bool {
	return key == "githubToken" || key == "azureDevOpsToken"
}
