// Package config loads and merges prscan configuration from multiple sources
// and reads the repository list and range files a run operates on.
//
// Precedence for settings (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GITHUB_TOKEN, GITHUB_API_URL, PRSCAN_MAX_PARALLEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/prscan/config.json, or --config)
//  4. Built-in defaults
//
// Repository list and range files may be JSON, YAML or TOML; the format is
// chosen by file extension.
package config
