// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for arena.
//
// Configuration lives in TOML at ~/.arena/config.toml, with sensible
// defaults and ARENA_* environment variable overrides applied last.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/provider"
	"github.com/jeranaias/arena-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete arena configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`

	// DefaultEffort is the reasoning effort used when a battle does not
	// name one: "low", "medium", or "high".
	DefaultEffort string `toml:"default_effort"`

	// SystemPrompt, when set, is sent to both contenders ahead of the
	// battle prompt so they compete under the same instructions.
	SystemPrompt string `toml:"system_prompt"`

	// Providers are the configured chat endpoints ([[providers]] tables).
	Providers []ProviderConfig `toml:"providers"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// ProviderConfig describes one chat endpoint in the config file.
type ProviderConfig struct {
	// ID is the stable identifier used in battle records and CLI flags
	ID string `toml:"id"`
	// Name is the human-readable display name
	Name string `toml:"name"`
	// Kind selects the wire protocol: "openai", "ollama", "anthropic"
	Kind string `toml:"kind"`
	// BaseURL is the endpoint root, e.g. "https://api.openai.com/v1"
	BaseURL string `toml:"base_url"`
	// APIKey authenticates requests. Empty is valid for local Ollama.
	// Prefer the ARENA_<ID>_API_KEY environment variable over storing
	// keys in the file.
	APIKey string `toml:"api_key"`
	// DefaultModel is used when a battle side names no model explicitly
	DefaultModel string `toml:"default_model"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// DatabasePath is the SQLite database location (empty = ~/.arena/arena.db)
	DatabasePath string `toml:"database_path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light"
	Theme string `toml:"theme"`
	// ShowThinking displays model thinking panes during battles
	ShowThinking bool `toml:"show_thinking"`
	// CompactMode uses a more compact battle layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
// The default provider list contains a single local Ollama endpoint, so
// the tool works out of the box against a stock Ollama install.
func Default() *Config {
	return &Config{
		Version:       "1.0.0",
		DefaultEffort: string(model.EffortHigh),

		Providers: []ProviderConfig{
			{
				ID:      "local",
				Name:    "Ollama",
				Kind:    string(provider.KindOllama),
				BaseURL: "http://127.0.0.1:11434",
			},
		},

		Storage: StorageConfig{
			DatabasePath: "",
		},

		UI: UIConfig{
			Theme:        "dark",
			ShowThinking: true,
			CompactMode:  false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the arena configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".arena"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions fixes permissions on config files. The file can
// hold API keys, so anything wider than 0600 is tightened.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file, falling back to
// built-in defaults when no file exists. Environment overrides are
// applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return cfg, nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.DefaultEffort == "" {
		cfg.DefaultEffort = defaults.DefaultEffort
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = defaults.Providers
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

// ApplyEnvOverrides applies ARENA_* environment variables on top of the
// loaded configuration:
//
//	ARENA_DB_PATH           overrides storage.database_path
//	ARENA_DEFAULT_EFFORT    overrides default_effort
//	ARENA_<ID>_API_KEY      overrides the API key of the provider with
//	                        that ID (dashes in the ID become underscores)
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("ARENA_DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
	if v := os.Getenv("ARENA_DEFAULT_EFFORT"); v != "" {
		c.DefaultEffort = v
	}
	for i := range c.Providers {
		envKey := "ARENA_" + strings.ToUpper(strings.ReplaceAll(c.Providers[i].ID, "-", "_")) + "_API_KEY"
		if v := os.Getenv(envKey); v != "" {
			c.Providers[i].APIKey = v
		}
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath saves the configuration to a TOML file at path. The write is
// atomic and the file is created with 0600 permissions because it can
// hold API keys.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# arena configuration file")
	fmt.Fprintln(&buf, "# Generated by arena - edit with care")
	fmt.Fprintln(&buf, "")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.DefaultEffort {
	case "low", "medium", "high":
	default:
		errs = append(errs, ValidationError{
			Field:   "default_effort",
			Message: fmt.Sprintf("must be low, medium, or high (got %q)", c.DefaultEffort),
		})
	}

	seen := make(map[string]bool)
	for i, p := range c.Providers {
		field := fmt.Sprintf("providers[%d]", i)

		if p.ID == "" {
			errs = append(errs, ValidationError{Field: field + ".id", Message: "must not be empty"})
			continue
		}
		if seen[p.ID] {
			errs = append(errs, ValidationError{Field: field + ".id", Message: fmt.Sprintf("duplicate provider id %q", p.ID)})
		}
		seen[p.ID] = true

		if !provider.Kind(p.Kind).Valid() {
			errs = append(errs, ValidationError{
				Field:   field + ".kind",
				Message: fmt.Sprintf("must be openai, ollama, or anthropic (got %q)", p.Kind),
			})
		}

		if p.BaseURL == "" {
			errs = append(errs, ValidationError{Field: field + ".base_url", Message: "must not be empty"})
		} else if u, err := url.Parse(p.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".base_url",
				Message: fmt.Sprintf("must be an absolute http(s) URL (got %q)", p.BaseURL),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// PROVIDER CONVERSION
// =============================================================================

// ProviderList converts the configured providers into the provider
// package's representation, preserving file order.
func (c *Config) ProviderList() []provider.Provider {
	out := make([]provider.Provider, 0, len(c.Providers))
	for _, p := range c.Providers {
		out = append(out, provider.Provider{
			ID:           p.ID,
			Name:         p.Name,
			Kind:         provider.Kind(p.Kind),
			BaseURL:      p.BaseURL,
			APIKey:       p.APIKey,
			DefaultModel: p.DefaultModel,
		})
	}
	return out
}

// Lookup builds a provider lookup over the configured providers.
func (c *Config) Lookup() *provider.StaticLookup {
	return provider.NewStaticLookup(c.ProviderList())
}

// DatabasePath resolves the configured database path, applying the
// default location when unset.
func (c *Config) DatabasePath() (string, error) {
	if c.Storage.DatabasePath != "" {
		return c.Storage.DatabasePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "arena.db"), nil
}

// Effort returns the configured default reasoning effort.
func (c *Config) Effort() model.ReasoningEffort {
	return model.ParseReasoningEffort(c.DefaultEffort)
}
