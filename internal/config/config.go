// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for warlock.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.warlock/config.toml
//   - ~/.warlock/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/warlock-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete warlock configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Remote assistant API
	API APIConfig `toml:"api" json:"api"`

	// Local chat history
	History HistoryConfig `toml:"history" json:"history"`

	// Game selection
	Game GameConfig `toml:"game" json:"game"`

	// Log output
	Log LogConfig `toml:"log" json:"log"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains the rules assistant endpoints and credentials.
type APIConfig struct {
	// BaseURL of the chat API
	BaseURL string `toml:"base_url" json:"base_url"`
	// FeedbackBaseURL of the feedback API
	FeedbackBaseURL string `toml:"feedback_base_url" json:"feedback_base_url"`
	// APIKey sent with every request
	APIKey string `toml:"api_key" json:"api_key"`
	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerMinute throttles requests client side (-1 disables)
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// HistoryConfig selects where chat history is kept.
type HistoryConfig struct {
	// Backend is one of: file, sqlite, redis, memory
	Backend string `toml:"backend" json:"backend"`
	// Dir holds one JSON file per game (file backend)
	Dir string `toml:"dir" json:"dir"`
	// SQLitePath is the database file (sqlite backend)
	SQLitePath string `toml:"sqlite_path" json:"sqlite_path"`
	// RedisURL is a redis:// URL (redis backend)
	RedisURL string `toml:"redis_url" json:"redis_url"`
	// RedisTTLHours expires idle histories (0 = never)
	RedisTTLHours int `toml:"redis_ttl_hours" json:"redis_ttl_hours"`
	// MaxMessages kept per game; must be positive and even
	MaxMessages int `toml:"max_messages" json:"max_messages"`
	// StoragePrefix of every history key
	StoragePrefix string `toml:"storage_prefix" json:"storage_prefix"`
}

// GameConfig contains game selection settings.
type GameConfig struct {
	// Default game id selected at startup
	Default string `toml:"default" json:"default"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of: debug, info, warn, error
	Level string `toml:"level" json:"level"`
	// Format is one of: console, json
	Format string `toml:"format" json:"format"`
	// File receives log output (empty = ~/.warlock/warlock.log)
	File string `toml:"file" json:"file"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	// Theme is one of: auto, dark, light
	Theme string `toml:"theme" json:"theme"`
	// CompactMode hides timestamps and references
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// WordWrap wraps answers to the terminal width
	WordWrap bool `toml:"word_wrap" json:"word_wrap"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultBaseURL         = "https://api.boardgamewarlock.com/api/v1"
	DefaultFeedbackBaseURL = "https://feedback.boardgamewarlock.com/api/v1"
	DefaultStoragePrefix   = "boardgame-chat-history"
	DefaultMaxMessages     = 20
	DefaultGame            = "nemesis"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			FeedbackBaseURL:   DefaultFeedbackBaseURL,
			TimeoutSecs:       30,
			RequestsPerMinute: 30,
		},
		History: HistoryConfig{
			Backend:       "file",
			MaxMessages:   DefaultMaxMessages,
			StoragePrefix: DefaultStoragePrefix,
		},
		Game: GameConfig{
			Default: DefaultGame,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			Theme:    "auto",
			WordWrap: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the warlock data directory (~/.warlock).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".warlock"), nil
}

// ConfigPathTOML returns the path of the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path of the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens config files to 0600; they hold the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. A .env file in
// the working directory is read first; environment overrides are applied
// last. When a file exists but cannot be decoded, the defaults are
// returned together with the decode error.
func Load() (*Config, error) {
	loadDotEnv()

	var loadErr error
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := loadFile(path)
		if err != nil {
			loadErr = err
			continue
		}
		return finish(cfg)
	}

	cfg, err := finish(Default())
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file. The format is
// chosen by extension (.json, anything else is TOML).
func LoadFromPath(path string) (*Config, error) {
	loadDotEnv()
	cfg, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadFile loads the config file as written, without .env or environment
// overrides, so that editing and saving it never captures values that only
// live in the environment. Defaults are returned when no file exists.
func LoadFile() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.SetDefaults()
		return cfg, nil
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return cfg, nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads .env from the working directory. Variables already set
// in the environment win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}
}

// LoadTOML decodes the TOML file at path over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes the JSON file at path over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# warlock configuration file\n")
	sb.WriteString("# Environment variables (WARLOCK_*) override these values.\n\n")
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(sb.String()), 0600); err != nil {
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	for field, raw := range map[string]string{
		"api.base_url":          c.API.BaseURL,
		"api.feedback_base_url": c.API.FeedbackBaseURL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid URL '%s'", raw)})
		}
	}
	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "api.timeout_secs", Message: "cannot be negative"})
	}

	validBackends := map[string]bool{"file": true, "sqlite": true, "redis": true, "memory": true}
	if !validBackends[strings.ToLower(c.History.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "history.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite, redis, memory", c.History.Backend),
		})
	}
	if strings.EqualFold(c.History.Backend, "redis") && c.History.RedisURL == "" {
		errs = append(errs, ValidationError{Field: "history.redis_url", Message: "required for the redis backend"})
	}
	if c.History.MaxMessages <= 0 || c.History.MaxMessages%2 != 0 {
		errs = append(errs, ValidationError{
			Field:   "history.max_messages",
			Message: fmt.Sprintf("must be a positive even number, got %d", c.History.MaxMessages),
		})
	}
	if c.History.RedisTTLHours < 0 {
		errs = append(errs, ValidationError{Field: "history.redis_ttl_hours", Message: "cannot be negative"})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}
	if f := strings.ToLower(c.Log.Format); f != "console" && f != "json" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills empty fields from Default.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.FeedbackBaseURL == "" {
		c.API.FeedbackBaseURL = d.API.FeedbackBaseURL
	}
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}
	if c.API.RequestsPerMinute == 0 {
		c.API.RequestsPerMinute = d.API.RequestsPerMinute
	}
	if c.History.Backend == "" {
		c.History.Backend = d.History.Backend
	}
	if c.History.MaxMessages == 0 {
		c.History.MaxMessages = d.History.MaxMessages
	}
	if c.History.StoragePrefix == "" {
		c.History.StoragePrefix = d.History.StoragePrefix
	}
	if c.Game.Default == "" {
		c.Game.Default = d.Game.Default
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies WARLOCK_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("WARLOCK_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("WARLOCK_FEEDBACK_API_BASE_URL"); v != "" {
		c.API.FeedbackBaseURL = v
	}
	if v := os.Getenv("WARLOCK_API_KEY"); v != "" {
		c.API.APIKey = v
	}
	if v := os.Getenv("WARLOCK_GAME"); v != "" {
		c.Game.Default = v
	}
	if v := os.Getenv("WARLOCK_HISTORY_BACKEND"); v != "" {
		c.History.Backend = v
	}
	if v := os.Getenv("WARLOCK_REDIS_URL"); v != "" {
		c.History.RedisURL = v
	}
	if v := os.Getenv("WARLOCK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "history.max_messages").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.EqualFold(strVal, "true") || strings.EqualFold(strVal, "yes")
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.feedback_base_url",
		"api.api_key",
		"api.timeout_secs",
		"api.requests_per_minute",
		"history.backend",
		"history.dir",
		"history.sqlite_path",
		"history.redis_url",
		"history.redis_ttl_hours",
		"history.max_messages",
		"history.storage_prefix",
		"game.default",
		"log.level",
		"log.format",
		"log.file",
		"ui.theme",
		"ui.compact_mode",
		"ui.word_wrap",
	}
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as JSON with the API key redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.API.APIKey != "" {
		safe.API.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
