// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for warlock.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: Endpoints, API key and request throttle
//   - HistoryConfig: History backend and sliding window size
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (WARLOCK_*), including those from ./.env
//   - ~/.warlock/config.toml
//   - ~/.warlock/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Follow edits to the API key:
//
//	w, err := config.Watch(path, func(c *config.Config) {
//	    client.SetAPIKey(c.API.APIKey)
//	}, logger)
package config
