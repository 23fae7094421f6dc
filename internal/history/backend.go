// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists per-game chat history for warlock.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// BACKEND INTERFACE
// =============================================================================

// Backend is the byte-level key/value store history is written to.
// Get returns ErrNotFound for absent keys; Delete of an absent key is not
// an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Backend kinds accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Kind       string
	Dir        string
	SQLitePath string
	RedisURL   string
	RedisTTL   time.Duration // 0 keeps keys forever
}

// Open constructs the backend named by opts.Kind.
func Open(ctx context.Context, opts OpenOptions) (Backend, error) {
	switch strings.ToLower(opts.Kind) {
	case "", BackendFile:
		return NewFileBackend(opts.Dir)
	case BackendSQLite:
		return NewSQLiteBackend(opts.SQLitePath)
	case BackendRedis:
		return NewRedisBackend(ctx, opts.RedisURL, opts.RedisTTL)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Kind)
	}
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned by Backend.Get when the key does not exist.
	ErrNotFound = errors.New("history: key not found")

	// ErrUnknownBackend is returned by Open for unsupported kinds.
	ErrUnknownBackend = errors.New("history: unknown backend")

	// ErrClosed is returned by operations on a closed backend.
	ErrClosed = errors.New("history: backend closed")
)
