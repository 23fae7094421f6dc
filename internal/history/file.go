// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists per-game chat history for warlock.
package history

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jeranaias/warlock-tui/internal/util"
)

// FileBackend stores each key as a JSON file in BaseDir.
type FileBackend struct {
	// BaseDir is the directory holding history files
	// Default: ~/.warlock/history/
	BaseDir string
}

// NewFileBackend creates a file backend rooted at baseDir, creating the
// directory if needed. An empty baseDir resolves to ~/.warlock/history.
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".warlock", "history")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &FileBackend{BaseDir: baseDir}, nil
}

func (b *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(b.filePath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set replaces the file for key atomically.
func (b *FileBackend) Set(_ context.Context, key string, value []byte) error {
	return util.AtomicWriteFile(b.filePath(key), value, 0600)
}

func (b *FileBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.filePath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Keys lists the keys that have a history file.
func (b *FileBackend) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.BaseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue // not ours
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *FileBackend) Close() error { return nil }

// filePath escapes key so game ids can never address files outside BaseDir.
func (b *FileBackend) filePath(key string) string {
	return filepath.Join(b.BaseDir, url.PathEscape(key)+".json")
}
