// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists per-game chat history for warlock.
//
// History is an ordered list of user and assistant messages stored under
// one key per game. Every write is bounded by a sliding window that drops
// whole question/answer pairs from the front, so the stored list never grows
// past the configured maximum.
//
// # Key Types
//
//   - Store: load/append/clear history for a game, never returns errors
//   - Backend: byte-level key/value persistence
//   - FileBackend, SQLiteBackend, RedisBackend, MemoryBackend: implementations
//
// # Usage
//
//	backend, err := history.NewFileBackend(filepath.Join(dataDir, "history"))
//	store := history.NewStore(backend, history.Options{MaxMessages: 20}, logger)
//	defer store.Close()
//
//	store.SaveMessage("nemesis", msg)
//	msgs := store.GetHistory("nemesis")
//
// # Storage Location
//
// The file backend writes one JSON file per game under ~/.warlock/history/.
package history
