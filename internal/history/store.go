// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists per-game chat history for warlock.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/warlock-tui/internal/model"
)

const (
	// DefaultPrefix namespaces history keys.
	DefaultPrefix = "boardgame-chat-history"

	// DefaultMaxMessages keeps the last ten question/answer pairs.
	DefaultMaxMessages = 20

	defaultTimeout = 5 * time.Second
)

// Options configures a Store.
type Options struct {
	Prefix      string
	MaxMessages int
	Timeout     time.Duration // per backend operation
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes per-game history over a Backend.
//
// Store methods never return backend or decoding failures: they are logged
// as warnings and the operation degrades to a no-op (writes) or an empty
// history (reads). Losing history must never break a conversation.
type Store struct {
	backend Backend
	opts    Options
	log     *zap.Logger

	// serializes load-append-write cycles
	mu sync.Mutex
}

// NewStore creates a store. A nil logger discards log output.
func NewStore(backend Backend, opts Options, logger *zap.Logger) *Store {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.MaxMessages == 0 {
		opts.MaxMessages = DefaultMaxMessages
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		opts:    opts,
		log:     logger.Named("history"),
	}
}

// Key returns the backend key for a game.
func (s *Store) Key(gameID string) string {
	return s.opts.Prefix + "_" + gameID
}

// MaxMessages returns the window size applied on every write.
func (s *Store) MaxMessages() int {
	return s.opts.MaxMessages
}

// GetHistory returns the stored messages for gameID, oldest first.
// Missing or unreadable history yields an empty slice.
func (s *Store) GetHistory(gameID string) []*model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(gameID)
}

// SaveMessage appends msg to the history of gameID and trims the result to
// the window. Loading placeholders and system messages are ignored.
func (s *Store) SaveMessage(gameID string, msg *model.ChatMessage) {
	if !msg.Persistable() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append(s.load(gameID), msg)
	s.write(gameID, ApplySlidingWindow(messages, s.opts.MaxMessages))
}

// UpdateMessage replaces the stored message with msg.ID. It reports false
// when the message is no longer in history (for example after trimming).
func (s *Store) UpdateMessage(gameID string, msg *model.ChatMessage) bool {
	if !msg.Persistable() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.load(gameID)
	for i, m := range messages {
		if m.ID == msg.ID {
			messages[i] = msg
			s.write(gameID, messages)
			return true
		}
	}
	return false
}

// TruncateAfter drops every stored message following the one with id, so
// a retried question is not followed by the answer it replaces. Unknown ids
// leave history untouched.
func (s *Store) TruncateAfter(gameID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.load(gameID)
	for i, m := range messages {
		if m.ID == id {
			if i+1 < len(messages) {
				s.write(gameID, messages[:i+1])
			}
			return
		}
	}
}

// ClearHistory removes the history of gameID. Absent history is fine.
func (s *Store) ClearHistory(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.backend.Delete(ctx, s.Key(gameID)); err != nil {
		s.log.Warn("failed to clear history", zap.String("game", gameID), zap.Error(err))
	}
}

// Games lists the game ids that have stored history. Backends that cannot
// enumerate keys return an empty list.
func (s *Store) Games() ([]string, error) {
	lister, ok := s.backend.(Lister)
	if !ok {
		return []string{}, nil
	}

	ctx, cancel := s.ctx()
	defer cancel()
	keys, err := lister.Keys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := s.opts.Prefix + "_"
	games := make([]string, 0, len(keys))
	for _, k := range keys {
		if id, ok := strings.CutPrefix(k, prefix); ok && id != "" {
			games = append(games, id)
		}
	}
	return games, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opts.Timeout)
}

// load must be called with s.mu held.
func (s *Store) load(gameID string) []*model.ChatMessage {
	ctx, cancel := s.ctx()
	defer cancel()

	data, err := s.backend.Get(ctx, s.Key(gameID))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("failed to read history", zap.String("game", gameID), zap.Error(err))
		}
		return []*model.ChatMessage{}
	}

	messages, err := decodeRecords(data)
	if err != nil {
		s.log.Warn("discarding corrupt history", zap.String("game", gameID), zap.Error(err))
		return []*model.ChatMessage{}
	}
	return messages
}

// write must be called with s.mu held.
func (s *Store) write(gameID string, messages []*model.ChatMessage) {
	data, err := json.Marshal(messages)
	if err != nil {
		s.log.Warn("failed to encode history", zap.String("game", gameID), zap.Error(err))
		return
	}

	ctx, cancel := s.ctx()
	defer cancel()
	if err := s.backend.Set(ctx, s.Key(gameID), data); err != nil {
		s.log.Warn("failed to save history", zap.String("game", gameID), zap.Error(err))
	}
}

// decodeRecords parses a stored JSON array. Records that are not user or
// assistant messages are dropped.
func decodeRecords(data []byte) ([]*model.ChatMessage, error) {
	var raw []*model.ChatMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	messages := make([]*model.ChatMessage, 0, len(raw))
	for _, m := range raw {
		if m == nil || m.ID == "" || !m.Persistable() {
			continue
		}
		messages = append(messages, m)
	}
	return messages, nil
}
