// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session keeps the live chat sessions of a warlock process.
package session

import (
	"sort"
	"sync"

	"github.com/jeranaias/warlock-tui/internal/model"
)

// =============================================================================
// REGISTRY
// =============================================================================

// Registry owns every live session.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*model.ChatSession // by session id
	current  map[string]string             // game id -> session id
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*model.ChatSession),
		current:  make(map[string]string),
	}
}

// Start creates a session for game and makes it current, deleting the
// previous current session of that game. A non-empty history seeds the
// session; otherwise it opens with the welcome message.
func (r *Registry) Start(game model.GameInfo, history []*model.ChatMessage) *model.ChatSession {
	var s *model.ChatSession
	if len(history) > 0 {
		s = model.NewEmptySession(game.ID)
		s.Messages = append(s.Messages, history...)
	} else {
		s = model.NewSession(game)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.current[game.ID]; ok {
		delete(r.sessions, prev)
	}
	r.sessions[s.ID] = s
	r.current[game.ID] = s.ID
	return s
}

// Current returns the current session of gameID, or nil.
func (r *Registry) Current(gameID string) *model.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.current[gameID]
	if !ok {
		return nil
	}
	return r.sessions[id]
}

// Get returns the session with the given id, or nil once it was replaced
// or deleted.
func (r *Registry) Get(id string) *model.ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

// Delete removes a session. Deleting the current session of a game leaves
// that game without one.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	delete(r.sessions, id)
	if r.current[s.Game] == id {
		delete(r.current, s.Game)
	}
	return true
}

// Games returns the ids of games with a current session, sorted.
func (r *Registry) Games() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	games := make([]string, 0, len(r.current))
	for g := range r.current {
		games = append(games, g)
	}
	sort.Strings(games)
	return games
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
