// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SESSION TYPE
// =============================================================================

// ChatSession is one continuous conversation scoped to a single game.
// Sessions are ephemeral; durable history lives in the history store and
// outlives them.
type ChatSession struct {
	ID        string         `json:"id"`
	Game      string         `json:"game"`
	Messages  []*ChatMessage `json:"messages"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewSession creates an empty session for game, seeded with a freshly
// synthesized welcome message.
func NewSession(game GameInfo) *ChatSession {
	s := NewEmptySession(game.ID)
	s.Messages = append(s.Messages, NewWelcomeMessage(game))
	return s
}

// NewEmptySession creates a session for gameID without any messages.
func NewEmptySession(gameID string) *ChatSession {
	return &ChatSession{
		ID:        uuid.NewString(),
		Game:      gameID,
		Messages:  make([]*ChatMessage, 0, 8),
		CreatedAt: time.Now(),
	}
}

// NewWelcomeMessage synthesizes the greeting that opens a fresh session.
// It is never persisted.
func NewWelcomeMessage(game GameInfo) *ChatMessage {
	name := game.Name
	if name == "" {
		name = game.ID
	}
	return &ChatMessage{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		IsWelcome: true,
		Content: "🧙‍♂️ **Welcome to the " + name + " rules assistant!**\n\n" +
			"Ask me anything about the rules and I'll find the answer in the rulebook.\n" +
			"• Try: *How does movement work?*\n" +
			"• Or: *What are the victory conditions?*",
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the session.
func (s *ChatSession) AddMessage(msg *ChatMessage) {
	s.Messages = append(s.Messages, msg)
}

// RemoveMessage removes a message by ID.
func (s *ChatSession) RemoveMessage(id string) bool {
	for i, msg := range s.Messages {
		if msg.ID == id {
			s.Messages = append(s.Messages[:i], s.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceMessage swaps the message with the given ID for msg.
func (s *ChatSession) ReplaceMessage(id string, msg *ChatMessage) bool {
	for i, m := range s.Messages {
		if m.ID == id {
			s.Messages[i] = msg
			return true
		}
	}
	return false
}

// GetMessageByID returns a message by its ID.
func (s *ChatSession) GetMessageByID(id string) *ChatMessage {
	for _, msg := range s.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// GetLastUserMessage returns the most recent user message.
func (s *ChatSession) GetLastUserMessage() *ChatMessage {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i]
		}
	}
	return nil
}

// GetLastAssistantMessage returns the most recent settled assistant
// message, failures included. The welcome message does not count.
func (s *ChatSession) GetLastAssistantMessage() *ChatMessage {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == RoleAssistant && !m.IsLoading && !m.IsWelcome {
			return m
		}
	}
	return nil
}

// TruncateAfter drops every message following the one with the given ID.
func (s *ChatSession) TruncateAfter(id string) bool {
	for i, msg := range s.Messages {
		if msg.ID == id {
			s.Messages = s.Messages[:i+1]
			return true
		}
	}
	return false
}

// LoadingCount returns how many in-flight placeholders the session holds.
func (s *ChatSession) LoadingCount() int {
	n := 0
	for _, msg := range s.Messages {
		if msg.IsLoading {
			n++
		}
	}
	return n
}

// MessageCount returns the number of messages.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// Snapshot returns deep copies of the messages, safe to hand to the UI.
func (s *ChatSession) Snapshot() []*ChatMessage {
	out := make([]*ChatMessage, len(s.Messages))
	for i, msg := range s.Messages {
		out[i] = msg.Clone()
	}
	return out
}
