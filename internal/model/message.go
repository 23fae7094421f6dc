// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/warlock-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Warlock"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// =============================================================================
// REFERENCES AND FEEDBACK
// =============================================================================

// Reference is a rulebook citation attached to an assistant answer.
type Reference struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Section string `json:"section"`
	Page    string `json:"page"`
	URL     string `json:"url"`
}

// Text returns "title - section - page", skipping empty parts.
func (r Reference) Text() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Title, r.Section, r.Page} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// FeedbackType is the verdict a user gave an answer.
type FeedbackType string

const (
	FeedbackPositive FeedbackType = "positive"
	FeedbackNegative FeedbackType = "negative"
)

// IsValid reports whether t is positive or negative.
func (t FeedbackType) IsValid() bool {
	return t == FeedbackPositive || t == FeedbackNegative
}

// Feedback records the user's verdict on a message.
type Feedback struct {
	Type        FeedbackType `json:"type"`
	SubmittedAt string       `json:"submitted_at"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ChatMessage represents a single message in a session.
//
// Messages are treated as immutable after creation. The only sanctioned
// mutations are replacing a loading placeholder (done by the chat controller
// by swapping the whole message) and attaching UserFeedback.
type ChatMessage struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Transient in-flight marker, never persisted
	IsLoading bool `json:"-"`

	// Synthesized greeting, not produced by the gateway
	IsWelcome bool `json:"-"`

	// Failure tag for assistant messages describing a failed exchange
	Error ErrorKind `json:"error,omitempty"`

	References   []Reference `json:"references,omitempty"`
	UserFeedback *Feedback   `json:"user_feedback,omitempty"`
}

// NewUserMessage creates a user message from raw input.
// The text is normalized and trimmed; ok is false when nothing is left,
// and callers must reject such input before sending.
func NewUserMessage(text string) (*ChatMessage, bool) {
	content := strings.TrimSpace(norm.NFC.String(text))
	if content == "" {
		return nil, false
	}
	return &ChatMessage{
		ID:        generateID(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}, true
}

// NewLoadingMessage creates the placeholder shown while a request is in flight.
func NewLoadingMessage() *ChatMessage {
	return &ChatMessage{
		ID:        generateID(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
		IsLoading: true,
	}
}

// NewAssistantMessage creates an assistant answer. A nil or zero timestamp
// means "now"; otherwise the server-reported time is kept.
func NewAssistantMessage(text string, timestamp *time.Time, refs []Reference) *ChatMessage {
	ts := time.Now()
	if timestamp != nil && !timestamp.IsZero() {
		ts = *timestamp
	}
	msg := &ChatMessage{
		ID:        generateID(),
		Role:      RoleAssistant,
		Content:   text,
		Timestamp: ts,
	}
	if len(refs) > 0 {
		msg.References = append([]Reference(nil), refs...)
	}
	return msg
}

// NewErrorMessage creates an assistant message describing a failed exchange.
// An empty kind is tagged ErrUnknown.
func NewErrorMessage(text string, kind ErrorKind) *ChatMessage {
	if kind == "" {
		kind = ErrUnknown
	}
	return &ChatMessage{
		ID:        generateID(),
		Role:      RoleAssistant,
		Content:   text,
		Timestamp: time.Now(),
		Error:     kind,
	}
}

// NewSystemMessage creates a system notice. System messages are shown but
// never persisted.
func NewSystemMessage(text string) *ChatMessage {
	return &ChatMessage{
		ID:        generateID(),
		Role:      RoleSystem,
		Content:   text,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// IsError reports whether the message carries a failure tag.
func (m *ChatMessage) IsError() bool {
	return m.Error != ""
}

// IsAnswer reports whether the message is a settled answer from the
// gateway: assistant role, not loading, not the welcome, not a failure.
func (m *ChatMessage) IsAnswer() bool {
	return m != nil && m.Role == RoleAssistant && !m.IsLoading && !m.IsWelcome && !m.IsError()
}

// Persistable reports whether the message may enter durable history.
func (m *ChatMessage) Persistable() bool {
	if m == nil || m.IsLoading || m.IsWelcome {
		return false
	}
	return m.Role == RoleUser || m.Role == RoleAssistant
}

// Preview returns a truncated single-line preview of the content.
func (m *ChatMessage) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	return util.TruncateRunes(content, maxLen)
}

// WithFeedback returns a copy of the message carrying fb.
func (m *ChatMessage) WithFeedback(fb Feedback) *ChatMessage {
	clone := m.Clone()
	clone.UserFeedback = &fb
	return clone
}

// Clone returns a deep copy of the message.
func (m *ChatMessage) Clone() *ChatMessage {
	clone := *m
	if m.References != nil {
		clone.References = append([]Reference(nil), m.References...)
	}
	if m.UserFeedback != nil {
		fb := *m.UserFeedback
		clone.UserFeedback = &fb
	}
	return &clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return uuid.NewString()
}
