// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the Board Game Warlock API.
package gateway

import (
	"context"
	"time"

	"github.com/jeranaias/warlock-tui/internal/model"
)

// =============================================================================
// CONTRACTS
// =============================================================================

// Sender sends one question to the rules assistant.
type Sender interface {
	SendMessage(ctx context.Context, question, sessionID, gameID string) (*Result, error)
}

// GameLister fetches the catalog of supported games.
type GameLister interface {
	ListGames(ctx context.Context) ([]model.GameInfo, error)
}

// FeedbackSubmitter delivers answer feedback.
type FeedbackSubmitter interface {
	SubmitFeedback(ctx context.Context, req *FeedbackRequest) (*FeedbackResponse, error)
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the outcome of a SendMessage call. Exactly one of Answer or
// Err is meaningful.
type Result struct {
	Answer     string
	References []model.Reference
	Timestamp  *time.Time // nil when the server did not report one
	Err        *model.APIError
}

// OK reports whether the exchange succeeded.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil
}

func failure(code, message string) *Result {
	return &Result{Err: model.NewAPIError(code, message)}
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	GameName  string `json:"gameName"`
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the success body of POST /chat.
type ChatResponse struct {
	Answer     string            `json:"answer"`
	References []model.Reference `json:"references,omitempty"`
	Timestamp  string            `json:"timestamp,omitempty"`
}

// GamesResponse is the body of GET /games.
type GamesResponse struct {
	Games []string `json:"games"`
}

// ErrorResponse is the error body the API returns on non-2xx statuses.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// QAPair is one question/answer exchange sent as feedback context.
type QAPair struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ConversationContext carries the recent exchanges preceding the rated answer.
type ConversationContext struct {
	RecentQA []QAPair `json:"recent_qa"`
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	MessageID           string               `json:"message_id"`
	GameName            string               `json:"game_name"`
	FeedbackType        string               `json:"feedback_type"`
	UserHash            string               `json:"user_hash,omitempty"`
	Issues              []string             `json:"issues,omitempty"`
	Description         string               `json:"description,omitempty"`
	ConversationContext *ConversationContext `json:"conversation_context,omitempty"`
	Timestamp           string               `json:"timestamp"`
}

// FeedbackResponse is the success body of POST /feedback.
type FeedbackResponse struct {
	FeedbackID string `json:"feedback_id"`
	Message    string `json:"message"`
}
