// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the Board Game Warlock API.
package gateway

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jeranaias/warlock-tui/internal/model"
)

// MockSender answers from a small set of canned Nemesis rules without any
// network access. It backs the --mock flag.
type MockSender struct {
	// Delay is the simulated latency; Jitter adds up to that much on top.
	Delay  time.Duration
	Jitter time.Duration

	// FailureRate is the chance (0..1) of a simulated TEMPORARY_ERROR.
	FailureRate float64

	rng func() float64
}

// NewMockSender returns a mock with a realistic 1-3s latency and no
// simulated failures.
func NewMockSender() *MockSender {
	return &MockSender{Delay: time.Second, Jitter: 2 * time.Second, rng: rand.Float64}
}

// SendMessage implements Sender.
func (m *MockSender) SendMessage(ctx context.Context, question, _ string, gameID string) (*Result, error) {
	rng := m.rng
	if rng == nil {
		rng = rand.Float64
	}

	wait := m.Delay
	if m.Jitter > 0 {
		wait += time.Duration(rng() * float64(m.Jitter))
	}
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, &ClientError{Type: ErrTypeCanceled, Message: "request canceled", Cause: ctx.Err()}
		case <-timer.C:
		}
	}

	if m.FailureRate > 0 && rng() < m.FailureRate {
		return failure("TEMPORARY_ERROR", "Service temporarily unavailable. Please try again."), nil
	}
	if strings.TrimSpace(question) == "" {
		return failure(string(model.ErrEmptyMessage), emptyMessageText), nil
	}

	now := time.Now()
	return &Result{
		Answer:    mockAnswer(question, gameID),
		Timestamp: &now,
		References: []model.Reference{
			{ID: 1, Title: "Nemesis Rulebook", Section: "Mock answer", Page: "-"},
		},
	}, nil
}

// ListGames implements GameLister with the offline catalog.
func (m *MockSender) ListGames(context.Context) ([]model.GameInfo, error) {
	return []model.GameInfo{
		{ID: "nemesis", Name: "Nemesis", Description: "Semi-cooperative survival horror board game", IsAvailable: true},
		{ID: "gloomhaven", Name: "Gloomhaven", Description: "Tactical combat and RPG elements", IsAvailable: false},
	}, nil
}

// SubmitFeedback implements FeedbackSubmitter by accepting everything.
func (m *MockSender) SubmitFeedback(_ context.Context, req *FeedbackRequest) (*FeedbackResponse, error) {
	return &FeedbackResponse{FeedbackID: "mock-" + req.MessageID, Message: "Feedback submitted successfully"}, nil
}

// mockAnswer picks a canned answer by keyword.
func mockAnswer(question, gameID string) string {
	if gameID != "nemesis" {
		return "🧙‍♂️ My magical powers are currently focused on Nemesis! Support for " + gameID +
			" is brewing in my cauldron and will be ready soon! ✨"
	}

	q := strings.ToLower(question)
	switch {
	case containsAny(q, "movement", "move"):
		return mockMovement
	case containsAny(q, "victory", "win", "objective"):
		return mockVictory
	case containsAny(q, "reload", "weapon", "ammo"):
		return mockReload
	case containsAny(q, "contamination", "infection", "contaminated"):
		return mockContamination
	default:
		return mockOverview
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
