// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feedback validates and submits user ratings of assistant answers.
package feedback

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jeranaias/warlock-tui/internal/gateway"
	"github.com/jeranaias/warlock-tui/internal/model"
)

// =============================================================================
// ISSUES
// =============================================================================

// Issue tags what was wrong with an answer.
type Issue string

const (
	IssueIncorrectInfo Issue = "incorrect_info"
	IssueMissingInfo   Issue = "missing_info"
	IssueUnclear       Issue = "unclear"
	IssueWrongGame     Issue = "wrong_game"
	IssueOther         Issue = "other"
)

// Issues lists the known issue tags in display order.
var Issues = []Issue{IssueIncorrectInfo, IssueMissingInfo, IssueUnclear, IssueWrongGame, IssueOther}

var issueLabels = map[Issue]string{
	IssueIncorrectInfo: "Incorrect information",
	IssueMissingInfo:   "Missing information",
	IssueUnclear:       "Unclear or confusing",
	IssueWrongGame:     "Wrong game rules",
	IssueOther:         "Other issue",
}

// Label returns the human-readable label of the issue.
func (i Issue) Label() string {
	if l, ok := issueLabels[i]; ok {
		return l
	}
	return string(i)
}

// IsValid reports whether i is a known tag.
func (i Issue) IsValid() bool {
	_, ok := issueLabels[i]
	return ok
}

// MaxDescriptionLength bounds the free-text description, in characters.
const MaxDescriptionLength = 256

// RecentPairs is how many exchanges accompany a submission.
const RecentPairs = 3

// =============================================================================
// SUBMISSION
// =============================================================================

// Submission is one rating of an assistant message.
type Submission struct {
	MessageID   string
	GameName    string
	Type        model.FeedbackType
	Issues      []Issue
	Description string
	RecentQA    []gateway.QAPair
}

// ValidationError reports why a submission was rejected before sending.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

// Validate checks the submission. Negative feedback needs at least one
// issue.
func (s *Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.MessageID) == "":
		return &ValidationError{Code: "INVALID_MESSAGE_ID", Message: "Message ID is required"}
	case strings.TrimSpace(s.GameName) == "":
		return &ValidationError{Code: "INVALID_GAME_NAME", Message: "Game name is required"}
	case !s.Type.IsValid():
		return &ValidationError{Code: "INVALID_FEEDBACK_TYPE", Message: "Feedback type must be one of: positive, negative"}
	case s.Type == model.FeedbackNegative && len(s.Issues) == 0:
		return &ValidationError{Code: "MISSING_ISSUES", Message: "Issues are required for negative feedback"}
	case utf8.RuneCountInString(s.Description) > MaxDescriptionLength:
		return &ValidationError{Code: "DESCRIPTION_TOO_LONG", Message: fmt.Sprintf("Description must be %d characters or less", MaxDescriptionLength)}
	}
	for _, issue := range s.Issues {
		if !issue.IsValid() {
			return &ValidationError{Code: "INVALID_ISSUE", Message: fmt.Sprintf("Unknown issue %q", issue)}
		}
	}
	return nil
}

// RecentQA returns up to n of the latest question/answer exchanges in
// messages, oldest first. Failed answers and placeholders are skipped.
func RecentQA(messages []*model.ChatMessage, n int) []gateway.QAPair {
	var pairs []gateway.QAPair
	for i := 0; i+1 < len(messages); i++ {
		q, a := messages[i], messages[i+1]
		if q.Role != model.RoleUser || a.Role != model.RoleAssistant || a.IsLoading || a.IsError() {
			continue
		}
		pairs = append(pairs, gateway.QAPair{
			Question:  q.Content,
			Answer:    a.Content,
			Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	if n > 0 && len(pairs) > n {
		pairs = pairs[len(pairs)-n:]
	}
	return pairs
}

// UserHash identifies a user anonymously by the SHA-256 of their API key.
func UserHash(apiKey string) string {
	if apiKey == "" {
		return "unknown"
	}
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// =============================================================================
// SERVICE
// =============================================================================

// Service validates submissions and sends them to the feedback API.
type Service struct {
	submitter gateway.FeedbackSubmitter
	apiKey    func() string
	log       *zap.Logger
}

// NewService creates a feedback service. apiKey is consulted on every
// submission so key changes take effect immediately; it may be nil.
func NewService(submitter gateway.FeedbackSubmitter, apiKey func() string, logger *zap.Logger) *Service {
	if apiKey == nil {
		apiKey = func() string { return "" }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{submitter: submitter, apiKey: apiKey, log: logger.Named("feedback")}
}

// Submit validates and sends s.
func (svc *Service) Submit(ctx context.Context, s *Submission) (*gateway.FeedbackResponse, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	req := &gateway.FeedbackRequest{
		MessageID:    s.MessageID,
		GameName:     s.GameName,
		FeedbackType: string(s.Type),
		UserHash:     UserHash(svc.apiKey()),
		Description:  s.Description,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	for _, issue := range s.Issues {
		req.Issues = append(req.Issues, string(issue))
	}
	if len(s.RecentQA) > 0 {
		req.ConversationContext = &gateway.ConversationContext{RecentQA: s.RecentQA}
	}

	svc.log.Info("submitting feedback",
		zap.String("message", s.MessageID),
		zap.String("type", string(s.Type)),
		zap.String("game", s.GameName),
		zap.Int("issues", len(s.Issues)),
		zap.Bool("description", s.Description != ""))

	resp, err := svc.submitter.SubmitFeedback(ctx, req)
	if err != nil {
		svc.log.Warn("feedback submission failed", zap.Error(err))
		return nil, err
	}
	return resp, nil
}
