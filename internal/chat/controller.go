// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation state machine behind every
// warlock front end.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/warlock-tui/internal/feedback"
	"github.com/jeranaias/warlock-tui/internal/games"
	"github.com/jeranaias/warlock-tui/internal/gateway"
	"github.com/jeranaias/warlock-tui/internal/history"
	"github.com/jeranaias/warlock-tui/internal/model"
	"github.com/jeranaias/warlock-tui/internal/session"
)

// lastError values for failures without a server message.
const (
	connectionErrorLabel = "Connection error"
	genericErrorLabel    = "An error occurred"
)

// Deps are the collaborators of a Controller. Registry, Store, Sender and
// Games are required.
type Deps struct {
	Registry  *session.Registry
	Store     *history.Store
	Sender    gateway.Sender
	Games     *games.Provider
	Clipboard Clipboard         // default SystemClipboard
	Feedback  *feedback.Service // nil disables RecordFeedback
	Logger    *zap.Logger
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the chat state machine. All methods are safe for
// concurrent use; state changes are serialized on an internal mutex and the
// gateway is called without holding it.
type Controller struct {
	mu sync.Mutex

	registry  *session.Registry
	store     *history.Store
	sender    gateway.Sender
	games     *games.Provider
	clipboard Clipboard
	feedback  *feedback.Service
	log       *zap.Logger

	gameID    string
	sending   bool
	hasError  bool
	lastError string
}

// New creates a controller. Call Initialize before sending.
func New(deps Deps) *Controller {
	if deps.Clipboard == nil {
		deps.Clipboard = SystemClipboard{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Controller{
		registry:  deps.Registry,
		store:     deps.Store,
		sender:    deps.Sender,
		games:     deps.Games,
		clipboard: deps.Clipboard,
		feedback:  deps.Feedback,
		log:       deps.Logger.Named("chat"),
	}
}

// request is one dispatch to the gateway.
type request struct {
	question      string
	sessionID     string
	gameID        string
	placeholderID string
}

// Pending tracks an asynchronous send.
type Pending struct {
	// PlaceholderID identifies the loading message shown meanwhile.
	PlaceholderID string
	done          chan struct{}
}

// Done is closed once the exchange has settled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the exchange has settled.
func (p *Pending) Wait() {
	<-p.done
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Initialize makes gameID the active game, creating its session if there is
// none: seeded from stored history, or with a welcome message when history
// is empty. An existing session is reused. An empty gameID means the game
// selected in the provider.
func (c *Controller) Initialize(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initLocked(gameID)
}

func (c *Controller) initLocked(gameID string) *model.ChatSession {
	if gameID == "" {
		gameID = c.games.SelectedID()
	}
	if gameID != c.gameID {
		c.hasError = false
		c.lastError = ""
	}
	c.gameID = gameID
	if s := c.registry.Current(gameID); s != nil {
		return s
	}
	s := c.registry.Start(c.gameInfo(gameID), c.store.GetHistory(gameID))
	c.log.Debug("session started",
		zap.String("game", gameID),
		zap.String("session", s.ID),
		zap.Int("restored", len(s.Messages)))
	return s
}

// current returns the active session, creating it on first use.
// Must be called with c.mu held.
func (c *Controller) current() *model.ChatSession {
	if s := c.registry.Current(c.gameID); s != nil {
		return s
	}
	return c.initLocked(c.gameID)
}

// SwitchGame selects gameID in the provider and activates its session.
// Allowed while a request is in flight; its answer still lands in the
// session it was asked from.
func (c *Controller) SwitchGame(gameID string) error {
	if err := c.games.Select(gameID); err != nil {
		return err
	}
	c.Initialize(gameID)
	return nil
}

// Clear erases the stored history of the active game and starts a fresh
// session with a welcome message. Allowed while a request is in flight.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gameID == "" {
		c.gameID = c.games.SelectedID()
	}
	c.store.ClearHistory(c.gameID)
	s := c.registry.Start(c.gameInfo(c.gameID), nil)
	c.hasError = false
	c.lastError = ""
	c.log.Info("conversation cleared", zap.String("game", c.gameID), zap.String("session", s.ID))
}

// StartNewConversation is Clear under the name the UI uses.
func (c *Controller) StartNewConversation() {
	c.Clear()
}

// =============================================================================
// SEND AND RETRY
// =============================================================================

// Send asks text and blocks until the exchange settles. It reports false
// when the input was ignored: blank text or a request already in flight.
func (c *Controller) Send(ctx context.Context, text string) bool {
	p, ok := c.SendAsync(ctx, text)
	if ok {
		p.Wait()
	}
	return ok
}

// SendAsync is Send without waiting. The returned Pending settles when the
// placeholder has been resolved or discarded.
func (c *Controller) SendAsync(ctx context.Context, text string) (*Pending, bool) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, false
	}
	msg, ok := model.NewUserMessage(text)
	if !ok {
		c.mu.Unlock()
		return nil, false
	}
	s := c.current()
	s.AddMessage(msg)
	c.store.SaveMessage(s.Game, msg)
	req := c.beginLocked(s, msg.Content)
	c.mu.Unlock()

	return c.start(ctx, req), true
}

// Retry asks the last question again, dropping whatever followed it.
// It blocks until the exchange settles and reports false when there was
// nothing to retry or a request is already in flight.
func (c *Controller) Retry(ctx context.Context) bool {
	p, ok := c.RetryAsync(ctx)
	if ok {
		p.Wait()
	}
	return ok
}

// RetryAsync is Retry without waiting.
func (c *Controller) RetryAsync(ctx context.Context) (*Pending, bool) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, false
	}
	s := c.current()
	last := s.GetLastUserMessage()
	if last == nil {
		c.mu.Unlock()
		return nil, false
	}
	s.TruncateAfter(last.ID)
	c.store.TruncateAfter(s.Game, last.ID)
	req := c.beginLocked(s, last.Content)
	c.mu.Unlock()

	c.log.Info("retrying question", zap.String("game", req.gameID), zap.String("message", last.ID))
	return c.start(ctx, req), true
}

// beginLocked appends the placeholder and enters the sending state.
func (c *Controller) beginLocked(s *model.ChatSession, question string) request {
	placeholder := model.NewLoadingMessage()
	s.AddMessage(placeholder)
	c.sending = true
	c.hasError = false
	c.lastError = ""
	return request{
		question:      question,
		sessionID:     s.ID,
		gameID:        s.Game,
		placeholderID: placeholder.ID,
	}
}

func (c *Controller) start(ctx context.Context, req request) *Pending {
	p := &Pending{PlaceholderID: req.placeholderID, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		c.dispatch(ctx, req)
	}()
	return p
}

// dispatch calls the gateway and resolves the placeholder. The sending flag
// is cleared on every exit path.
func (c *Controller) dispatch(ctx context.Context, req request) {
	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	started := time.Now()
	res, err := c.call(ctx, req)
	c.log.Debug("gateway settled",
		zap.String("game", req.gameID),
		zap.Duration("elapsed", time.Since(started)),
		zap.Bool("transport_error", err != nil))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolveLocked(req, res, err)
}

// call invokes the gateway, turning a panic into a transport failure.
func (c *Controller) call(ctx context.Context, req request) (res *gateway.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("gateway panic: %v", r)
		}
	}()
	return c.sender.SendMessage(ctx, req.question, req.sessionID, req.gameID)
}

// resolveLocked replaces the placeholder with the outcome. If the
// placeholder is gone (session cleared or replaced), the outcome is dropped.
func (c *Controller) resolveLocked(req request, res *gateway.Result, err error) {
	s := c.registry.Get(req.sessionID)
	if s == nil || s.GetMessageByID(req.placeholderID) == nil {
		c.log.Debug("discarding answer for abandoned placeholder",
			zap.String("session", req.sessionID),
			zap.String("placeholder", req.placeholderID))
		return
	}
	s.RemoveMessage(req.placeholderID)

	var msg *model.ChatMessage
	failure := ""
	switch {
	case err != nil:
		c.log.Warn("chat request failed", zap.String("game", req.gameID), zap.Error(err))
		msg = model.NewErrorMessage(model.ConnectionErrorText, model.ErrConnection)
		failure = connectionErrorLabel

	case res == nil:
		msg = model.NewErrorMessage(model.GenericErrorText, model.ErrUnknown)
		failure = genericErrorLabel

	case res.Err != nil:
		c.log.Warn("chat request rejected",
			zap.String("game", req.gameID),
			zap.String("code", res.Err.Code),
			zap.String("message", res.Err.Message))
		msg = model.NewErrorMessage(model.DisplayText(res.Err), res.Err.Kind)
		failure = res.Err.Message
		if failure == "" {
			failure = genericErrorLabel
		}

	default:
		msg = model.NewAssistantMessage(res.Answer, res.Timestamp, res.References)
	}

	// The error flags describe the game on screen; an answer landing in a
	// game the user switched away from leaves them alone.
	if failure != "" && req.gameID == c.gameID {
		c.hasError = true
		c.lastError = failure
	}

	s.AddMessage(msg)
	c.store.SaveMessage(s.Game, msg)
}

// =============================================================================
// COPY AND FEEDBACK
// =============================================================================

// CopyMessage writes the content of message id to the clipboard. It reports
// false when the message is unknown or the clipboard failed.
func (c *Controller) CopyMessage(id string) (ok bool) {
	c.mu.Lock()
	var content string
	found := false
	if s := c.registry.Current(c.gameID); s != nil {
		if m := s.GetMessageByID(id); m != nil {
			content, found = m.Content, true
		}
	}
	c.mu.Unlock()
	if !found {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("clipboard panicked", zap.Any("panic", r))
			ok = false
		}
	}()
	if err := c.clipboard.WriteAll(content); err != nil {
		c.log.Warn("failed to copy message", zap.Error(err))
		return false
	}
	return true
}

// ErrFeedbackDisabled is returned by RecordFeedback without a feedback service.
var ErrFeedbackDisabled = errors.New("feedback is not configured")

// ErrNotRateable is returned when the message cannot receive feedback.
var ErrNotRateable = errors.New("only settled assistant answers can be rated")

// FeedbackInput is what the user said about an answer.
type FeedbackInput struct {
	MessageID   string
	Type        model.FeedbackType
	Issues      []feedback.Issue
	Description string
}

// RecordFeedback submits feedback on an assistant answer of the active
// session and, on success, attaches it to the message in the session and in
// history. Submission failures are returned for the UI to show.
func (c *Controller) RecordFeedback(ctx context.Context, in FeedbackInput) error {
	if c.feedback == nil {
		return ErrFeedbackDisabled
	}

	c.mu.Lock()
	s := c.current()
	m := s.GetMessageByID(in.MessageID)
	if m == nil || !m.IsAnswer() {
		c.mu.Unlock()
		return ErrNotRateable
	}
	sub := &feedback.Submission{
		MessageID:   in.MessageID,
		GameName:    s.Game,
		Type:        in.Type,
		Issues:      in.Issues,
		Description: in.Description,
		RecentQA:    feedback.RecentQA(s.Messages, feedback.RecentPairs),
	}
	sessionID := s.ID
	c.mu.Unlock()

	if _, err := c.feedback.Submit(ctx, sub); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	s = c.registry.Get(sessionID)
	if s == nil {
		return nil
	}
	if m := s.GetMessageByID(in.MessageID); m != nil {
		rated := m.WithFeedback(model.Feedback{
			Type:        in.Type,
			SubmittedAt: time.Now().UTC().Format(time.RFC3339),
		})
		s.ReplaceMessage(m.ID, rated)
		c.store.UpdateMessage(s.Game, rated)
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Messages returns a copy of the active session's messages.
func (c *Controller) Messages() []*model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.registry.Current(c.gameID); s != nil {
		return s.Snapshot()
	}
	return nil
}

// Session returns a copy of the active session, or nil before Initialize.
func (c *Controller) Session() *model.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.registry.Current(c.gameID)
	if s == nil {
		return nil
	}
	return &model.ChatSession{ID: s.ID, Game: s.Game, CreatedAt: s.CreatedAt, Messages: s.Snapshot()}
}

// LastAnswer returns the latest settled assistant message, or nil.
func (c *Controller) LastAnswer() *model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.registry.Current(c.gameID); s != nil {
		if m := s.GetLastAssistantMessage(); m != nil {
			return m.Clone()
		}
	}
	return nil
}

// GameID returns the active game.
func (c *Controller) GameID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameID
}

// IsSending reports whether a request is in flight.
func (c *Controller) IsSending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// CanSend reports whether Send would be accepted for non-blank input.
func (c *Controller) CanSend() bool {
	return !c.IsSending()
}

// HasError reports whether the last exchange failed.
func (c *Controller) HasError() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasError
}

// LastError returns the text of the last failure, or "".
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// gameInfo describes gameID from the catalog, or from the id alone.
func (c *Controller) gameInfo(gameID string) model.GameInfo {
	if g, ok := c.games.Lookup(gameID); ok {
		return g
	}
	return model.GameFromID(gameID)
}
