// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the Board Game Warlock API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/warlock-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError is a failure to carry out an exchange at all, as opposed to
// an error the server reported.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches client errors by type so sentinels work with errors.Is.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeRequest
	ErrTypeCanceled
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrCanceled        = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "invalid response"}
)

// Messages for failures classified on the client side.
const (
	timeoutText      = "Request timed out. Please try again."
	networkText      = "Unable to connect to the server. Please check your internet connection."
	unauthorizedText = "API key is invalid or missing. Please check your authentication."
	rateLimitedText  = "Too many requests. Please wait a moment before trying again."
	emptyMessageText = "Please enter a question about the game rules."
	feedbackFailText = "Failed to submit feedback. Please try again later."
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL of the chat API (default: https://api.boardgamewarlock.com/api/v1)
	BaseURL string

	// FeedbackBaseURL of the feedback API (default: https://feedback.boardgamewarlock.com/api/v1)
	FeedbackBaseURL string

	// APIKey sent as x-api-key. May be changed later with SetAPIKey.
	APIKey string

	// Timeout per request (default: 30s)
	Timeout time.Duration

	// RequestsPerMinute throttles outgoing requests client side (default: 30, <0 disables)
	RequestsPerMinute int

	// UserAgent header value
	UserAgent string
}

const (
	DefaultBaseURL         = "https://api.boardgamewarlock.com/api/v1"
	DefaultFeedbackBaseURL = "https://feedback.boardgamewarlock.com/api/v1"
)

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           DefaultBaseURL,
		FeedbackBaseURL:   DefaultFeedbackBaseURL,
		Timeout:           30 * time.Second,
		RequestsPerMinute: 30,
		UserAgent:         "warlock-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Board Game Warlock API.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger

	mu     sync.RWMutex
	apiKey string
}

// NewClientWithConfig creates a client with custom configuration.
// Zero values are filled from DefaultConfig.
func NewClientWithConfig(config *ClientConfig, logger *zap.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.FeedbackBaseURL == "" {
		config.FeedbackBaseURL = defaults.FeedbackBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = defaults.RequestsPerMinute
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	config.FeedbackBaseURL = strings.TrimRight(config.FeedbackBaseURL, "/")

	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	burst := 1
	if config.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(config.RequestsPerMinute))
		burst = min(config.RequestsPerMinute, 5)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		log:        logger.Named("gateway"),
		apiKey:     config.APIKey,
	}
}

// SetAPIKey replaces the key sent with subsequent requests.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(key)
	c.mu.Unlock()
}

// APIKey returns the current key.
func (c *Client) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// =============================================================================
// CHAT
// =============================================================================

// SendMessage asks question about gameID. sessionID may be empty.
//
// Server-side and network failures come back in Result.Err; the returned
// error is non-nil only when the request could not be built, was canceled,
// or the server answered 2xx with an unreadable body.
func (c *Client) SendMessage(ctx context.Context, question, sessionID, gameID string) (*Result, error) {
	if c.APIKey() == "" {
		return failure(string(model.ErrNoAPIKey), model.MissingKeyText), nil
	}
	if strings.TrimSpace(question) == "" {
		return failure(string(model.ErrEmptyMessage), emptyMessageText), nil
	}

	c.log.Debug("sending question",
		zap.String("game", gameID),
		zap.String("session", sessionID),
		zap.Int("length", len(question)))

	var resp ChatResponse
	apiErr, err := c.do(ctx, http.MethodPost, c.config.BaseURL+"/chat", ChatRequest{
		GameName:  gameID,
		Question:  question,
		SessionID: sessionID,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if apiErr != nil {
		if apiErr.Kind == model.ErrUnauthorized {
			apiErr.Message = model.InvalidKeyText
		}
		return &Result{Err: apiErr}, nil
	}

	res := &Result{Answer: resp.Answer, References: resp.References}
	if resp.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, resp.Timestamp); err == nil {
			res.Timestamp = &ts
		}
	}
	return res, nil
}

// =============================================================================
// GAMES
// =============================================================================

// ListGames fetches the game catalog. A structured failure is returned as
// a *model.APIError.
func (c *Client) ListGames(ctx context.Context) ([]model.GameInfo, error) {
	var resp GamesResponse
	apiErr, err := c.do(ctx, http.MethodGet, c.config.BaseURL+"/games", nil, &resp)
	if err != nil {
		return nil, err
	}
	if apiErr != nil {
		return nil, apiErr
	}

	games := make([]model.GameInfo, 0, len(resp.Games))
	for _, id := range resp.Games {
		if strings.TrimSpace(id) == "" {
			continue
		}
		games = append(games, model.GameFromID(id))
	}
	return games, nil
}

// =============================================================================
// FEEDBACK
// =============================================================================

// SubmitFeedback posts feedback to the feedback service. A structured
// failure is returned as a *model.APIError whose Code defaults to
// FEEDBACK_ERROR.
func (c *Client) SubmitFeedback(ctx context.Context, req *FeedbackRequest) (*FeedbackResponse, error) {
	if req.Timestamp == "" {
		req.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	var resp FeedbackResponse
	apiErr, err := c.do(ctx, http.MethodPost, c.config.FeedbackBaseURL+"/feedback", req, &resp)
	if err != nil {
		return nil, err
	}
	if apiErr != nil {
		code, msg := apiErr.Code, apiErr.Message
		if code == "" {
			code = "FEEDBACK_ERROR"
		}
		if msg == "" {
			msg = feedbackFailText
		}
		return nil, model.NewAPIError(code, msg)
	}

	if resp.FeedbackID == "" {
		resp.FeedbackID = "unknown"
	}
	if resp.Message == "" {
		resp.Message = "Feedback submitted successfully"
	}
	return &resp, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one JSON exchange. Network and HTTP failures are classified
// into an APIError; err is reserved for failures outside that set.
func (c *Client) do(ctx context.Context, method, url string, body, out any) (*model.APIError, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &ClientError{Type: ErrTypeRequest, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("x-api-key", c.APIKey())

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ClientError{Type: ErrTypeCanceled, Message: "throttle wait aborted", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return classifyTransport(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classifyStatus(resp.StatusCode, payload)
		c.log.Warn("request failed",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code))
		return apiErr, nil
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
		}
	}
	return nil, nil
}

// classifyTransport maps a failed round trip onto TIMEOUT or NETWORK_ERROR.
// Caller cancellation is not a network condition and is returned as err.
func classifyTransport(ctx context.Context, err error) (*model.APIError, error) {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return nil, &ClientError{Type: ErrTypeCanceled, Message: "request canceled", Cause: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return model.NewAPIError(string(model.ErrTimeout), timeoutText), nil
	}
	return model.NewAPIError(string(model.ErrNetwork), networkText), nil
}

// classifyStatus maps a non-2xx response onto the error set.
func classifyStatus(status int, body []byte) *model.APIError {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewAPIError(string(model.ErrUnauthorized), unauthorizedText)
	case http.StatusTooManyRequests:
		return model.NewAPIError(string(model.ErrRateLimited), rateLimitedText)
	}

	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return model.NewAPIError(string(model.ErrAPI), er.Message)
	}
	return model.NewAPIError(string(model.ErrAPI), fmt.Sprintf("Server error: %d", status))
}
