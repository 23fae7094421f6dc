// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/warlock-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           srv.URL,
		FeedbackBaseURL:   srv.URL + "/fb",
		APIKey:            "secret",
		Timeout:           2 * time.Second,
		RequestsPerMinute: -1,
	}, nil)
}

// =============================================================================
// SEND MESSAGE TESTS
// =============================================================================

func TestSendMessage_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("x-api-key = %q", got)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.GameName != "nemesis" || req.Question != "How do I move?" || req.SessionID != "s1" {
			t.Errorf("unexpected body %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer":     "Spend movement points.",
			"timestamp":  "2025-03-01T12:00:00Z",
			"references": []model.Reference{{ID: 1, Title: "Rulebook", Page: "12"}},
		})
	})

	res, err := client.SendMessage(context.Background(), "How do I move?", "s1", "nemesis")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if !res.OK() {
		t.Fatalf("expected success, got %v", res.Err)
	}
	if res.Answer != "Spend movement points." {
		t.Errorf("Answer = %q", res.Answer)
	}
	if len(res.References) != 1 || res.References[0].Page != "12" {
		t.Errorf("References = %+v", res.References)
	}
	if res.Timestamp == nil || !res.Timestamp.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v", res.Timestamp)
	}
}

func TestSendMessage_OmitsEmptySession(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["session_id"]; ok {
			t.Error("session_id should be omitted when empty")
		}
		w.Write([]byte(`{"answer":"ok"}`))
	})
	res, err := client.SendMessage(context.Background(), "q", "", "nemesis")
	if err != nil || !res.OK() || res.Timestamp != nil {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
}

func TestSendMessage_PreValidation(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	res, _ := client.SendMessage(context.Background(), "   ", "", "nemesis")
	if res.Err == nil || res.Err.Kind != model.ErrEmptyMessage {
		t.Errorf("blank question: got %+v", res.Err)
	}

	client.SetAPIKey("")
	res, _ = client.SendMessage(context.Background(), "q", "", "nemesis")
	if res.Err == nil || res.Err.Kind != model.ErrNoAPIKey || res.Err.Message != model.MissingKeyText {
		t.Errorf("missing key: got %+v", res.Err)
	}
	if called {
		t.Error("pre-validation failures must not reach the server")
	}
}

func TestSendMessage_StatusClassification(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		kind    model.ErrorKind
		message string
	}{
		{401, "", model.ErrUnauthorized, model.InvalidKeyText},
		{403, `{"message":"forbidden"}`, model.ErrUnauthorized, model.InvalidKeyText},
		{429, "", model.ErrRateLimited, rateLimitedText},
		{500, `{"message":"Model overloaded"}`, model.ErrAPI, "Model overloaded"},
		{502, "<html>bad gateway</html>", model.ErrAPI, "Server error: 502"},
	}
	for _, tc := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(tc.body))
		})
		res, err := client.SendMessage(context.Background(), "q", "", "nemesis")
		if err != nil {
			t.Fatalf("status %d: unexpected error %v", tc.status, err)
		}
		if res.Err == nil || res.Err.Kind != tc.kind || res.Err.Message != tc.message {
			t.Errorf("status %d: got %+v, want %s %q", tc.status, res.Err, tc.kind, tc.message)
		}
	}
}

func TestSendMessage_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClientWithConfig(&ClientConfig{BaseURL: url, APIKey: "k", RequestsPerMinute: -1}, nil)
	res, err := client.SendMessage(context.Background(), "q", "", "nemesis")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if res.Err == nil || res.Err.Kind != model.ErrNetwork {
		t.Errorf("got %+v, want NETWORK_ERROR", res.Err)
	}
}

func TestSendMessage_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	client.httpClient.Timeout = 50 * time.Millisecond

	res, err := client.SendMessage(context.Background(), "q", "", "nemesis")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if res.Err == nil || res.Err.Kind != model.ErrTimeout {
		t.Errorf("got %+v, want TIMEOUT", res.Err)
	}
}

func TestSendMessage_Canceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SendMessage(ctx, "q", "", "nemesis")
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("err = %v, want ErrCanceled", err)
	}
}

func TestSendMessage_InvalidBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})
	_, err := client.SendMessage(context.Background(), "q", "", "nemesis")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("err = %v, want ErrInvalidResponse", err)
	}
}

// =============================================================================
// GAMES AND FEEDBACK TESTS
// =============================================================================

func TestListGames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/games" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"games":["nemesis","root",""]}`))
	})
	games, err := client.ListGames(context.Background())
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(games) != 2 || games[1].Name != "Root" || games[1].Description != "Rules assistant for root" {
		t.Errorf("games = %+v", games)
	}
}

func TestListGames_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := client.ListGames(context.Background())
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind != model.ErrAPI {
		t.Errorf("err = %v, want API_ERROR", err)
	}
}

func TestSubmitFeedback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fb/feedback" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req FeedbackRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.MessageID != "m1" || req.FeedbackType != "negative" || req.Timestamp == "" {
			t.Errorf("unexpected body %+v", req)
		}
		w.Write([]byte(`{}`))
	})
	resp, err := client.SubmitFeedback(context.Background(), &FeedbackRequest{
		MessageID: "m1", GameName: "nemesis", FeedbackType: "negative", Issues: []string{"unclear"},
	})
	if err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if resp.FeedbackID != "unknown" || resp.Message != "Feedback submitted successfully" {
		t.Errorf("defaults not applied: %+v", resp)
	}
}

func TestSubmitFeedback_Failure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad issue tag"}`))
	})
	_, err := client.SubmitFeedback(context.Background(), &FeedbackRequest{MessageID: "m1"})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad issue tag" {
		t.Errorf("err = %v", err)
	}
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test/api/"}, nil)
	if c.config.BaseURL != "http://example.test/api" {
		t.Errorf("trailing slash not trimmed: %q", c.config.BaseURL)
	}
	if c.config.FeedbackBaseURL != DefaultFeedbackBaseURL || c.config.Timeout != 30*time.Second {
		t.Errorf("defaults not filled: %+v", c.config)
	}
}

// =============================================================================
// MOCK TESTS
// =============================================================================

func TestMockSender(t *testing.T) {
	m := &MockSender{}
	tests := []struct {
		question string
		game     string
		contains string
	}{
		{"How does movement work?", "nemesis", "Movement in Nemesis"},
		{"How do I WIN?", "nemesis", "Victory Conditions"},
		{"reload my weapon", "nemesis", "Reloading Weapons"},
		{"what about infection", "nemesis", "Contamination in Nemesis"},
		{"hello", "nemesis", "magical realm"},
		{"movement", "root", "Support for root"},
	}
	for _, tc := range tests {
		res, err := m.SendMessage(context.Background(), tc.question, "", tc.game)
		if err != nil || !res.OK() {
			t.Fatalf("%q: unexpected failure %v %v", tc.question, err, res.Err)
		}
		if !strings.Contains(res.Answer, tc.contains) {
			t.Errorf("%q: answer does not contain %q", tc.question, tc.contains)
		}
	}
}

func TestMockSender_Failure(t *testing.T) {
	m := &MockSender{FailureRate: 1, rng: func() float64 { return 0 }}
	res, _ := m.SendMessage(context.Background(), "q", "", "nemesis")
	if res.Err == nil || res.Err.Kind != model.ErrAPI || res.Err.Code != "TEMPORARY_ERROR" {
		t.Errorf("got %+v", res.Err)
	}
}

func TestMockSender_Canceled(t *testing.T) {
	m := &MockSender{Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.SendMessage(ctx, "q", "", "nemesis"); !errors.Is(err, ErrCanceled) {
		t.Errorf("err = %v, want ErrCanceled", err)
	}
}
