// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeranaias/warlock-tui/internal/model"
)

func userMsg(t *testing.T, text string) *model.ChatMessage {
	t.Helper()
	m, ok := model.NewUserMessage(text)
	require.True(t, ok)
	return m
}

// failingBackend errors on every call.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}
func (failingBackend) Set(context.Context, string, []byte) error { return errors.New("disk on fire") }
func (failingBackend) Delete(context.Context, string) error      { return errors.New("disk on fire") }
func (failingBackend) Close() error                              { return nil }

func TestStore_KeyFormat(t *testing.T) {
	s := NewStore(NewMemoryBackend(), Options{}, zap.NewNop())
	assert.Equal(t, "boardgame-chat-history_nemesis", s.Key("nemesis"))
	assert.Equal(t, DefaultMaxMessages, s.MaxMessages())
}

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(NewMemoryBackend(), Options{}, nil)

	server := time.Date(2025, 3, 1, 12, 30, 0, 123456789, time.UTC)
	u := userMsg(t, "How does noise work?")
	a := model.NewAssistantMessage("Roll a noise die.", &server, []model.Reference{{ID: 1, Title: "Rulebook", Page: "14"}})
	e := model.NewErrorMessage("Server error: 500", model.ErrAPI)
	a.UserFeedback = &model.Feedback{Type: model.FeedbackPositive, SubmittedAt: "2025-03-01T12:31:00Z"}

	s.SaveMessage("nemesis", u)
	s.SaveMessage("nemesis", a)
	s.SaveMessage("nemesis", e)

	got := s.GetHistory("nemesis")
	require.Len(t, got, 3)
	assert.Equal(t, u.ID, got[0].ID)
	assert.Equal(t, model.RoleUser, got[0].Role)
	assert.Equal(t, "How does noise work?", got[0].Content)
	assert.True(t, got[1].Timestamp.Equal(server))
	assert.Equal(t, a.References, got[1].References)
	require.NotNil(t, got[1].UserFeedback)
	assert.Equal(t, model.FeedbackPositive, got[1].UserFeedback.Type)
	assert.Equal(t, model.ErrAPI, got[2].Error)
}

func TestStore_ExcludesLoadingAndSystem(t *testing.T) {
	s := NewStore(NewMemoryBackend(), Options{}, nil)

	s.SaveMessage("nemesis", model.NewLoadingMessage())
	s.SaveMessage("nemesis", model.NewSystemMessage("switched game"))
	assert.Empty(t, s.GetHistory("nemesis"))

	s.SaveMessage("nemesis", userMsg(t, "q"))
	for _, m := range s.GetHistory("nemesis") {
		assert.False(t, m.IsLoading)
		assert.NotEqual(t, model.RoleSystem, m.Role)
	}
}

func TestStore_WindowAppliedOnWrite(t *testing.T) {
	s := NewStore(NewMemoryBackend(), Options{MaxMessages: 4}, nil)

	var ids []string
	for i := 0; i < 5; i++ {
		m := userMsg(t, "message")
		ids = append(ids, m.ID)
		s.SaveMessage("nemesis", m)
	}

	got := s.GetHistory("nemesis")
	require.Len(t, got, 3) // 5 > 4, excess 1 rounded to 2
	assert.Equal(t, ids[2], got[0].ID)
	assert.Equal(t, ids[4], got[2].ID)
}

func TestStore_GamesAreIsolated(t *testing.T) {
	s := NewStore(NewMemoryBackend(), Options{}, nil)
	s.SaveMessage("nemesis", userMsg(t, "a"))
	s.SaveMessage("root", userMsg(t, "b"))

	assert.Len(t, s.GetHistory("nemesis"), 1)
	s.ClearHistory("nemesis")
	assert.Empty(t, s.GetHistory("nemesis"))
	assert.Len(t, s.GetHistory("root"), 1)

	// Clearing absent history is fine
	s.ClearHistory("nemesis")
}

func TestStore_CorruptDataYieldsEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, Options{}, nil)
	require.NoError(t, backend.Set(context.Background(), s.Key("nemesis"), []byte("{not json")))

	assert.Empty(t, s.GetHistory("nemesis"))

	// Next save overwrites the corrupt payload
	s.SaveMessage("nemesis", userMsg(t, "fresh start"))
	assert.Len(t, s.GetHistory("nemesis"), 1)
}

func TestStore_BackendFailuresAreSwallowed(t *testing.T) {
	s := NewStore(failingBackend{}, Options{}, nil)
	assert.NotPanics(t, func() {
		s.SaveMessage("nemesis", userMsg(t, "q"))
		s.ClearHistory("nemesis")
	})
	assert.Empty(t, s.GetHistory("nemesis"))

	games, err := s.Games()
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestStore_UpdateMessage(t *testing.T) {
	s := NewStore(NewMemoryBackend(), Options{}, nil)
	a := model.NewAssistantMessage("answer", nil, nil)
	s.SaveMessage("nemesis", a)

	updated := a.WithFeedback(model.Feedback{Type: model.FeedbackNegative, SubmittedAt: "now"})
	assert.True(t, s.UpdateMessage("nemesis", updated))
	got := s.GetHistory("nemesis")
	require.Len(t, got, 1)
	require.NotNil(t, got[0].UserFeedback)
	assert.Equal(t, model.FeedbackNegative, got[0].UserFeedback.Type)

	assert.False(t, s.UpdateMessage("nemesis", model.NewAssistantMessage("other", nil, nil)))
}

func TestStore_TruncateAfter(t *testing.T) {
	s := NewStore(NewMemoryBackend(), Options{}, nil)
	u := userMsg(t, "q")
	s.SaveMessage("nemesis", u)
	s.SaveMessage("nemesis", model.NewErrorMessage("boom", model.ErrAPI))

	s.TruncateAfter("nemesis", "unknown")
	assert.Len(t, s.GetHistory("nemesis"), 2)

	s.TruncateAfter("nemesis", u.ID)
	got := s.GetHistory("nemesis")
	require.Len(t, got, 1)
	assert.Equal(t, u.ID, got[0].ID)
}

func TestStore_Games(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, Options{}, nil)
	s.SaveMessage("nemesis", userMsg(t, "a"))
	s.SaveMessage("root", userMsg(t, "b"))
	require.NoError(t, backend.Set(context.Background(), "unrelated", []byte("x")))

	games, err := s.Games()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"nemesis", "root"}, games)
}

// =============================================================================
// BACKEND TESTS
// =============================================================================

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set(ctx, "k_nemesis", []byte(`[]`)))
	require.NoError(t, b.Set(ctx, "k_nemesis", []byte(`[1]`)))
	got, err := b.Get(ctx, "k_nemesis")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	if l, ok := b.(Lister); ok {
		keys, err := l.Keys(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, "k_nemesis")
	}

	require.NoError(t, b.Delete(ctx, "k_nemesis"))
	require.NoError(t, b.Delete(ctx, "k_nemesis"))
	_, err = b.Get(ctx, "k_nemesis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	exerciseBackend(t, b)
	require.NoError(t, b.Close())
	_, err := b.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestFileBackend_EscapesKeys(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	require.NoError(t, b.Set(context.Background(), "prefix_../../etc", []byte("x")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, dir, filepath.Dir(filepath.Join(dir, entries[0].Name())))

	keys, err := b.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"prefix_../../etc"}, keys)
}

func TestFileBackend_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	s := NewStore(b, Options{}, nil)

	require.NoError(t, os.WriteFile(filepath.Join(dir, s.Key("nemesis")+".json"), []byte("garbage"), 0600))
	assert.Empty(t, s.GetHistory("nemesis"))
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)

	s := NewStore(b, Options{}, nil)
	s.SaveMessage("nemesis", userMsg(t, "persisted in sqlite"))
	got := s.GetHistory("nemesis")
	require.Len(t, got, 1)
	assert.Equal(t, "persisted in sqlite", got[0].Content)
}

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("WARLOCK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("WARLOCK_TEST_REDIS_URL not set")
	}
	b, err := NewRedisBackend(context.Background(), url, time.Minute)
	require.NoError(t, err)
	defer b.Close()
	exerciseBackend(t, b)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, OpenOptions{Kind: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = Open(ctx, OpenOptions{Kind: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = Open(ctx, OpenOptions{Kind: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
