// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/warlock-tui/internal/config"
	"github.com/jeranaias/warlock-tui/internal/gateway"
	"github.com/jeranaias/warlock-tui/internal/history"
	"github.com/jeranaias/warlock-tui/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

type stubGateway struct {
	failCode  string
	questions []string
	feedback  []*gateway.FeedbackRequest
}

func (g *stubGateway) SendMessage(_ context.Context, question, _, _ string) (*gateway.Result, error) {
	g.questions = append(g.questions, question)
	if g.failCode != "" {
		return &gateway.Result{Err: model.NewAPIError(g.failCode, "Server error: 500")}, nil
	}
	return &gateway.Result{
		Answer:     "Move **up to 2** rooms.",
		References: []model.Reference{{ID: 1, Title: "Rulebook", Page: "12"}},
	}, nil
}

func (g *stubGateway) ListGames(context.Context) ([]model.GameInfo, error) {
	return []model.GameInfo{model.GameFromID("nemesis"), model.GameFromID("root")}, nil
}

func (g *stubGateway) SubmitFeedback(_ context.Context, req *gateway.FeedbackRequest) (*gateway.FeedbackResponse, error) {
	g.feedback = append(g.feedback, req)
	return &gateway.FeedbackResponse{FeedbackID: "fb-1"}, nil
}

type memClipboard struct{ text string }

func (c *memClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

// scriptedInput replays lines and then reports EOF.
type scriptedInput struct{ lines []string }

func (s *scriptedInput) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type testApp struct {
	*App
	gw   *stubGateway
	clip *memClipboard
	out  *bytes.Buffer
	errb *bytes.Buffer
}

func newTestApp(t *testing.T, args Args) *testApp {
	t.Helper()
	if args.Options == nil {
		args.Options = map[string]string{}
	}
	gw := &stubGateway{}
	clip := &memClipboard{}

	app, err := BuildWith(context.Background(), config.Default(), args, Services{
		Sender:    gw,
		Lister:    gw,
		Feedback:  gw,
		Backend:   history.NewMemoryBackend(),
		Clipboard: clip,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	out, errb := &bytes.Buffer{}, &bytes.Buffer{}
	app.In = strings.NewReader("")
	app.Out, app.Err = out, errb
	return &testApp{App: app, gw: gw, clip: clip, out: out, errb: errb}
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		want  Command
		check func(t *testing.T, a Args)
	}{
		{"no args starts tui", nil, CmdTUI, nil},
		{"ask joins words", []string{"ask", "how", "does", "noise", "work"}, CmdAsk, func(t *testing.T, a Args) {
			assert.Equal(t, "how does noise work", a.Query)
		}},
		{"bare words ask", []string{"What", "ends", "the", "game?"}, CmdAsk, func(t *testing.T, a Args) {
			assert.Equal(t, "What ends the game?", a.Query)
		}},
		{"global flags anywhere", []string{"--json", "ask", "--game", "Root", "q"}, CmdAsk, func(t *testing.T, a Args) {
			assert.True(t, a.JSON)
			assert.Equal(t, "root", a.Game)
			assert.Equal(t, "q", a.Query)
		}},
		{"game equals form", []string{"--game=root", "chat"}, CmdChat, func(t *testing.T, a Args) {
			assert.Equal(t, "root", a.Game)
		}},
		{"history defaults to list", []string{"history"}, CmdHistory, func(t *testing.T, a Args) {
			assert.Equal(t, "list", a.Subcommand)
		}},
		{"history export options", []string{"h", "export", "Nemesis", "-f", "html", "--output=/tmp", "--open"}, CmdHistory, func(t *testing.T, a Args) {
			assert.Equal(t, "export", a.Subcommand)
			assert.Equal(t, "nemesis", a.Target)
			assert.Equal(t, "html", a.Options["format"])
			assert.Equal(t, "/tmp", a.Options["output"])
			assert.Equal(t, "true", a.Options["open"])
		}},
		{"config set joins value", []string{"config", "set", "log.file", "a", "b"}, CmdConfig, func(t *testing.T, a Args) {
			assert.Equal(t, "set", a.Subcommand)
			assert.Equal(t, "log.file", a.ConfigKey)
			assert.Equal(t, "a b", a.ConfigVal)
		}},
		{"config defaults to show", []string{"config"}, CmdConfig, func(t *testing.T, a Args) {
			assert.Equal(t, "show", a.Subcommand)
		}},
		{"mode flags", []string{"--mock", "--ephemeral", "-v", "-q", "games"}, CmdGames, func(t *testing.T, a Args) {
			assert.True(t, a.Mock)
			assert.True(t, a.Ephemeral)
			assert.True(t, a.Verbose)
			assert.True(t, a.Quiet)
		}},
		{"bare words keep case", []string{"Can", "I", "Move", "--game", "root"}, CmdAsk, func(t *testing.T, a Args) {
			assert.Equal(t, "Can I Move", a.Query)
			assert.Equal(t, "root", a.Game)
		}},
		{"command names ignore case", []string{"GAMES"}, CmdGames, nil},
		{"version flag", []string{"--version"}, CmdVersion, nil},
		{"short version flag", []string{"-V"}, CmdVersion, nil},
		{"help flag", []string{"-h"}, CmdHelp, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := Parse(tt.argv)
			assert.Equal(t, tt.want, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "warlock ask")
	assert.Contains(t, buf.String(), Version)

	buf.Reset()
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), "warlock version "+Version)
}

// =============================================================================
// BUILD TESTS
// =============================================================================

func TestBuildWith_SelectsGame(t *testing.T) {
	app := newTestApp(t, Args{Game: "root"})
	assert.Equal(t, "root", app.Chat.GameID())
	assert.Equal(t, "root", app.Games.SelectedID())
}

func TestBuildWith_UnknownGame(t *testing.T) {
	gw := &stubGateway{}
	_, err := BuildWith(context.Background(), config.Default(), Args{Game: "chess"}, Services{
		Sender: gw, Lister: gw, Feedback: gw, Backend: history.NewMemoryBackend(),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chess")
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestHandleAsk_Text(t *testing.T) {
	app := newTestApp(t, Args{Query: "How far can I move?"})

	require.NoError(t, app.HandleAsk(context.Background()))
	assert.Equal(t, []string{"How far can I move?"}, app.gw.questions)
	assert.Contains(t, app.out.String(), "up to 2")
	assert.Contains(t, app.out.String(), "Rulebook")

	stored := app.Store.GetHistory("nemesis")
	require.Len(t, stored, 2)
	assert.Equal(t, model.RoleUser, stored[0].Role)
}

func TestHandleAsk_JSON(t *testing.T) {
	app := newTestApp(t, Args{Query: "q", JSON: true})
	require.NoError(t, app.HandleAsk(context.Background()))

	var resp struct {
		Success bool    `json:"success"`
		Command string  `json:"command"`
		Data    AskData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ask", resp.Command)
	assert.Equal(t, "nemesis", resp.Data.Game)
	assert.Equal(t, "Move **up to 2** rooms.", resp.Data.Answer)
	assert.Len(t, resp.Data.References, 1)
}

func TestHandleAsk_ErrorAnswer(t *testing.T) {
	app := newTestApp(t, Args{Query: "q"})
	app.gw.failCode = "API_ERROR"

	err := app.HandleAsk(context.Background())
	assert.ErrorIs(t, err, ErrAnswerFailed)
	assert.Contains(t, app.errb.String(), "Server error: 500")
	assert.Empty(t, app.out.String())
}

func TestHandleAsk_ErrorAnswerJSON(t *testing.T) {
	app := newTestApp(t, Args{Query: "q", JSON: true})
	app.gw.failCode = "RATE_LIMITED"

	err := app.HandleAsk(context.Background())
	assert.ErrorIs(t, err, ErrAnswerFailed)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, model.RateLimitText, *resp.Error)
}

func TestHandleAsk_ReadsPipedQuestion(t *testing.T) {
	if IsTTY() {
		t.Skip("stdin is a terminal")
	}
	app := newTestApp(t, Args{})
	app.In = strings.NewReader("  What ends the game?\n")

	require.NoError(t, app.HandleAsk(context.Background()))
	assert.Equal(t, []string{"What ends the game?"}, app.gw.questions)
}

func TestHandleAsk_NoQuestion(t *testing.T) {
	app := newTestApp(t, Args{})
	err := app.HandleAsk(context.Background())
	require.Error(t, err)
	assert.Empty(t, app.gw.questions)
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestRunChat_Conversation(t *testing.T) {
	app := newTestApp(t, Args{Quiet: true})
	in := &scriptedInput{lines: []string{
		"How far can I move?",
		"",
		"/retry",
		"/copy",
		"/good",
		"/quit",
		"never read",
	}}

	require.NoError(t, app.RunChat(context.Background(), in))

	out := app.out.String()
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "Answer copied")
	assert.Contains(t, out, "Thanks for the feedback")
	assert.Contains(t, out, "Goodbye!")

	assert.Equal(t, []string{"How far can I move?", "How far can I move?"}, app.gw.questions)
	assert.Equal(t, "Move **up to 2** rooms.", app.clip.text)
	require.Len(t, app.gw.feedback, 1)
	assert.Equal(t, []string{"never read"}, in.lines)

	// Retry replaced the first answer instead of appending a second one.
	assert.Len(t, app.Store.GetHistory("nemesis"), 2)
}

func TestRunChat_BadFeedbackCarriesIssue(t *testing.T) {
	app := newTestApp(t, Args{Quiet: true})
	in := &scriptedInput{lines: []string{"q", "/bad wrong_game this is root"}}

	require.NoError(t, app.RunChat(context.Background(), in))
	require.Len(t, app.gw.feedback, 1)
	assert.Contains(t, app.out.String(), "Thanks for the feedback")
}

func TestRunChat_GameCommands(t *testing.T) {
	app := newTestApp(t, Args{Quiet: true})
	in := &scriptedInput{lines: []string{"/game", "/games", "/game root", "/game chess", "/bogus"}}

	require.NoError(t, app.RunChat(context.Background(), in))

	out := app.out.String()
	assert.Contains(t, out, "Current game: Nemesis")
	assert.Contains(t, out, "Switched to Root")
	assert.Contains(t, out, "Unknown command /bogus")
	assert.Equal(t, "root", app.Chat.GameID())
}

func TestRunChat_NewConversationClearsHistory(t *testing.T) {
	app := newTestApp(t, Args{Quiet: true})
	in := &scriptedInput{lines: []string{"q", "/new"}}

	require.NoError(t, app.RunChat(context.Background(), in))
	assert.Empty(t, app.Store.GetHistory("nemesis"))
	assert.Contains(t, app.out.String(), "Started a new conversation")
}

func TestRunChat_RateWithoutAnswer(t *testing.T) {
	app := newTestApp(t, Args{Quiet: true})
	in := &scriptedInput{lines: []string{"/good", "/help"}}

	require.NoError(t, app.RunChat(context.Background(), in))
	assert.Empty(t, app.gw.feedback)
	assert.Contains(t, app.out.String(), "wrong_game")
}

// =============================================================================
// HISTORY TESTS
// =============================================================================

func TestHandleHistory_ListAndShow(t *testing.T) {
	app := newTestApp(t, Args{Query: "How far can I move?"})
	require.NoError(t, app.HandleAsk(context.Background()))
	app.out.Reset()

	app.Args = Args{JSON: true, Subcommand: "list", Options: map[string]string{}}
	require.NoError(t, app.HandleHistory(context.Background()))

	var list struct {
		Data []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "nemesis", list.Data[0].Game)
	assert.Equal(t, 2, list.Data[0].Messages)

	app.out.Reset()
	app.Args = Args{Subcommand: "show", Target: "nemesis", Options: map[string]string{}}
	require.NoError(t, app.HandleHistory(context.Background()))
	assert.Contains(t, app.out.String(), "How far can I move?")
}

func TestHandleHistory_ListEmpty(t *testing.T) {
	app := newTestApp(t, Args{Subcommand: "list"})
	require.NoError(t, app.HandleHistory(context.Background()))
	assert.Contains(t, app.out.String(), "No stored history")
}

func TestHandleHistory_Export(t *testing.T) {
	app := newTestApp(t, Args{Query: "q"})
	require.NoError(t, app.HandleAsk(context.Background()))
	app.out.Reset()

	dir := t.TempDir()
	app.Args = Args{Subcommand: "export", Options: map[string]string{"format": "json", "output": dir}}
	require.NoError(t, app.HandleHistory(context.Background()))

	path := strings.TrimSpace(app.out.String())
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"game_id": "nemesis"`)
}

func TestHandleHistory_ExportEmpty(t *testing.T) {
	app := newTestApp(t, Args{Subcommand: "export", Target: "root", Options: map[string]string{"output": t.TempDir()}})
	err := app.HandleHistory(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stored history for root")
}

func TestHandleHistory_Clear(t *testing.T) {
	app := newTestApp(t, Args{Query: "q"})
	require.NoError(t, app.HandleAsk(context.Background()))

	app.Args = Args{Subcommand: "clear", Target: "nemesis", Options: map[string]string{}}
	require.NoError(t, app.HandleHistory(context.Background()))
	assert.Empty(t, app.Store.GetHistory("nemesis"))
	assert.Contains(t, app.out.String(), "Cleared history for nemesis")
}

func TestHandleHistory_UnknownSubcommand(t *testing.T) {
	app := newTestApp(t, Args{Subcommand: "rewind"})
	assert.Error(t, app.HandleHistory(context.Background()))
}

// =============================================================================
// GAMES TESTS
// =============================================================================

func TestHandleGames(t *testing.T) {
	app := newTestApp(t, Args{JSON: true, Game: "root"})
	require.NoError(t, app.HandleGames(context.Background()))

	var resp struct {
		Data []GameEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(app.out.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	for _, g := range resp.Data {
		assert.Equal(t, g.ID == "root", g.Selected, g.ID)
	}

	app.out.Reset()
	app.Args.JSON = false
	require.NoError(t, app.HandleGames(context.Background()))
	assert.Contains(t, app.out.String(), "Nemesis")
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestHandleConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	t.Setenv("WARLOCK_GAME", "")
	t.Setenv("WARLOCK_API_KEY", "secret-key")

	// The effective config carries the key from the environment.
	cfg := config.Default()
	cfg.API.APIKey = "secret-key"
	var out bytes.Buffer

	require.NoError(t, HandleConfig(cfg, Args{Subcommand: "get", ConfigKey: "game.default"}, &out))
	assert.Equal(t, "nemesis\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(cfg, Args{Subcommand: "set", ConfigKey: "game.default", ConfigVal: "root"}, &out))
	assert.Equal(t, "root", cfg.Game.Default)

	path, err := config.ConfigPathTOML()
	require.NoError(t, err)
	saved, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "root", saved.Game.Default)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-key", "environment values must not be written to the file")
	assert.Equal(t, "secret-key", cfg.API.APIKey)

	require.NoError(t, HandleConfig(cfg, Args{Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "light"}, &out))
	file, err := config.LoadFile()
	require.NoError(t, err)
	assert.Equal(t, "root", file.Game.Default, "earlier edits are kept")
	assert.Equal(t, "light", file.UI.Theme)

	out.Reset()
	require.NoError(t, HandleConfig(cfg, Args{Subcommand: "show", JSON: true}, &out))
	assert.NotContains(t, out.String(), "secret-key")
	assert.Contains(t, out.String(), "[REDACTED]")

	assert.Error(t, HandleConfig(cfg, Args{Subcommand: "init"}, &out), "config file already exists")
	assert.Error(t, HandleConfig(cfg, Args{Subcommand: "set", ConfigKey: "history.backend", ConfigVal: "floppy"}, &out))
	assert.Equal(t, "file", cfg.History.Backend)
	assert.Error(t, HandleConfig(cfg, Args{Subcommand: "get", ConfigKey: "no.such"}, &out))
}
