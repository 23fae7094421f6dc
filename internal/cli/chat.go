// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-based interactive chat for warlock CLI.
//
// Command: chat
// Short:   Start an interactive chat without the full-screen TUI
//
// Interactive Commands (during chat):
//
//	/help, /h           Show available commands
//	/retry, /r          Ask the last question again
//	/new, /clear        Start a new conversation (erases the game's history)
//	/copy               Copy the last answer to the clipboard
//	/game [id]          Show or switch the game
//	/games              List supported games
//	/history            Reprint the conversation
//	/good, /bad [issue] Rate the last answer
//	/export [format]    Export the history (md, html, json)
//	/quit, /q           Exit chat
//	Ctrl+D              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/warlock-tui/internal/chat"
	"github.com/jeranaias/warlock-tui/internal/config"
	"github.com/jeranaias/warlock-tui/internal/feedback"
	"github.com/jeranaias/warlock-tui/internal/model"
	"github.com/jeranaias/warlock-tui/internal/ui/styles"
	"github.com/jeranaias/warlock-tui/internal/util"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of input.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// Prompt reads a line of input, recording non-empty lines in the history.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT LOOP
// =============================================================================

// HandleChat runs the interactive chat on the terminal.
func (a *App) HandleChat(ctx context.Context) error {
	in := NewChatCLI()
	defer in.Close()
	return a.RunChat(ctx, in)
}

// RunChat runs the chat loop reading from in until EOF or /quit.
func (a *App) RunChat(ctx context.Context, in LineReader) error {
	a.printBanner()
	for _, msg := range a.Chat.Messages() {
		a.printMessage(msg)
	}

	for {
		line, err := in.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(a.Out, infoStyle.Render("Goodbye!"))
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := a.chatCommand(ctx, line); quit {
				return nil
			}
			continue
		}
		a.ask(ctx, func() bool { return a.Chat.Send(ctx, line) })
	}
}

func (a *App) printBanner() {
	game := a.Games.Selected()
	fmt.Fprintln(a.Out, welcomeStyle.Render("Warlock")+" "+infoStyle.Render("rules assistant for "+game.Name))
	fmt.Fprintln(a.Out, infoStyle.Render("Type a question, or /help for commands."))
	fmt.Fprintln(a.Out)
}

// ask runs send and prints the answer it produced.
func (a *App) ask(ctx context.Context, send func() bool) {
	if !a.Args.Quiet {
		fmt.Fprintln(a.Out, infoStyle.Render("Consulting the rulebook..."))
	}
	if !send() {
		fmt.Fprintln(a.Out, styles.RenderWarning("Nothing to send right now"))
		return
	}
	if answer := a.Chat.LastAnswer(); answer != nil {
		a.printMessage(answer)
	}
}

// chatCommand runs a slash command and reports whether to quit.
func (a *App) chatCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	name, rest := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/quit", "/q", "/exit":
		fmt.Fprintln(a.Out, infoStyle.Render("Goodbye!"))
		return true

	case "/help", "/h", "/?":
		a.printChatHelp()

	case "/retry", "/r":
		a.ask(ctx, func() bool { return a.Chat.Retry(ctx) })

	case "/new", "/clear":
		a.Chat.StartNewConversation()
		fmt.Fprintln(a.Out, styles.RenderInfo("Started a new conversation"))
		for _, msg := range a.Chat.Messages() {
			a.printMessage(msg)
		}

	case "/copy":
		last := a.Chat.LastAnswer()
		if last != nil && a.Chat.CopyMessage(last.ID) {
			fmt.Fprintln(a.Out, styles.RenderSuccess("Answer copied to clipboard"))
		} else {
			fmt.Fprintln(a.Out, styles.RenderError("Could not copy the answer"))
		}

	case "/game":
		if len(rest) == 0 {
			fmt.Fprintln(a.Out, "Current game: "+a.Games.Selected().Name)
			break
		}
		if err := a.Chat.SwitchGame(strings.ToLower(rest[0])); err != nil {
			fmt.Fprintln(a.Out, styles.RenderError(err.Error()))
			break
		}
		fmt.Fprintln(a.Out, styles.RenderInfo("Switched to "+a.Games.Selected().Name))

	case "/games":
		a.printGames()

	case "/history":
		for _, msg := range a.Chat.Messages() {
			a.printMessage(msg)
		}

	case "/good", "/bad":
		a.rateLast(ctx, name == "/good", rest)

	case "/export":
		format := "md"
		if len(rest) > 0 {
			format = rest[0]
		}
		path, err := a.exportGame(a.Chat.GameID(), format, ".", false)
		if err != nil {
			fmt.Fprintln(a.Out, styles.RenderError(err.Error()))
			break
		}
		fmt.Fprintln(a.Out, styles.RenderSuccess("Exported to "+path))

	default:
		fmt.Fprintln(a.Out, styles.RenderWarning("Unknown command "+name+", try /help"))
	}
	return false
}

func (a *App) rateLast(ctx context.Context, positive bool, rest []string) {
	last := a.Chat.LastAnswer()
	if !last.IsAnswer() {
		fmt.Fprintln(a.Out, styles.RenderWarning("There is no answer to rate"))
		return
	}
	in := chat.FeedbackInput{MessageID: last.ID, Type: model.FeedbackPositive}
	if !positive {
		in.Type = model.FeedbackNegative
		issue := feedback.IssueOther
		if len(rest) > 0 {
			issue = feedback.Issue(strings.ToLower(rest[0]))
			rest = rest[1:]
		}
		in.Issues = []feedback.Issue{issue}
		in.Description = strings.Join(rest, " ")
	}
	if err := a.Chat.RecordFeedback(ctx, in); err != nil {
		fmt.Fprintln(a.Out, styles.RenderError("Feedback failed: "+err.Error()))
		return
	}
	fmt.Fprintln(a.Out, styles.RenderSuccess("Thanks for the feedback!"))
}

func (a *App) printChatHelp() {
	cmds := [][2]string{
		{"/retry", "Ask the last question again"},
		{"/new", "Start a new conversation"},
		{"/copy", "Copy the last answer"},
		{"/game [id]", "Show or switch the game"},
		{"/games", "List supported games"},
		{"/history", "Reprint the conversation"},
		{"/good", "Rate the last answer as helpful"},
		{"/bad [issue] [note]", "Report a bad answer"},
		{"/export [md|html|json]", "Export the history"},
		{"/quit", "Exit"},
	}
	for _, c := range cmds {
		fmt.Fprintf(a.Out, "  %s  %s\n", commandStyle.Render(util.PadRight(c[0], 24)), infoStyle.Render(c[1]))
	}
	issues := make([]string, 0, len(feedback.Issues))
	for _, i := range feedback.Issues {
		issues = append(issues, string(i))
	}
	fmt.Fprintln(a.Out, infoStyle.Render("  Issues: "+strings.Join(issues, ", ")))
}
