// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// output.go - Answer and transcript rendering for the line-based commands.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/warlock-tui/internal/model"
	"github.com/jeranaias/warlock-tui/internal/render"
	"github.com/jeranaias/warlock-tui/internal/ui/styles"
)

// ErrAnswerFailed is returned when the assistant reported a failure.
var ErrAnswerFailed = errors.New("the assistant could not answer")

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	referenceStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)
)

// =============================================================================
// ANSWERS
// =============================================================================

// renderStyles returns colored styles for a terminal and plain ones for
// pipes.
func (a *App) renderStyles() render.Styles {
	if !ColorsEnabled() {
		return render.PlainStyles()
	}
	return styles.NewTheme(a.Config.UI.Theme).RenderStyles()
}

// wrapWidth returns the wrap width for answers, 0 when wrapping is off.
func (a *App) wrapWidth() int {
	if !a.Config.UI.WordWrap || !IsStdoutTTY() {
		return 0
	}
	return GetTerminalWidth() - 2
}

// formatMessage renders a message for line-based output.
func (a *App) formatMessage(msg *model.ChatMessage) string {
	if msg.IsError() {
		return styles.RenderError(msg.Content)
	}
	if msg.Role != model.RoleAssistant {
		return msg.Content
	}

	var sb strings.Builder
	sb.WriteString(render.TerminalWithStyles(msg.Content, a.wrapWidth(), a.renderStyles()))
	for _, ref := range msg.References {
		if text := ref.Text(); text != "" {
			sb.WriteString("\n")
			sb.WriteString(referenceStyle.Render("  > " + text))
		}
	}
	return sb.String()
}

// printMessage writes a message with its speaker label.
func (a *App) printMessage(msg *model.ChatMessage) {
	label := msg.Role.DisplayName()
	if msg.Role == model.RoleUser {
		label = promptStyle.Render(label)
	} else {
		label = welcomeStyle.Render(label)
	}
	fmt.Fprintf(a.Out, "%s %s\n%s\n\n", label,
		infoStyle.Render(msg.Timestamp.Format("2006-01-02 15:04")), a.formatMessage(msg))
}

// =============================================================================
// MARKDOWN
// =============================================================================

// renderMarkdown renders a Markdown document for the terminal. The
// content is returned unchanged when stdout is not a terminal or glamour
// fails.
func renderMarkdown(content string, width int) string {
	if !ColorsEnabled() {
		return content
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}
