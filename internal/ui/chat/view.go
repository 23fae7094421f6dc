// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/warlock-tui/internal/model"
	"github.com/jeranaias/warlock-tui/internal/render"
	"github.com/jeranaias/warlock-tui/internal/ui/styles"
)

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) renderChat() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			m.help.FullHelpView(m.keyMap.FullHelp()),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	game := m.games.Selected()
	title := m.theme.HeaderTitle.Render("Warlock") + "  " + m.theme.HeaderGame.Render(game.Name)
	return m.theme.Header.MaxWidth(max(m.width, 1)).Render(title)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(max(m.width-2, 1)).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	left := m.status
	if left == "" {
		left = m.help.ShortHelpView(m.keyMap.ShortHelp())
	}
	return m.theme.StatusBar.MaxWidth(max(m.width, 1)).Render(left)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// renderMessages renders the whole message list for the viewport.
func (m *Model) renderMessages() string {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	parts := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		parts = append(parts, m.renderMessage(msg, width))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMessage(msg *model.ChatMessage, width int) string {
	header := m.theme.RoleLabel(msg.Role) + " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	// border and padding of the bubbles
	bodyWidth := max(width-3, 10)

	switch {
	case msg.IsLoading:
		return header + "\n" + m.spinner.View() + " " + m.theme.ThinkingText.Render("Consulting the rulebook...")

	case msg.Role == model.RoleUser:
		return header + "\n" + m.theme.UserBubble.Render(render.TerminalWithStyles(msg.Content, bodyWidth, render.PlainStyles()))

	case msg.Role == model.RoleSystem:
		return m.theme.SystemText.Render(msg.Content)

	case msg.IsError():
		return header + "\n" + m.theme.ErrorBubble.Render(styles.StatusIndicators.Error+" "+msg.Content)
	}

	var sb strings.Builder
	sb.WriteString(header)
	if fb := msg.UserFeedback; fb != nil {
		if fb.Type == model.FeedbackPositive {
			sb.WriteString(" " + m.theme.FeedbackUp.Render("[+]"))
		} else {
			sb.WriteString(" " + m.theme.FeedbackDown.Render("[-]"))
		}
	}
	sb.WriteString("\n")

	body := render.TerminalWithStyles(msg.Content, bodyWidth, m.theme.RenderStyles())
	for _, ref := range msg.References {
		if text := ref.Text(); text != "" {
			body += "\n" + m.theme.Reference.Render("  > "+text)
		}
	}
	sb.WriteString(m.theme.AnswerBubble.Render(body))
	return sb.String()
}
