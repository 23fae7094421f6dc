// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Full-screen chat for warlock.
package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	chatui "github.com/jeranaias/warlock-tui/internal/ui/chat"
	"github.com/jeranaias/warlock-tui/internal/ui/styles"
)

// HandleTUI runs the Bubble Tea chat view until the user quits.
func (a *App) HandleTUI(ctx context.Context) error {
	if !IsTTY() || !IsStdoutTTY() {
		return errors.New("the chat view needs a terminal; use 'warlock ask' or 'warlock chat' instead")
	}

	view := chatui.New(a.Chat, a.Games, styles.NewTheme(a.Config.UI.Theme)).WithContext(ctx)
	p := tea.NewProgram(view, tea.WithAltScreen())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Quit()
		case <-done:
		}
	}()

	_, err := p.Run()
	return err
}
