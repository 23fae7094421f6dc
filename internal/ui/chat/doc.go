// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the TUI.
//
// The view is a Bubble Tea model over a chat.Controller. It owns no chat
// state of its own: every key press is translated into a controller action
// and the message list is re-read from the controller after each change.
// Requests run on the controller's goroutine; the view waits for the
// returned Pending in a tea.Cmd and re-renders when it settles.
//
// # Key Types
//
//   - Model: the Bubble Tea model (header, transcript viewport, input, status bar)
//   - KeyMap: the keyboard bindings
//
// # Usage
//
//	view := chatui.New(ctrl, provider, styles.NewTheme(cfg.UI.Theme))
//	p := tea.NewProgram(view, tea.WithAltScreen())
//	_, err := p.Run()
package chat
