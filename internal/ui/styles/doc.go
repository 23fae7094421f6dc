// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the warlock TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection; the "dark" and "light" theme settings pin the choice instead.

# Key Types

  - Theme: every lipgloss style the chat view uses, plus terminal capabilities
  - LayoutMode: narrow, medium or wide, derived from the window width

# Usage

	theme := styles.NewTheme(cfg.UI.Theme)
	theme.SetSize(width, height)
	body := render.TerminalWithStyles(answer, width, theme.RenderStyles())
*/
package styles
