// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package render turns assistant answers into displayable structure.

Answers use a small line-oriented markup: "• " bullets, "- " dashes,
"1. " numbered lines, indented continuation lines, and inline **bold**,
*italic* and `code` spans. Rendering is pure: the same text always yields
the same output.

# Key Types

  - Block: one top-level group or paragraph, with its absorbed sub-items
  - Styles: lipgloss styles for terminal output

# Usage

	blocks := render.Parse(answer)
	markup := render.HTML(answer)
	text := render.Terminal(answer, width)

Nested emphasis is not parsed as such. Spans are substituted by three
global passes (bold, italic, code) over the assembled output, so
"**a *b* c**" becomes bold "a " + italic "b" + " c" only because the bold
pass runs first.
*/
package render
