// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns assistant answers into displayable structure.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// TERMINAL STYLES
// =============================================================================

// Styles are the lipgloss styles used by Terminal.
type Styles struct {
	Paragraph lipgloss.Style
	Bullet    lipgloss.Style // "•" markers
	SubMarker lipgloss.Style // "-" and "1." markers of sub-items
	Numbered  lipgloss.Style // head line of a numbered group
	Strong    lipgloss.Style
	Em        lipgloss.Style
	Code      lipgloss.Style
}

// DefaultStyles uses text attributes only, no colors.
func DefaultStyles() Styles {
	return Styles{
		Paragraph: lipgloss.NewStyle(),
		Bullet:    lipgloss.NewStyle().Bold(true),
		SubMarker: lipgloss.NewStyle().Faint(true),
		Numbered:  lipgloss.NewStyle(),
		Strong:    lipgloss.NewStyle().Bold(true),
		Em:        lipgloss.NewStyle().Italic(true),
		Code:      lipgloss.NewStyle().Reverse(true),
	}
}

// PlainStyles renders markers and spans without any escape sequences.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Paragraph: s, Bullet: s, SubMarker: s, Numbered: s, Strong: s, Em: s, Code: s}
}

// =============================================================================
// TERMINAL RENDERER
// =============================================================================

// Terminal renders text for a terminal of the given width using
// DefaultStyles. A width below 10 disables wrapping.
func Terminal(text string, width int) string {
	return TerminalWithStyles(text, width, DefaultStyles())
}

// TerminalWithStyles renders text with the given styles. Blocks are the
// same as for HTML; groups become hanging-indent lists.
func TerminalWithStyles(text string, width int, st Styles) string {
	var lines []string
	for _, b := range Parse(text) {
		switch b.Kind {
		case Paragraph:
			lines = append(lines, st.Paragraph.Render(wrap(inlineTerminal(b.Text, st), width)))
		case BulletGroup, DashGroup:
			lines = append(lines, hang(st.Bullet.Render("•")+" ", inlineTerminal(b.Text, st), width))
		case NumberedGroup:
			lines = append(lines, hang("", st.Numbered.Render(inlineTerminal(b.Text, st)), width))
		}

		indent := subIndent(b.Kind)
		for _, it := range b.Items {
			marker := indent + itemMarkerText(it, st) + " "
			lines = append(lines, hang(marker, inlineTerminal(it.Text, st), width))
		}
	}
	return strings.Join(lines, "\n")
}

func subIndent(k Kind) string {
	switch k {
	case DashGroup:
		return "    "
	case NumberedGroup:
		return "   "
	default:
		return "  "
	}
}

func itemMarkerText(it Item, st Styles) string {
	switch it.Kind {
	case SubBullet:
		return st.Bullet.Render("•")
	case SubNumbered:
		return st.SubMarker.Render(it.Marker)
	default:
		return st.SubMarker.Render("-")
	}
}

// hang wraps text to width minus the marker and indents continuation
// lines under the first character of text.
func hang(marker, text string, width int) string {
	mw := lipgloss.Width(marker)
	body := wrap(text, width-mw)
	pad := strings.Repeat(" ", mw)
	parts := strings.Split(body, "\n")
	for i := range parts {
		if i == 0 {
			parts[i] = marker + parts[i]
		} else {
			parts[i] = pad + parts[i]
		}
	}
	return strings.Join(parts, "\n")
}

// wrap breaks text on spaces so no line exceeds width cells. Styled spans
// are measured without their escape sequences. Words wider than width are
// left intact.
func wrap(text string, width int) string {
	if width < 10 || lipgloss.Width(text) <= width {
		return text
	}

	var sb strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		current, currentWidth := words[0], lipgloss.Width(words[0])
		for _, w := range words[1:] {
			ww := lipgloss.Width(w)
			if currentWidth+1+ww <= width {
				current += " " + w
				currentWidth += 1 + ww
				continue
			}
			sb.WriteString(current)
			sb.WriteString("\n")
			current, currentWidth = w, ww
		}
		sb.WriteString(current)
	}
	return sb.String()
}

func inlineTerminal(s string, st Styles) string {
	s = strongSpan.ReplaceAllStringFunc(s, func(m string) string {
		return st.Strong.Render(strongSpan.FindStringSubmatch(m)[1])
	})
	s = emSpan.ReplaceAllStringFunc(s, func(m string) string {
		return st.Em.Render(emSpan.FindStringSubmatch(m)[1])
	})
	return codeSpan.ReplaceAllStringFunc(s, func(m string) string {
		return st.Code.Render(codeSpan.FindStringSubmatch(m)[1])
	})
}
