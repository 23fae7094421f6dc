// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns assistant answers into displayable structure.
package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	strongSpan = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emSpan     = regexp.MustCompile(`\*(.*?)\*`)
	codeSpan   = regexp.MustCompile("`(.*?)`")
)

// HTML renders text as markup using the chat stylesheet classes. Text is
// HTML-escaped before markup is added. Inline spans are substituted in one
// global pass over the assembled markup: bold, then italic, then code.
func HTML(text string) string {
	var sb strings.Builder
	for _, b := range Parse(text) {
		writeBlock(&sb, b)
	}
	return inlineHTML(sb.String())
}

func writeBlock(sb *strings.Builder, b Block) {
	switch b.Kind {
	case Paragraph:
		sb.WriteString(`<p class="paragraph">` + html.EscapeString(b.Text) + `</p>`)
		return
	case BulletGroup:
		sb.WriteString(`<div class="bullet-group"><div class="bullet-item"><span class="bullet-point">•</span><span>` +
			html.EscapeString(b.Text) + `</span></div>`)
	case DashGroup:
		sb.WriteString(`<div class="bullet-group"><div class="bullet-item"><span class="main-bullet">•</span><span>` +
			html.EscapeString(b.Text) + `</span></div>`)
	case NumberedGroup:
		sb.WriteString(`<div class="numbered-group"><div class="numbered-item">` + html.EscapeString(b.Text) + `</div>`)
	}

	class := itemClass(b.Kind)
	for _, it := range b.Items {
		sb.WriteString(`<div class="` + class + `">` + itemMarker(it) + `<span>` + html.EscapeString(it.Text) + `</span></div>`)
	}
	sb.WriteString(`</div>`)
}

func itemClass(k Kind) string {
	switch k {
	case DashGroup:
		return "nested-sub-item"
	case NumberedGroup:
		return "numbered-sub-item"
	default:
		return "sub-item"
	}
}

func itemMarker(it Item) string {
	switch it.Kind {
	case SubBullet:
		return `<span class="bullet-point">•</span>`
	case SubNumbered:
		return `<span class="numbered-marker">` + it.Marker + `</span>`
	default:
		return `<span class="sub-bullet">-</span>`
	}
}

func inlineHTML(s string) string {
	s = strongSpan.ReplaceAllString(s, "<strong>$1</strong>")
	s = emSpan.ReplaceAllString(s, "<em>$1</em>")
	return codeSpan.ReplaceAllString(s, `<code class="inline-code">$1</code>`)
}
