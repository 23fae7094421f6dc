// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParse_PlainLine(t *testing.T) {
	got := Parse("   Roll two dice.  ")
	want := []Block{{Kind: Paragraph, Text: "Roll two dice."}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParse_BulletGroupThenParagraph(t *testing.T) {
	got := Parse("• item1\n- subitem\nplain")
	want := []Block{
		{Kind: BulletGroup, Text: "item1", Items: []Item{{Kind: SubDash, Text: "subitem"}}},
		{Kind: Paragraph, Text: "plain"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParse_Groups(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Block
	}{
		{
			name:  "bullet absorbs indented bullet and numbered",
			input: "• Setup\n  • Shuffle\n2. Deal cards",
			want: []Block{{Kind: BulletGroup, Text: "Setup", Items: []Item{
				{Kind: SubBullet, Text: "Shuffle"},
				{Kind: SubNumbered, Marker: "2.", Text: "Deal cards"},
			}}},
		},
		{
			name:  "dash group needs indentation",
			input: "- Attack\n  - Roll\n\t• Hit\n- Flee",
			want: []Block{
				{Kind: DashGroup, Text: "Attack", Items: []Item{
					{Kind: SubDash, Text: "Roll"},
					{Kind: SubBullet, Text: "Hit"},
				}},
				{Kind: DashGroup, Text: "Flee"},
			},
		},
		{
			name:  "numbered group keeps number",
			input: "1. Move\n   - one room\n  • noise roll\n  - not absorbed",
			want: []Block{
				{Kind: NumberedGroup, Text: "1. Move", Items: []Item{
					{Kind: SubDash, Text: "one room"},
					{Kind: SubBullet, Text: "noise roll"},
				}},
				{Kind: DashGroup, Text: "not absorbed"},
			},
		},
		{
			name:  "blank lines skipped and end groups",
			input: "\n\nfirst\n\n• a\n\n- b\n",
			want: []Block{
				{Kind: Paragraph, Text: "first"},
				{Kind: BulletGroup, Text: "a"},
				{Kind: DashGroup, Text: "b"},
			},
		},
		{
			name:  "number without space is a paragraph",
			input: "1.5 actions",
			want:  []Block{{Kind: Paragraph, Text: "1.5 actions"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Parse(tc.input); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Parse(%q) =\n%+v\nwant\n%+v", tc.input, got, tc.want)
			}
		})
	}
}

// =============================================================================
// HTML TESTS
// =============================================================================

func TestHTML_PlainText(t *testing.T) {
	if got := HTML("  Hello there  "); got != `<p class="paragraph">Hello there</p>` {
		t.Errorf("HTML = %q", got)
	}
}

func TestHTML_BulletGroup(t *testing.T) {
	got := HTML("• item1\n- subitem\nplain")
	want := `<div class="bullet-group">` +
		`<div class="bullet-item"><span class="bullet-point">•</span><span>item1</span></div>` +
		`<div class="sub-item"><span class="sub-bullet">-</span><span>subitem</span></div>` +
		`</div>` +
		`<p class="paragraph">plain</p>`
	if got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
	if strings.Count(got, `class="bullet-group"`) != 1 || strings.Count(got, `class="sub-item"`) != 1 {
		t.Error("expected one group with one sub-item")
	}
}

func TestHTML_ItemClasses(t *testing.T) {
	got := HTML("- a\n  - b\n1. c\n\t- d\n• e\n3. f")
	for _, want := range []string{
		`<span class="main-bullet">•</span><span>a</span>`,
		`<div class="nested-sub-item"><span class="sub-bullet">-</span><span>b</span></div>`,
		`<div class="numbered-group"><div class="numbered-item">1. c</div>`,
		`<div class="numbered-sub-item"><span class="sub-bullet">-</span><span>d</span></div>`,
		`<div class="sub-item"><span class="numbered-marker">3.</span><span>f</span></div>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %s\ngot %s", want, got)
		}
	}
}

func TestHTML_Inline(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"**Move** first", `<p class="paragraph"><strong>Move</strong> first</p>`},
		{"an *optional* step", `<p class="paragraph">an <em>optional</em> step</p>`},
		{"type `/retry`", `<p class="paragraph">type <code class="inline-code">/retry</code></p>`},
		{"**a** and **b**", `<p class="paragraph"><strong>a</strong> and <strong>b</strong></p>`},
		{"lone * star", `<p class="paragraph">lone * star</p>`},
		// observed behaviour: bold pass runs first, italic applies inside it
		{"**bold *italic* text**", `<p class="paragraph"><strong>bold <em>italic</em> text</strong></p>`},
	}
	for _, tc := range tests {
		if got := HTML(tc.input); got != tc.want {
			t.Errorf("HTML(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestHTML_SpansCrossBlocks(t *testing.T) {
	// the inline pass runs over the assembled markup, not per block
	got := HTML("a *b\nc* d")
	if !strings.Contains(got, "<em>") {
		t.Errorf("expected italic span across blocks, got %q", got)
	}
}

func TestHTML_Escapes(t *testing.T) {
	got := HTML(`<script>alert("x")</script> & more`)
	if strings.Contains(got, "<script>") {
		t.Errorf("markup in answers must be escaped: %q", got)
	}
	if !strings.Contains(got, "&amp; more") {
		t.Errorf("expected escaped ampersand: %q", got)
	}
}

func TestHTML_Deterministic(t *testing.T) {
	in := "• a\n  • b\n1. c\n**d** `e`"
	first := HTML(in)
	for i := 0; i < 10; i++ {
		if HTML(in) != first {
			t.Fatal("HTML must be deterministic")
		}
	}
}

// =============================================================================
// TERMINAL TESTS
// =============================================================================

func TestTerminal_PlainLayout(t *testing.T) {
	got := TerminalWithStyles("• item1\n- subitem\nplain\n1. step\n   - detail", 80, PlainStyles())
	want := "• item1\n  - subitem\nplain\n1. step\n   - detail"
	if got != want {
		t.Errorf("Terminal =\n%q\nwant\n%q", got, want)
	}
}

func TestTerminal_StripsInlineMarkers(t *testing.T) {
	got := TerminalWithStyles("**bold** *it* `code`", 80, PlainStyles())
	if got != "bold it code" {
		t.Errorf("Terminal = %q", got)
	}
}

func TestTerminal_Wraps(t *testing.T) {
	text := "• " + strings.Repeat("rulebook ", 12)
	got := TerminalWithStyles(text, 30, PlainStyles())
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %q", got)
	}
	for _, l := range lines {
		if lipgloss.Width(l) > 30 {
			t.Errorf("line too wide (%d): %q", lipgloss.Width(l), l)
		}
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("continuation line should hang under the text: %q", l)
		}
	}
}

func TestTerminal_DefaultStyles(t *testing.T) {
	got := Terminal("• **a**", 40)
	if !strings.Contains(got, "a") || strings.Contains(got, "**") {
		t.Errorf("Terminal = %q", got)
	}
}
