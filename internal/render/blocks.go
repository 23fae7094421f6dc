// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns assistant answers into displayable structure.
package render

import (
	"regexp"
	"strings"
)

// =============================================================================
// BLOCK TYPES
// =============================================================================

// Kind identifies a top-level block.
type Kind int

const (
	// Paragraph is a standalone non-blank line.
	Paragraph Kind = iota
	// BulletGroup starts with a "• " line.
	BulletGroup
	// DashGroup starts with a "- " line.
	DashGroup
	// NumberedGroup starts with a "1. " line.
	NumberedGroup
)

// String returns the block kind name.
func (k Kind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case BulletGroup:
		return "bullet-group"
	case DashGroup:
		return "dash-group"
	case NumberedGroup:
		return "numbered-group"
	default:
		return "unknown"
	}
}

// ItemKind identifies the marker of a sub-item.
type ItemKind int

const (
	SubDash ItemKind = iota
	SubBullet
	SubNumbered
)

// Item is a continuation line absorbed into a group.
type Item struct {
	Kind   ItemKind
	Marker string // "1." for SubNumbered, empty otherwise
	Text   string
}

// Block is one top-level unit of an answer. Text is the head line with
// its marker stripped, except for NumberedGroup which keeps the number.
type Block struct {
	Kind  Kind
	Text  string
	Items []Item
}

// =============================================================================
// PARSER
// =============================================================================

var (
	numberedLine   = regexp.MustCompile(`^\d+\.\s`)
	numberedMarker = regexp.MustCompile(`^\d+\.`)
	numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)
)

// Parse splits text into blocks in a single forward pass. Each group
// absorbs the continuation lines that directly follow it; the first line
// that does not continue the group starts the next block. Blank lines are
// skipped.
func Parse(text string) []Block {
	lines := strings.Split(text, "\n")
	var blocks []Block

	for i := 0; i < len(lines); {
		line := strings.TrimSpace(lines[i])
		i++

		var b Block
		var absorb func(string) (Item, bool)
		switch {
		case strings.HasPrefix(line, "• "):
			b = Block{Kind: BulletGroup, Text: strings.TrimPrefix(line, "• ")}
			absorb = bulletContinuation
		case strings.HasPrefix(line, "- "):
			b = Block{Kind: DashGroup, Text: strings.TrimPrefix(line, "- ")}
			absorb = dashContinuation
		case numberedLine.MatchString(line):
			b = Block{Kind: NumberedGroup, Text: line}
			absorb = numberedContinuation
		case line != "":
			blocks = append(blocks, Block{Kind: Paragraph, Text: line})
			continue
		default:
			continue
		}

		for i < len(lines) {
			item, ok := absorb(lines[i])
			if !ok {
				break
			}
			b.Items = append(b.Items, item)
			i++
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// bulletContinuation accepts dashes (indented or not), indented bullets and
// numbered lines.
func bulletContinuation(raw string) (Item, bool) {
	line := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(line, "- "):
		return Item{Kind: SubDash, Text: strings.TrimPrefix(line, "- ")}, true
	case isIndentedBullet(raw):
		return Item{Kind: SubBullet, Text: strings.TrimPrefix(line, "• ")}, true
	case numberedLine.MatchString(line):
		return Item{
			Kind:   SubNumbered,
			Marker: numberedMarker.FindString(line),
			Text:   numberedPrefix.ReplaceAllString(line, ""),
		}, true
	}
	return Item{}, false
}

// dashContinuation accepts indented dashes and indented bullets.
func dashContinuation(raw string) (Item, bool) {
	line := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(line, "- ") && isIndented(raw):
		return Item{Kind: SubDash, Text: strings.TrimPrefix(line, "- ")}, true
	case isIndentedBullet(raw):
		return Item{Kind: SubBullet, Text: strings.TrimPrefix(line, "• ")}, true
	}
	return Item{}, false
}

// numberedContinuation accepts dashes indented by three spaces or a tab,
// and indented bullets.
func numberedContinuation(raw string) (Item, bool) {
	line := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "   - ") || strings.HasPrefix(raw, "\t- "):
		return Item{Kind: SubDash, Text: strings.TrimPrefix(line, "- ")}, true
	case isIndentedBullet(raw):
		return Item{Kind: SubBullet, Text: strings.TrimPrefix(line, "• ")}, true
	}
	return Item{}, false
}

func isIndented(raw string) bool {
	return strings.HasPrefix(raw, "  ") || strings.HasPrefix(raw, "\t")
}

func isIndentedBullet(raw string) bool {
	return strings.HasPrefix(raw, "  • ") || strings.HasPrefix(raw, "\t• ")
}
