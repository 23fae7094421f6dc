// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// GameInfo describes a game the assistant can answer questions about.
type GameInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsAvailable bool   `json:"isAvailable"`
}

// GameFromID builds catalog metadata for a bare game identifier as returned
// by the games endpoint ("nemesis" -> "Nemesis").
func GameFromID(id string) GameInfo {
	id = strings.TrimSpace(id)
	return GameInfo{
		ID:          id,
		Name:        capitalize(id),
		Description: "Rules assistant for " + id,
		IsAvailable: true,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
