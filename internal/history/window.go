// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists per-game chat history for warlock.
package history

// ApplySlidingWindow bounds messages to max entries by dropping the oldest
// ones. The number dropped is rounded up to an even count so that user and
// assistant messages stay paired; the result therefore has max or max-1
// entries whenever trimming happens. The input slice is not modified.
//
// A max of zero or less disables the window.
func ApplySlidingWindow[T any](messages []T, max int) []T {
	if max <= 0 || len(messages) <= max {
		return messages
	}
	excess := len(messages) - max
	if excess%2 != 0 {
		excess++
	}
	out := make([]T, len(messages)-excess)
	copy(out, messages[excess:])
	return out
}
