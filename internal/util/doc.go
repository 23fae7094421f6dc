// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across warlock packages.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width truncation for terminal columns
//   - StringWidth: display width of a string (CJK and emoji aware)
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Preview a long answer in a list
//	line := util.TruncateRunes(answer, 60)
//
//	// Persist history without risking a half-written file
//	err := util.AtomicWriteFile(path, data, 0600)
package util
