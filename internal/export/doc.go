// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a game's chat history to shareable files.
//
// Three formats are supported: Markdown with YAML frontmatter, a
// self-contained HTML page whose answers use the same structured-text
// markup as the chat view, and JSON in the persisted record shape.
//
// # Key Types
//
//   - Transcript: the messages of one game plus export metadata
//   - Exporter: the format interface
//   - Options: output directory, metadata and theme switches
//
// # Usage
//
//	msgs, _ := store.GetHistory(ctx, "nemesis")
//	t := export.NewTranscript(model.GameFromID("nemesis"), msgs)
//	exp, _ := export.ForFormat("html", export.DefaultOptions())
//	path, err := export.ExportToFile(t, exp, export.DefaultOptions())
package export
