// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// This package defines the core domain types used throughout the application
// for representing conversations with the rules assistant, the games it can
// answer questions about, and the error kinds a failed exchange can carry.
//
// # Key Types
//
//   - ChatMessage: Single message with role, content, timestamp, references and feedback
//   - ChatSession: One continuous conversation scoped to a single game
//   - GameInfo: Entry of the game catalog
//   - ErrorKind: Closed set of failure tags attached to error messages
//   - Role: Message role enumeration (user, assistant, system)
//
// # Usage
//
// Create messages through the factory functions:
//
//	msg, ok := model.NewUserMessage("  How does movement work?  ")
//	if !ok {
//	    // empty input, reject before sending
//	}
//	placeholder := model.NewLoadingMessage()
//	answer := model.NewAssistantMessage("Move 2 rooms.", nil, nil)
//
// Start a session for a game:
//
//	sess := model.NewSession(model.GameInfo{ID: "nemesis", Name: "Nemesis"})
package model
