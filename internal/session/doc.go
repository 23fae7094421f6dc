// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session keeps the live chat sessions of a warlock process.
//
// Sessions are ephemeral: they live only as long as the process and are
// indexed by session id. Each game has at most one current session;
// replacing it deletes the previous one explicitly, so a late answer for an
// abandoned session finds nothing to attach to.
//
// # Key Types
//
//   - Registry: id-indexed session store with a current session per game
//
// # Usage
//
//	reg := session.NewRegistry()
//	s := reg.Start(model.GameFromID("nemesis"), historyMessages)
//	same := reg.Current("nemesis")
package session
