// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the warlock command line: argument parsing, the
// wiring of the chat components, and the ask, chat, history, games and
// config commands.
//
// # Key Types
//
//   - Command, Args: the parsed command line
//   - App: the wired components every command runs against
//   - Services: remote collaborators, replaceable in tests
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	app, err := cli.Build(ctx, cfg, args, logger)
//	defer app.Close()
//	err = app.HandleAsk(ctx)
package cli
