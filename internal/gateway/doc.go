// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the Board Game Warlock API.
//
// The client speaks three endpoints: POST /chat for rules questions,
// GET /games for the game catalog, and POST /feedback on the separate
// feedback service. Failures the server (or the network) reports are
// returned as structured *model.APIError values inside a Result; a Go error
// from SendMessage means the exchange could not be carried out at all.
//
// # Key Types
//
//   - Client: HTTP client with API key header and request throttling
//   - Sender: the SendMessage contract the chat controller depends on
//   - MockSender: offline keyword-matching stand-in for demos and tests
//   - Result: answer, references and timestamp, or a structured error
//
// # Usage
//
//	client := gateway.NewClientWithConfig(&gateway.ClientConfig{
//	    BaseURL: "https://api.boardgamewarlock.com/api/v1",
//	    APIKey:  key,
//	}, logger)
//
//	res, err := client.SendMessage(ctx, "How does movement work?", sessionID, "nemesis")
//	if err != nil {
//	    // transport failure
//	}
//	if res.Err != nil {
//	    fmt.Println(model.DisplayText(res.Err))
//	}
package gateway
