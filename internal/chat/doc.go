// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation state machine behind every
// warlock front end.
//
// A Controller owns the live sessions, the history store and the gateway.
// It accepts a question, shows a loading placeholder while the answer is
// in flight, and replaces the placeholder with the answer or an error
// message when the gateway settles. At most one request is in flight at a
// time; Send and Retry are ignored while one is outstanding, whereas Clear,
// CopyMessage and SwitchGame stay available. A late answer whose
// placeholder was cleared away is dropped.
//
// Actions never return errors: failures become assistant messages plus the
// HasError/LastError state.
//
// # Key Types
//
//   - Controller: the state machine
//   - Pending: handle for an asynchronous send
//   - Clipboard: where CopyMessage writes to
//
// # Usage
//
//	ctrl := chat.New(chat.Deps{
//	    Registry: session.NewRegistry(),
//	    Store:    store,
//	    Sender:   client,
//	    Games:    provider,
//	    Logger:   logger,
//	})
//	ctrl.Initialize("nemesis")
//	ctrl.Send(ctx, "How does movement work?")
//	for _, m := range ctrl.Messages() {
//	    fmt.Println(m.Role, m.Content)
//	}
package chat
