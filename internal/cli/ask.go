// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single-question command for warlock CLI.
//
// Command: ask
// Short:   Ask one rules question and print the answer
// Aliases: a, or a bare question
//
// Examples:
//
//	warlock ask "How does noise work?"
//	warlock --game root ask "Can I move through a ruin?"
//	echo "What ends the game?" | warlock ask --json
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// HandleAsk asks args.Query (or stdin when piped) and prints the answer.
func (a *App) HandleAsk(ctx context.Context) error {
	question := strings.TrimSpace(a.Args.Query)
	if question == "" && !IsTTY() {
		data, err := io.ReadAll(io.LimitReader(a.In, 64<<10))
		if err != nil {
			return fmt.Errorf("read question: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return errors.New(`no question given; usage: warlock ask "question"`)
	}

	if !a.Chat.Send(ctx, question) {
		return errors.New("question was not sent")
	}
	answer := a.Chat.LastAnswer()
	if answer == nil {
		return ErrAnswerFailed
	}

	if a.Args.JSON {
		resp := NewJSONResponse(CmdAsk.String(), AskData{
			Game:       a.Chat.GameID(),
			Question:   question,
			Answer:     answer.Content,
			Error:      answer.Error,
			References: answer.References,
			MessageID:  answer.ID,
		})
		if answer.IsError() {
			resp.Success = false
			msg := answer.Content
			resp.Error = &msg
		}
		if err := resp.Print(a.Out); err != nil {
			return err
		}
		if answer.IsError() {
			return ErrAnswerFailed
		}
		return nil
	}

	if answer.IsError() {
		fmt.Fprintln(a.Err, a.formatMessage(answer))
		return ErrAnswerFailed
	}
	fmt.Fprintln(a.Out, a.formatMessage(answer))
	return nil
}
