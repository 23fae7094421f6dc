// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Stored history management for warlock CLI.
//
// Command: history
// Aliases: h
//
// Subcommands:
//
//	list                 Games with stored history (default)
//	show GAME            Print a game's history
//	export GAME          Write the history to a file
//	clear GAME           Erase a game's history
//
// Flags (export):
//
//	-f, --format FMT     md, html or json (default md)
//	-o, --output DIR     Output directory (default .)
//	--open               Open the file afterwards
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/warlock-tui/internal/export"
	"github.com/jeranaias/warlock-tui/internal/model"
	"github.com/jeranaias/warlock-tui/internal/util"
)

// HandleHistory dispatches the history subcommands.
func (a *App) HandleHistory(_ context.Context) error {
	game := a.Args.Target
	if game == "" {
		game = a.Chat.GameID()
	}

	switch a.Args.Subcommand {
	case "", "list", "ls":
		return a.historyList()
	case "show":
		return a.historyShow(game)
	case "export":
		format := a.Args.Options["format"]
		dir := a.Args.Options["output"]
		if dir == "" {
			dir = "."
		}
		path, err := a.exportGame(game, format, dir, a.Args.Options["open"] == "true")
		if err != nil {
			return err
		}
		if a.Args.JSON {
			return NewJSONResponse(CmdHistory.String(), map[string]string{"game": game, "path": path}).Print(a.Out)
		}
		fmt.Fprintln(a.Out, path)
		return nil
	case "clear":
		a.Store.ClearHistory(game)
		if a.Args.JSON {
			return NewJSONResponse(CmdHistory.String(), map[string]string{"game": game, "cleared": "true"}).Print(a.Out)
		}
		fmt.Fprintf(a.Out, "Cleared history for %s\n", game)
		return nil
	default:
		return fmt.Errorf("unknown history subcommand %q (list, show, export, clear)", a.Args.Subcommand)
	}
}

func (a *App) historyList() error {
	ids, err := a.Store.Games()
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(ids))
	for _, id := range ids {
		msgs := a.Store.GetHistory(id)
		e := HistoryEntry{Game: id, Messages: len(msgs)}
		if n := len(msgs); n > 0 {
			e.Last = msgs[n-1].Timestamp
			e.Preview = msgs[n-1].Preview(60)
		}
		entries = append(entries, e)
	}

	if a.Args.JSON {
		return NewJSONResponse(CmdHistory.String(), entries).Print(a.Out)
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.Out, "No stored history.")
		return nil
	}
	previewWidth := max(GetTerminalWidth()-50, 20)
	for _, e := range entries {
		fmt.Fprintf(a.Out, "%s %3d messages  %s  %s\n",
			commandStyle.Render(util.PadRight(e.Game, 16)), e.Messages,
			infoStyle.Render(e.Last.Format("2006-01-02 15:04")), util.TruncateWidth(e.Preview, previewWidth))
	}
	return nil
}

func (a *App) historyShow(game string) error {
	msgs := a.Store.GetHistory(game)
	if a.Args.JSON {
		return NewJSONResponse(CmdHistory.String(), msgs).Print(a.Out)
	}
	if len(msgs) == 0 {
		fmt.Fprintf(a.Out, "No stored history for %s.\n", game)
		return nil
	}

	info := a.gameInfo(game)
	md, err := export.NewMarkdownExporter(&export.Options{IncludeTimestamps: true}).
		Export(export.NewTranscript(info, msgs))
	if err != nil {
		return err
	}
	fmt.Fprint(a.Out, renderMarkdown(string(md), GetTerminalWidth()))
	return nil
}

// exportGame writes game's history in format to dir and returns the path.
func (a *App) exportGame(game, format, dir string, open bool) (string, error) {
	msgs := a.Store.GetHistory(game)
	if len(msgs) == 0 {
		return "", fmt.Errorf("no stored history for %s", game)
	}

	opts := export.DefaultOptions()
	opts.OutputDir = dir
	opts.OpenAfterExport = open
	if a.Config.UI.Theme == "light" {
		opts.Theme = "light"
	}

	exp, err := export.ForFormat(format, opts)
	if err != nil {
		return "", err
	}
	path, err := export.ExportToFile(export.NewTranscript(a.gameInfo(game), msgs), exp, opts)
	if errors.Is(err, export.ErrEmpty) {
		return "", fmt.Errorf("no stored history for %s", game)
	}
	return path, err
}

func (a *App) gameInfo(id string) model.GameInfo {
	if g, ok := a.Games.Lookup(id); ok {
		return g
	}
	return model.GameFromID(id)
}
