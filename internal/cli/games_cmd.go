// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// games_cmd.go - Game catalog listing for warlock CLI.
package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/warlock-tui/internal/util"
)

// HandleGames lists the supported games.
func (a *App) HandleGames(_ context.Context) error {
	if a.Args.JSON {
		return NewJSONResponse(CmdGames.String(), a.gameEntries()).Print(a.Out)
	}
	a.printGames()
	return nil
}

func (a *App) gameEntries() []GameEntry {
	selected := a.Games.SelectedID()
	catalog := a.Games.Catalog()
	entries := make([]GameEntry, 0, len(catalog))
	for _, g := range catalog {
		entries = append(entries, GameEntry{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Available:   g.IsAvailable,
			Selected:    g.ID == selected,
		})
	}
	return entries
}

func (a *App) printGames() {
	for _, g := range a.gameEntries() {
		marker := "  "
		if g.Selected {
			marker = promptStyle.Render("* ")
		}
		line := marker + commandStyle.Render(util.PadRight(g.ID, 14)) + " " + g.Name
		if !g.Available {
			line += infoStyle.Render(" (coming soon)")
		}
		fmt.Fprintln(a.Out, line)
	}
}
