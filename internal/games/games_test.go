// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package games

import (
	"context"
	"errors"
	"testing"

	"github.com/jeranaias/warlock-tui/internal/gateway"
	"github.com/jeranaias/warlock-tui/internal/model"
)

type stubLister struct {
	games []model.GameInfo
	err   error
}

func (s stubLister) ListGames(context.Context) ([]model.GameInfo, error) {
	return s.games, s.err
}

func TestNewProvider_Defaults(t *testing.T) {
	p := NewProvider("", nil)
	if p.SelectedID() != "nemesis" {
		t.Errorf("SelectedID = %q, want nemesis", p.SelectedID())
	}
	if got := p.Selected(); got.Name != "Nemesis" || !got.IsAvailable {
		t.Errorf("Selected = %+v", got)
	}
}

func TestRefresh_UsesServerCatalog(t *testing.T) {
	p := NewProvider("", nil)
	catalog := p.Refresh(context.Background(), stubLister{games: []model.GameInfo{
		model.GameFromID("nemesis"), model.GameFromID("root"),
	}})
	if len(catalog) != 2 {
		t.Fatalf("catalog len = %d, want 2", len(catalog))
	}
	if err := p.Select("root"); err != nil {
		t.Errorf("Select(root) = %v", err)
	}
}

func TestRefresh_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		lister stubLister
	}{
		{"error", stubLister{err: errors.New("offline")}},
		{"empty", stubLister{games: []model.GameInfo{}}},
		{"nothing available", stubLister{games: []model.GameInfo{{ID: "x", IsAvailable: false}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProvider("", nil)
			catalog := p.Refresh(context.Background(), tc.lister)
			if len(catalog) != 1 || catalog[0].ID != "nemesis" {
				t.Errorf("expected fallback catalog, got %+v", catalog)
			}
		})
	}
}

func TestRefresh_ResetsVanishedSelection(t *testing.T) {
	p := NewProvider("root", nil)
	p.Refresh(context.Background(), stubLister{games: []model.GameInfo{model.GameFromID("nemesis")}})
	if p.SelectedID() != "nemesis" {
		t.Errorf("SelectedID = %q, want nemesis", p.SelectedID())
	}
}

func TestSelect(t *testing.T) {
	p := NewProvider("", nil)
	p.Refresh(context.Background(), gateway.NewMockSender())

	if err := p.Select("chess"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Select(chess) = %v, want ErrUnknownGame", err)
	}
	if err := p.Select("gloomhaven"); !errors.Is(err, ErrUnavailableGame) {
		t.Errorf("Select(gloomhaven) = %v, want ErrUnavailableGame", err)
	}
	if p.SelectedID() != "nemesis" {
		t.Error("failed selection must not change the selected game")
	}
}

func TestNext_SkipsUnavailable(t *testing.T) {
	p := NewProvider("", nil)
	p.Refresh(context.Background(), stubLister{games: []model.GameInfo{
		model.GameFromID("nemesis"),
		{ID: "gloomhaven", IsAvailable: false},
		model.GameFromID("root"),
	}})
	if got := p.Next(); got.ID != "root" {
		t.Errorf("Next() = %q, want root", got.ID)
	}
	p.Select("root")
	if got := p.Next(); got.ID != "nemesis" {
		t.Errorf("Next() = %q, want nemesis (wrap)", got.ID)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Fallback); err != nil {
		t.Errorf("fallback should be valid: %v", err)
	}
	if err := Validate(nil); !errors.Is(err, ErrNoAvailableGames) {
		t.Errorf("Validate(nil) = %v", err)
	}
}
