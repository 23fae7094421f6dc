// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package games holds the catalog of supported games and the current
// selection.
package games

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/warlock-tui/internal/gateway"
	"github.com/jeranaias/warlock-tui/internal/model"
)

// DefaultGameID is selected when nothing else is configured.
const DefaultGameID = "nemesis"

// Fallback is served whenever the catalog cannot be fetched.
var Fallback = []model.GameInfo{
	{
		ID:          "nemesis",
		Name:        "Nemesis",
		Description: "A semi-cooperative survival horror board game",
		IsAvailable: true,
	},
}

var (
	// ErrUnknownGame is returned when selecting an id not in the catalog.
	ErrUnknownGame = errors.New("unknown game")

	// ErrUnavailableGame is returned when selecting a game marked unavailable.
	ErrUnavailableGame = errors.New("game is not available yet")

	// ErrNoAvailableGames is returned by Validate for an unusable catalog.
	ErrNoAvailableGames = errors.New("catalog has no available games")
)

// =============================================================================
// PROVIDER
// =============================================================================

// Provider owns the catalog and the selected game. It is safe for
// concurrent use.
type Provider struct {
	mu       sync.RWMutex
	catalog  []model.GameInfo
	selected string
	log      *zap.Logger
}

// NewProvider creates a provider over the fallback catalog with defaultID
// selected (DefaultGameID when empty or unknown).
func NewProvider(defaultID string, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Provider{
		catalog:  cloneCatalog(Fallback),
		selected: DefaultGameID,
		log:      logger.Named("games"),
	}
	if defaultID != "" {
		p.selected = defaultID
	}
	return p
}

// Refresh replaces the catalog with the one served by lister. On failure,
// or when the response has no available game, the fallback is used and a
// warning logged. The selection is kept if it survives the refresh.
func (p *Provider) Refresh(ctx context.Context, lister gateway.GameLister) []model.GameInfo {
	catalog, err := lister.ListGames(ctx)
	if err == nil {
		err = Validate(catalog)
	}
	if err != nil {
		p.log.Warn("failed to fetch games, using fallback", zap.Error(err))
		catalog = Fallback
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.catalog = cloneCatalog(catalog)
	if _, ok := p.find(p.selected); !ok {
		p.selected = p.catalog[0].ID
	}
	return cloneCatalog(p.catalog)
}

// Catalog returns a copy of the known games.
func (p *Provider) Catalog() []model.GameInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneCatalog(p.catalog)
}

// SelectedID returns the id of the selected game.
func (p *Provider) SelectedID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

// Selected returns the selected game. An id missing from the catalog (for
// example one configured before the catalog loaded) is described from the
// id alone.
func (p *Provider) Selected() model.GameInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if g, ok := p.find(p.selected); ok {
		return g
	}
	return model.GameFromID(p.selected)
}

// Lookup returns the catalog entry for id.
func (p *Provider) Lookup(id string) (model.GameInfo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.find(id)
}

// Select makes id the selected game.
func (p *Provider) Select(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.find(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	if !g.IsAvailable {
		return fmt.Errorf("%w: %q", ErrUnavailableGame, id)
	}
	p.selected = id
	return nil
}

// Next returns the available game following the selection, wrapping
// around. Used to cycle games from the keyboard.
func (p *Provider) Next() model.GameInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	start := 0
	for i, g := range p.catalog {
		if g.ID == p.selected {
			start = i
			break
		}
	}
	for i := 1; i <= len(p.catalog); i++ {
		g := p.catalog[(start+i)%len(p.catalog)]
		if g.IsAvailable {
			return g
		}
	}
	return p.catalog[start]
}

// find must be called with p.mu held.
func (p *Provider) find(id string) (model.GameInfo, bool) {
	for _, g := range p.catalog {
		if g.ID == id {
			return g, true
		}
	}
	return model.GameInfo{}, false
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks that catalog has at least one available game.
func Validate(catalog []model.GameInfo) error {
	for _, g := range catalog {
		if g.IsAvailable && g.ID != "" {
			return nil
		}
	}
	return ErrNoAvailableGames
}

func cloneCatalog(c []model.GameInfo) []model.GameInfo {
	return append([]model.GameInfo(nil), c...)
}
