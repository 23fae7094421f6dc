// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"testing"

	"github.com/jeranaias/warlock-tui/internal/model"
)

var nemesis = model.GameInfo{ID: "nemesis", Name: "Nemesis", IsAvailable: true}

func TestRegistry_StartWithoutHistory(t *testing.T) {
	r := NewRegistry()
	s := r.Start(nemesis, nil)

	if len(s.Messages) != 1 || s.Messages[0].Role != model.RoleAssistant {
		t.Fatalf("expected welcome message only, got %d messages", len(s.Messages))
	}
	if r.Current("nemesis") != s {
		t.Error("started session should be current")
	}
}

func TestRegistry_StartWithHistory(t *testing.T) {
	r := NewRegistry()
	u, _ := model.NewUserMessage("q")
	a := model.NewAssistantMessage("a", nil, nil)

	s := r.Start(nemesis, []*model.ChatMessage{u, a})
	if len(s.Messages) != 2 || s.Messages[0].ID != u.ID {
		t.Errorf("session should contain exactly the history, got %d", len(s.Messages))
	}
}

func TestRegistry_ReplaceDeletesPrevious(t *testing.T) {
	r := NewRegistry()
	first := r.Start(nemesis, nil)
	second := r.Start(nemesis, nil)

	if first.ID == second.ID {
		t.Fatal("new session must get a new id")
	}
	if r.Get(first.ID) != nil {
		t.Error("replaced session should be deleted")
	}
	if r.Current("nemesis") != second || r.Len() != 1 {
		t.Error("second session should be the only one")
	}
}

func TestRegistry_PerGame(t *testing.T) {
	r := NewRegistry()
	n := r.Start(nemesis, nil)
	root := r.Start(model.GameFromID("root"), nil)

	if r.Current("nemesis") != n || r.Current("root") != root {
		t.Error("each game keeps its own current session")
	}
	if got := r.Games(); len(got) != 2 || got[0] != "nemesis" || got[1] != "root" {
		t.Errorf("Games() = %v", got)
	}
	if r.Current("unknown") != nil {
		t.Error("unknown game should have no session")
	}
}

func TestRegistry_Delete(t *testing.T) {
	r := NewRegistry()
	s := r.Start(nemesis, nil)
	if !r.Delete(s.ID) {
		t.Fatal("Delete should report true")
	}
	if r.Current("nemesis") != nil {
		t.Error("deleted current session should not be current")
	}
	if r.Delete(s.ID) {
		t.Error("second Delete should report false")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := r.Start(nemesis, nil)
			_ = r.Get(s.ID)
			_ = r.Current("nemesis")
		}()
	}
	wg.Wait()
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}
