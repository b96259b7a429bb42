// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/arena-tui/internal/arena"
	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/provider"
)

// fakeStore is an in-memory battle and rating store for view tests.
type fakeStore struct {
	battles map[string]*model.ArenaBattle
	ratings map[string]*model.ModelRating
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		battles: make(map[string]*model.ArenaBattle),
		ratings: make(map[string]*model.ModelRating),
	}
}

func (s *fakeStore) InsertBattle(b *model.ArenaBattle) error { s.battles[b.ID] = b; return nil }
func (s *fakeStore) GetBattle(id string) (*model.ArenaBattle, error) {
	return s.battles[id], nil
}
func (s *fakeStore) UpdateBattle(b *model.ArenaBattle) error { s.battles[b.ID] = b; return nil }
func (s *fakeStore) GetOrCreateRating(name string) (*model.ModelRating, error) {
	if r, ok := s.ratings[name]; ok {
		return r, nil
	}
	r := model.NewModelRating(name)
	s.ratings[name] = r
	return r, nil
}
func (s *fakeStore) UpdateRating(r *model.ModelRating) error { s.ratings[r.ModelName] = r; return nil }

func testModel(t *testing.T) (Model, *fakeStore, string) {
	t.Helper()
	store := newFakeStore()
	engine := arena.NewRatingEngine(store, store)

	battle := model.NewArenaBattle("prompt",
		model.BattleSide{ModelName: "alpha", ProviderID: "local"},
		model.BattleSide{ModelName: "beta", ProviderID: "cloud"})
	store.battles[battle.ID] = battle

	req := arena.BattleRequest{
		Prompt: "prompt",
		Left:   model.BattleSide{ModelName: "alpha", ProviderID: "local"},
		Right:  model.BattleSide{ModelName: "beta", ProviderID: "cloud"},
	}

	m := newModel(engine, req, make(chan arena.Snapshot), Options{ShowThinking: true})
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model), store, battle.ID
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSnapshotUpdatesSides(t *testing.T) {
	m, _, id := testModel(t)

	updated, cmd := m.Update(snapshotMsg{
		BattleID: id,
		Left:     provider.StreamingState{Phase: provider.PhaseStreaming, Content: "partial"},
		Right:    provider.StreamingState{Phase: provider.PhaseStarting},
	})
	m = updated.(Model)

	if m.left.Content != "partial" {
		t.Errorf("left content = %q, want partial", m.left.Content)
	}
	if m.right.Phase != provider.PhaseStarting {
		t.Errorf("right phase = %q", m.right.Phase)
	}
	if m.done {
		t.Error("done set before final snapshot")
	}
	if cmd == nil {
		t.Error("no follow-up snapshot command")
	}
}

func TestVoteKeysIgnoredWhileStreaming(t *testing.T) {
	m, store, _ := testModel(t)

	updated, _ := m.Update(keyMsg("1"))
	m = updated.(Model)

	if m.voteResult != nil {
		t.Error("vote applied before the battle finished")
	}
	if len(store.ratings) != 0 {
		t.Error("ratings touched before the battle finished")
	}
}

func TestVoteKeyAfterDone(t *testing.T) {
	m, store, id := testModel(t)

	updated, _ := m.Update(snapshotMsg{
		BattleID: id,
		Left:     provider.StreamingState{Phase: provider.PhaseCompleted, Content: "a"},
		Right:    provider.StreamingState{Phase: provider.PhaseCompleted, Content: "b"},
		Done:     true,
	})
	m = updated.(Model)
	if !m.done {
		t.Fatal("done not set by final snapshot")
	}

	updated, _ = m.Update(keyMsg("1"))
	m = updated.(Model)

	if m.voteResult == nil {
		t.Fatal("vote key did not apply a vote")
	}
	if store.battles[id].Winner != "LEFT" {
		t.Errorf("winner = %q, want LEFT", store.battles[id].Winner)
	}
	if got := store.ratings["alpha"].Wins; got != 1 {
		t.Errorf("alpha wins = %d, want 1", got)
	}
}

func TestSecondVoteKeyDoesNothing(t *testing.T) {
	m, store, id := testModel(t)

	updated, _ := m.Update(snapshotMsg{BattleID: id, Done: true,
		Left:  provider.StreamingState{Phase: provider.PhaseCompleted},
		Right: provider.StreamingState{Phase: provider.PhaseCompleted},
	})
	m = updated.(Model)

	updated, _ = m.Update(keyMsg("t"))
	m = updated.(Model)
	first := store.ratings["alpha"].EloRating

	updated, _ = m.Update(keyMsg("2"))
	m = updated.(Model)

	if store.ratings["alpha"].EloRating != first {
		t.Error("second vote key changed ratings")
	}
	if store.battles[id].Winner != "TIE" {
		t.Errorf("winner = %q, want TIE", store.battles[id].Winner)
	}
}

func TestQuitKey(t *testing.T) {
	m, _, _ := testModel(t)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestViewRendersMatchup(t *testing.T) {
	m, _, _ := testModel(t)

	view := m.View()
	if view == "" {
		t.Fatal("empty view")
	}
	for _, want := range []string{"alpha", "beta"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
