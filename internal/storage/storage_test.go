// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/arena-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleBattle() *model.ArenaBattle {
	b := model.NewArenaBattle("which is faster?",
		model.BattleSide{ModelName: "alpha", ProviderID: "local"},
		model.BattleSide{ModelName: "beta", ProviderID: "cloud"})
	b.LeftResponse = "left says this"
	b.RightResponse = "right says that"
	b.LeftThinkingContent = "thinking aloud"
	b.LeftDurationMs = 1200
	b.RightDurationMs = 940
	return b
}

// =============================================================================
// BATTLE TESTS
// =============================================================================

func TestBattleInsertAndGet(t *testing.T) {
	store := openTestStore(t)

	b := sampleBattle()
	if err := store.InsertBattle(b); err != nil {
		t.Fatalf("InsertBattle failed: %v", err)
	}

	got, err := store.GetBattle(b.ID)
	if err != nil {
		t.Fatalf("GetBattle failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetBattle returned nil for existing battle")
	}
	if got.Prompt != b.Prompt {
		t.Errorf("Prompt = %q, want %q", got.Prompt, b.Prompt)
	}
	if got.LeftResponse != b.LeftResponse {
		t.Errorf("LeftResponse = %q, want %q", got.LeftResponse, b.LeftResponse)
	}
	if got.LeftThinkingContent != "thinking aloud" {
		t.Errorf("LeftThinkingContent = %q", got.LeftThinkingContent)
	}
	if got.RightDurationMs != 940 {
		t.Errorf("RightDurationMs = %d, want 940", got.RightDurationMs)
	}
	if !got.CreatedAt.Equal(b.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, b.CreatedAt)
	}
	if got.Winner != "" {
		t.Errorf("Winner = %q, want empty", got.Winner)
	}
}

func TestBattleGetMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetBattle("battle_missing")
	if err != nil {
		t.Fatalf("GetBattle failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetBattle = %+v, want nil", got)
	}
}

func TestBattleUpdateWinner(t *testing.T) {
	store := openTestStore(t)

	b := sampleBattle()
	if err := store.InsertBattle(b); err != nil {
		t.Fatalf("InsertBattle failed: %v", err)
	}

	b.Winner = "LEFT"
	if err := store.UpdateBattle(b); err != nil {
		t.Fatalf("UpdateBattle failed: %v", err)
	}

	got, err := store.GetBattle(b.ID)
	if err != nil {
		t.Fatalf("GetBattle failed: %v", err)
	}
	if got.Winner != "LEFT" {
		t.Errorf("Winner = %q, want LEFT", got.Winner)
	}
}

func TestBattleUpdateMissing(t *testing.T) {
	store := openTestStore(t)

	b := sampleBattle()
	if err := store.UpdateBattle(b); err == nil {
		t.Error("UpdateBattle succeeded for a battle that was never inserted")
	}
}

func TestBattleListNewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Now()
	var ids []string
	for i := 0; i < 3; i++ {
		b := sampleBattle()
		b.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := store.InsertBattle(b); err != nil {
			t.Fatalf("InsertBattle failed: %v", err)
		}
		ids = append(ids, b.ID)
	}

	battles, err := store.ListBattles(0)
	if err != nil {
		t.Fatalf("ListBattles failed: %v", err)
	}
	if len(battles) != 3 {
		t.Fatalf("ListBattles returned %d battles, want 3", len(battles))
	}
	if battles[0].ID != ids[2] || battles[2].ID != ids[0] {
		t.Error("ListBattles is not ordered newest first")
	}

	limited, err := store.ListBattles(2)
	if err != nil {
		t.Fatalf("ListBattles failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListBattles(2) returned %d battles, want 2", len(limited))
	}
}

// =============================================================================
// RATING TESTS
// =============================================================================

func TestRatingSeededOnFirstSight(t *testing.T) {
	store := openTestStore(t)

	r, err := store.GetOrCreateRating("alpha")
	if err != nil {
		t.Fatalf("GetOrCreateRating failed: %v", err)
	}
	if r.EloRating != model.DefaultElo {
		t.Errorf("EloRating = %v, want %v", r.EloRating, model.DefaultElo)
	}
	if r.TotalBattles != 0 || r.Wins != 0 || r.Losses != 0 || r.Ties != 0 {
		t.Errorf("fresh rating has nonzero counters: %+v", r)
	}
	if !r.LastBattleAt.IsZero() {
		t.Errorf("LastBattleAt = %v, want zero", r.LastBattleAt)
	}
}

func TestRatingUpdateRoundTrip(t *testing.T) {
	store := openTestStore(t)

	r, err := store.GetOrCreateRating("alpha")
	if err != nil {
		t.Fatalf("GetOrCreateRating failed: %v", err)
	}

	r.EloRating = 1523.45
	r.Wins = 3
	r.Losses = 1
	r.Ties = 2
	r.TotalBattles = 6
	r.LastBattleAt = time.Now()
	if err := store.UpdateRating(r); err != nil {
		t.Fatalf("UpdateRating failed: %v", err)
	}

	got, err := store.GetOrCreateRating("alpha")
	if err != nil {
		t.Fatalf("GetOrCreateRating failed: %v", err)
	}
	if got.EloRating != 1523.45 {
		t.Errorf("EloRating = %v, want 1523.45", got.EloRating)
	}
	if got.Wins != 3 || got.Losses != 1 || got.Ties != 2 || got.TotalBattles != 6 {
		t.Errorf("counters did not round-trip: %+v", got)
	}
	if !got.LastBattleAt.Equal(r.LastBattleAt) {
		t.Errorf("LastBattleAt = %v, want %v", got.LastBattleAt, r.LastBattleAt)
	}
}

func TestRatingGetOrCreateKeepsExisting(t *testing.T) {
	store := openTestStore(t)

	r, err := store.GetOrCreateRating("alpha")
	if err != nil {
		t.Fatalf("GetOrCreateRating failed: %v", err)
	}
	r.EloRating = 1600
	r.Wins = 5
	r.TotalBattles = 5
	if err := store.UpdateRating(r); err != nil {
		t.Fatalf("UpdateRating failed: %v", err)
	}

	again, err := store.GetOrCreateRating("alpha")
	if err != nil {
		t.Fatalf("GetOrCreateRating failed: %v", err)
	}
	if again.EloRating != 1600 || again.Wins != 5 {
		t.Errorf("GetOrCreateRating reset an existing row: %+v", again)
	}
}

func TestRatingListOrderedByElo(t *testing.T) {
	store := openTestStore(t)

	for name, elo := range map[string]float64{
		"middling": 1500,
		"champion": 1650,
		"straggler": 1350,
	} {
		r, err := store.GetOrCreateRating(name)
		if err != nil {
			t.Fatalf("GetOrCreateRating failed: %v", err)
		}
		r.EloRating = elo
		if err := store.UpdateRating(r); err != nil {
			t.Fatalf("UpdateRating failed: %v", err)
		}
	}

	ratings, err := store.ListRatings()
	if err != nil {
		t.Fatalf("ListRatings failed: %v", err)
	}
	if len(ratings) != 3 {
		t.Fatalf("ListRatings returned %d rows, want 3", len(ratings))
	}
	want := []string{"champion", "middling", "straggler"}
	for i, name := range want {
		if ratings[i].ModelName != name {
			t.Errorf("ratings[%d] = %s, want %s", i, ratings[i].ModelName, name)
		}
	}
}
