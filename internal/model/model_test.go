// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"testing"
)

func TestNewArenaBattle(t *testing.T) {
	battle := NewArenaBattle("why is the sky blue?",
		BattleSide{ModelName: "qwen2.5:7b", ProviderID: "local"},
		BattleSide{ModelName: "gpt-4o", ProviderID: "openai"})

	if battle.ID == "" {
		t.Error("Battle ID should not be empty")
	}

	if battle.CreatedAt.IsZero() {
		t.Error("Battle CreatedAt should be set")
	}

	if battle.LeftModelName != "qwen2.5:7b" {
		t.Errorf("Expected left model 'qwen2.5:7b', got '%s'", battle.LeftModelName)
	}

	if battle.HasWinner() {
		t.Error("New battle should not have a winner")
	}
}

func TestBattleIDsUnique(t *testing.T) {
	left := BattleSide{ModelName: "a", ProviderID: "p"}
	right := BattleSide{ModelName: "b", ProviderID: "p"}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		b := NewArenaBattle("prompt", left, right)
		if seen[b.ID] {
			t.Fatalf("Duplicate battle ID: %s", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestParseVote(t *testing.T) {
	cases := []struct {
		input string
		want  ArenaVote
	}{
		{"left", VoteLeft},
		{"LEFT", VoteLeft},
		{"1", VoteLeft},
		{"right", VoteRight},
		{"2", VoteRight},
		{"tie", VoteTie},
		{"t", VoteTie},
		{"both-bad", VoteBothBad},
		{"both_bad", VoteBothBad},
		{"b", VoteBothBad},
	}

	for _, tc := range cases {
		got, err := ParseVote(tc.input)
		if err != nil {
			t.Errorf("ParseVote(%q) returned error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Errorf("ParseVote(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}

	if _, err := ParseVote("garbage"); err == nil {
		t.Error("ParseVote should reject unknown votes")
	}
}

func TestVoteScores(t *testing.T) {
	l, r := VoteLeft.Scores()
	if l != 1.0 || r != 0.0 {
		t.Errorf("LEFT scores = (%v, %v), want (1, 0)", l, r)
	}

	l, r = VoteRight.Scores()
	if l != 0.0 || r != 1.0 {
		t.Errorf("RIGHT scores = (%v, %v), want (0, 1)", l, r)
	}

	// TIE and BOTH_BAD are numerically identical
	tl, tr := VoteTie.Scores()
	bl, br := VoteBothBad.Scores()
	if tl != 0.5 || tr != 0.5 || bl != tl || br != tr {
		t.Errorf("TIE/BOTH_BAD scores differ: (%v,%v) vs (%v,%v)", tl, tr, bl, br)
	}
}

func TestNewModelRatingDefaults(t *testing.T) {
	rating := NewModelRating("llama3:8b")

	if rating.EloRating != DefaultElo {
		t.Errorf("Expected default ELO %v, got %v", DefaultElo, rating.EloRating)
	}

	if rating.Wins != 0 || rating.Losses != 0 || rating.Ties != 0 || rating.TotalBattles != 0 {
		t.Error("New rating should have zero counters")
	}

	if rating.WinRate() != 0 {
		t.Error("Unplayed rating should have zero win rate")
	}
}

func TestWinRate(t *testing.T) {
	rating := &ModelRating{ModelName: "m", Wins: 3, Losses: 1, Ties: 1, TotalBattles: 5}
	if rating.WinRate() != 0.6 {
		t.Errorf("Expected win rate 0.6, got %v", rating.WinRate())
	}
}
