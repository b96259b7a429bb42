// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for arena battles and ratings.
package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ARENA VOTE
// =============================================================================

// ArenaVote is the outcome of a battle as judged by the user.
type ArenaVote string

const (
	// VoteLeft means the left model won.
	VoteLeft ArenaVote = "LEFT"

	// VoteRight means the right model won.
	VoteRight ArenaVote = "RIGHT"

	// VoteTie means both answers were comparable.
	VoteTie ArenaVote = "TIE"

	// VoteBothBad means neither answer was acceptable.
	// Scores like a tie but is recorded distinctly on the battle.
	VoteBothBad ArenaVote = "BOTH_BAD"
)

// ErrUnknownVote is returned when parsing an unrecognized vote string.
var ErrUnknownVote = errors.New("unknown vote")

// String returns the string representation of the vote.
func (v ArenaVote) String() string {
	return string(v)
}

// ParseVote converts a user-supplied string to an ArenaVote.
// Accepts the canonical names plus the short forms used on the CLI.
func ParseVote(s string) (ArenaVote, error) {
	switch s {
	case "LEFT", "left", "1":
		return VoteLeft, nil
	case "RIGHT", "right", "2":
		return VoteRight, nil
	case "TIE", "tie", "t":
		return VoteTie, nil
	case "BOTH_BAD", "both-bad", "both_bad", "b":
		return VoteBothBad, nil
	default:
		return "", ErrUnknownVote
	}
}

// Scores returns the (left, right) actual scores fed to the ELO formula.
// TIE and BOTH_BAD are numerically identical.
func (v ArenaVote) Scores() (float64, float64) {
	switch v {
	case VoteLeft:
		return 1.0, 0.0
	case VoteRight:
		return 0.0, 1.0
	default:
		return 0.5, 0.5
	}
}

// =============================================================================
// ARENA BATTLE
// =============================================================================

// ArenaBattle is an immutable record of one head-to-head query.
// It is created by the orchestrator once both sides reach a terminal state
// and mutated exactly once afterwards, when a vote sets Winner.
type ArenaBattle struct {
	// Identity
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Inputs
	Prompt          string `json:"prompt"`
	LeftModelName   string `json:"left_model_name"`
	LeftProviderID  string `json:"left_provider_id"`
	RightModelName  string `json:"right_model_name"`
	RightProviderID string `json:"right_provider_id"`

	// Outputs, filled in as the streams complete
	LeftResponse         string `json:"left_response"`
	RightResponse        string `json:"right_response"`
	LeftThinkingContent  string `json:"left_thinking_content,omitempty"`
	RightThinkingContent string `json:"right_thinking_content,omitempty"`
	LeftDurationMs       int64  `json:"left_duration_ms"`
	RightDurationMs      int64  `json:"right_duration_ms"`

	// Outcome. Empty until a vote is cast, then one of the ArenaVote names.
	Winner string `json:"winner,omitempty"`
}

// BattleSide identifies one participant of a battle.
type BattleSide struct {
	ModelName  string
	ProviderID string
}

// NewArenaBattle creates a battle record with a fresh ID and timestamp.
func NewArenaBattle(prompt string, left, right BattleSide) *ArenaBattle {
	return &ArenaBattle{
		ID:              "battle_" + uuid.NewString(),
		CreatedAt:       time.Now(),
		Prompt:          prompt,
		LeftModelName:   left.ModelName,
		LeftProviderID:  left.ProviderID,
		RightModelName:  right.ModelName,
		RightProviderID: right.ProviderID,
	}
}

// HasWinner reports whether a vote has already been recorded.
func (b *ArenaBattle) HasWinner() bool {
	return b.Winner != ""
}

// =============================================================================
// MODEL RATING
// =============================================================================

// DefaultElo is the rating seeded for a model the first time it battles.
const DefaultElo = 1500.0

// ModelRating is the ELO aggregate for one model name.
// The model name is the rating identity: the same model string reached
// through two different providers shares one rating row.
type ModelRating struct {
	ModelName    string    `json:"model_name"`
	EloRating    float64   `json:"elo_rating"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	Ties         int       `json:"ties"`
	TotalBattles int       `json:"total_battles"`
	LastBattleAt time.Time `json:"last_battle_at"`
}

// NewModelRating seeds a rating for a previously unseen model.
func NewModelRating(modelName string) *ModelRating {
	return &ModelRating{
		ModelName: modelName,
		EloRating: DefaultElo,
	}
}

// WinRate returns the fraction of battles won, or 0 when unplayed.
func (r *ModelRating) WinRate() float64 {
	if r.TotalBattles == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.TotalBattles)
}
