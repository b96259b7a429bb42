// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jeranaias/arena-tui/internal/model"
)

// =============================================================================
// ELO CONSTANTS
// =============================================================================

const (
	// eloKFactor is the maximum rating movement per battle.
	eloKFactor = 32.0

	// eloScale controls how rating gaps map to expected scores. A gap of
	// eloScale points means the stronger side is expected to score ~0.91.
	eloScale = 400.0
)

var (
	// ErrBattleNotFound is returned when a vote names an unknown battle.
	ErrBattleNotFound = errors.New("battle not found")

	// ErrAlreadyVoted is returned when a battle already has a recorded
	// winner. Ratings are applied exactly once per battle.
	ErrAlreadyVoted = errors.New("battle already has a recorded winner")
)

// =============================================================================
// RATING ENGINE
// =============================================================================

// RatingEngine applies votes to battles and maintains per-model ELO ratings.
type RatingEngine struct {
	battles BattleStore
	ratings RatingStore
	now     func() time.Time
}

// NewRatingEngine wires a rating engine to its stores.
func NewRatingEngine(battles BattleStore, ratings RatingStore) *RatingEngine {
	return &RatingEngine{
		battles: battles,
		ratings: ratings,
		now:     time.Now,
	}
}

// VoteResult reports both sides' ratings after a vote was applied.
type VoteResult struct {
	Battle *model.ArenaBattle
	Left   *model.ModelRating
	Right  *model.ModelRating
}

// Vote records a verdict on a battle and updates both models' ratings.
//
// Expected scores for both sides are computed from the ratings as they
// stood before the vote, so the exchange is zero-sum. A battle accepts
// exactly one vote; a second vote returns ErrAlreadyVoted with no rating
// change.
func (e *RatingEngine) Vote(battleID string, vote model.ArenaVote) (*VoteResult, error) {
	leftScore, rightScore := vote.Scores()

	battle, err := e.battles.GetBattle(battleID)
	if err != nil {
		return nil, fmt.Errorf("load battle: %w", err)
	}
	if battle == nil {
		return nil, fmt.Errorf("%w: %s", ErrBattleNotFound, battleID)
	}
	if battle.HasWinner() {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyVoted, battleID)
	}

	battle.Winner = string(vote)
	if err := e.battles.UpdateBattle(battle); err != nil {
		return nil, fmt.Errorf("record winner: %w", err)
	}

	left, err := e.ratings.GetOrCreateRating(battle.LeftModelName)
	if err != nil {
		return nil, fmt.Errorf("load left rating: %w", err)
	}
	right, err := e.ratings.GetOrCreateRating(battle.RightModelName)
	if err != nil {
		return nil, fmt.Errorf("load right rating: %w", err)
	}

	// Both expectations come from the pre-vote ratings.
	expectedLeft := expectedScore(left.EloRating, right.EloRating)
	expectedRight := expectedScore(right.EloRating, left.EloRating)

	left.EloRating += eloKFactor * (leftScore - expectedLeft)
	right.EloRating += eloKFactor * (rightScore - expectedRight)

	applyOutcome(left, vote, true)
	applyOutcome(right, vote, false)

	votedAt := e.now()
	left.LastBattleAt = votedAt
	right.LastBattleAt = votedAt

	if err := e.ratings.UpdateRating(left); err != nil {
		return nil, fmt.Errorf("save left rating: %w", err)
	}
	if err := e.ratings.UpdateRating(right); err != nil {
		return nil, fmt.Errorf("save right rating: %w", err)
	}

	return &VoteResult{Battle: battle, Left: left, Right: right}, nil
}

// expectedScore is the probability-weighted score a player at rating r
// expects against an opponent at rating opp.
func expectedScore(r, opp float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opp-r)/eloScale))
}

// applyOutcome bumps a side's win/loss/tie counters for the vote. Both
// TIE and BOTH_BAD count as ties on both sides.
func applyOutcome(r *model.ModelRating, vote model.ArenaVote, isLeft bool) {
	switch vote {
	case model.VoteLeft:
		if isLeft {
			r.Wins++
		} else {
			r.Losses++
		}
	case model.VoteRight:
		if isLeft {
			r.Losses++
		} else {
			r.Wins++
		}
	case model.VoteTie, model.VoteBothBad:
		r.Ties++
	}
	r.TotalBattles++
}
