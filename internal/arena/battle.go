// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/provider"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// BattleStore persists battle records.
type BattleStore interface {
	// InsertBattle writes a new battle record.
	InsertBattle(battle *model.ArenaBattle) error

	// GetBattle returns the battle with the given ID, or (nil, nil) when
	// no such battle exists.
	GetBattle(id string) (*model.ArenaBattle, error)

	// UpdateBattle rewrites an existing battle record.
	UpdateBattle(battle *model.ArenaBattle) error
}

// RatingStore persists per-model ELO ratings.
type RatingStore interface {
	// GetOrCreateRating returns the rating row for the model name,
	// seeding a fresh row at the default ELO on first sight.
	GetOrCreateRating(modelName string) (*model.ModelRating, error)

	// UpdateRating rewrites a rating row.
	UpdateRating(rating *model.ModelRating) error
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is one combined observation of a battle in progress.
// A snapshot is emitted whenever either side's state changes.
type Snapshot struct {
	BattleID string
	Left     provider.StreamingState
	Right    provider.StreamingState

	// Done is set on the final snapshot, after both sides reached a
	// terminal state and persistence was attempted.
	Done bool

	// Err carries a persistence failure. Set only when Done is true.
	Err error
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// BattleRequest describes one battle to run.
type BattleRequest struct {
	Prompt string
	Left   model.BattleSide
	Right  model.BattleSide

	// System, when non-empty, is sent to both sides as a system message
	// ahead of the prompt.
	System string

	// Effort defaults to EffortHigh when empty.
	Effort model.ReasoningEffort
}

// Orchestrator runs battles against a provider lookup, a streamer, and a
// battle store.
type Orchestrator struct {
	lookup   provider.Lookup
	streamer provider.Streamer
	battles  BattleStore
}

// NewOrchestrator wires an orchestrator to its collaborators.
func NewOrchestrator(lookup provider.Lookup, streamer provider.Streamer, battles BattleStore) *Orchestrator {
	return &Orchestrator{
		lookup:   lookup,
		streamer: streamer,
		battles:  battles,
	}
}

// RunBattle resolves both providers, then starts both side-queries
// concurrently and returns the combined snapshot stream. The channel is
// closed after the final snapshot (or, when ctx is cancelled before both
// sides finish, without one — nothing is persisted in that case).
//
// An unresolvable provider ID fails here, before any network activity,
// identifying which side failed.
func (o *Orchestrator) RunBattle(ctx context.Context, req BattleRequest) (<-chan Snapshot, error) {
	leftProv, err := o.lookup.GetProvider(req.Left.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("left provider %q: %w", req.Left.ProviderID, err)
	}
	rightProv, err := o.lookup.GetProvider(req.Right.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("right provider %q: %w", req.Right.ProviderID, err)
	}

	effort := req.Effort
	if effort == "" {
		effort = model.EffortHigh
	}

	battle := model.NewArenaBattle(req.Prompt, req.Left, req.Right)

	out := make(chan Snapshot, 64)
	go o.run(ctx, battle, leftProv, rightProv, req, effort, out)
	return out, nil
}

// sideLeft and sideRight index the per-side state arrays.
const (
	sideLeft = iota
	sideRight
	sideCount
)

// sideUpdate is one state change reported by a side-query goroutine.
type sideUpdate struct {
	side  int
	state provider.StreamingState
}

// run drives both side-queries and the merge loop to completion.
func (o *Orchestrator) run(ctx context.Context, battle *model.ArenaBattle, leftProv, rightProv *provider.Provider, req BattleRequest, effort model.ReasoningEffort, out chan<- Snapshot) {
	defer close(out)

	// Both sides receive the identical conversation.
	var messages []model.ChatMessage
	if req.System != "" {
		messages = append(messages, model.NewSystemMessage(req.System))
	}
	messages = append(messages, model.NewUserMessage(req.Prompt))

	updates := make(chan sideUpdate, 64)
	var durations [sideCount]int64

	var wg sync.WaitGroup
	runSide := func(side int, prov *provider.Provider, modelName string) {
		defer wg.Done()
		start := time.Now()

		// A side failure must never take down the other side or the
		// merge loop; anything escaping the streaming call becomes
		// this side's error state.
		defer func() {
			if r := recover(); r != nil {
				durations[side] = time.Since(start).Milliseconds()
				updates <- sideUpdate{side, provider.StreamingState{
					Phase: provider.PhaseError,
					Err:   fmt.Errorf("side query panicked: %v", r),
				}}
			}
		}()

		ch, err := o.streamer.Stream(ctx, prov, messages, modelName, effort)
		if err != nil {
			durations[side] = time.Since(start).Milliseconds()
			updates <- sideUpdate{side, provider.StreamingState{Phase: provider.PhaseError, Err: err}}
			return
		}

		for state := range ch {
			if state.Terminal() {
				durations[side] = time.Since(start).Milliseconds()
			}
			updates <- sideUpdate{side, state}
		}
	}

	wg.Add(2)
	go runSide(sideLeft, leftProv, req.Left.ModelName)
	go runSide(sideRight, rightProv, req.Right.ModelName)
	go func() {
		wg.Wait()
		close(updates)
	}()

	// Merge loop: each side owns its slot; every change re-emits the pair.
	states := [sideCount]provider.StreamingState{provider.Idle(), provider.Idle()}
	for u := range updates {
		states[u.side] = u.state
		out <- Snapshot{
			BattleID: battle.ID,
			Left:     states[sideLeft],
			Right:    states[sideRight],
		}
	}

	// Both sides have drained. Persist only on normal completion of both:
	// a cancelled side means the user backed out, and no record is written.
	if !finished(states[sideLeft]) || !finished(states[sideRight]) {
		return
	}

	battle.LeftResponse, battle.LeftThinkingContent = recordedOutput(states[sideLeft])
	battle.RightResponse, battle.RightThinkingContent = recordedOutput(states[sideRight])
	battle.LeftDurationMs = durations[sideLeft]
	battle.RightDurationMs = durations[sideRight]

	err := o.battles.InsertBattle(battle)
	out <- Snapshot{
		BattleID: battle.ID,
		Left:     states[sideLeft],
		Right:    states[sideRight],
		Done:     true,
		Err:      err,
	}
}

// finished reports whether a side ended in a persistable terminal state.
func finished(s provider.StreamingState) bool {
	return s.Phase == provider.PhaseCompleted || s.Phase == provider.PhaseError
}

// recordedOutput returns the (response, thinking) pair stored on the battle
// for a terminal side state. An errored side with no partial output records
// the error message, so the battle record always explains what happened.
func recordedOutput(s provider.StreamingState) (string, string) {
	if s.Phase == provider.PhaseError && s.Content == "" && s.Err != nil {
		return "[error] " + s.Err.Error(), s.Thinking
	}
	return s.Content, s.Thinking
}
