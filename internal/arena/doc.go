// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package arena runs head-to-head model battles and maintains ELO ratings.
//
// Two cooperating components:
//
//   - Orchestrator runs the same prompt against two providers concurrently,
//     merges both live streams into one snapshot sequence, and persists the
//     battle record exactly once when both sides finish.
//   - RatingEngine applies a user vote to a finished battle: it records the
//     winner and updates both models' ELO ratings (K=32, logistic expected
//     score over a 400-point divisor).
//
// # Merge semantics
//
// The two side-queries never block each other. Each side owns its state and
// reports changes over a shared fan-in channel; a new combined snapshot is
// emitted whenever either side changes. No ordering holds between sides;
// within one side, transitions are strictly ordered.
//
// # Persistence discipline
//
// The battle record is written only after both sides reach Completed or
// Error. Cancelling the battle context cancels both sides and writes
// nothing.
package arena
