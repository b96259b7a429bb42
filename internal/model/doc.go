// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for arena battles and ratings.
//
// This package defines the core domain types used throughout the application
// for representing head-to-head model battles, per-model ELO ratings, and the
// chat messages exchanged with providers.
//
// # Key Types
//
//   - ArenaBattle: Immutable record of one head-to-head query
//   - ModelRating: Mutable ELO aggregate keyed by model name
//   - ArenaVote: The four possible battle outcomes (left, right, tie, both bad)
//   - ChatMessage: Single message with role and content
//
// # Usage
//
// Create a battle record and cast a vote:
//
//	battle := model.NewArenaBattle(prompt, left, right)
//	battle.Winner = model.VoteLeft.String()
//
// Seed a fresh rating:
//
//	rating := model.NewModelRating("qwen2.5:7b")
//	fmt.Printf("%s starts at %.0f\n", rating.ModelName, rating.EloRating)
package model
