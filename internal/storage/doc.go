// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists battles and model ratings in SQLite.
//
// A single Store owns the database handle. SQLite allows one writer at a
// time, so the connection pool is pinned to a single connection and the
// database runs in WAL mode. The store satisfies both persistence
// interfaces the arena package consumes (BattleStore and RatingStore).
//
// The database lives at ~/.arena/arena.db by default.
package storage
