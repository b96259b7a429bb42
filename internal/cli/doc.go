// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and command handlers for arena.
//
// The CLI surface:
//
//	arena battle --left local:llama3.2 --right openai:gpt-4o "prompt"
//	arena vote <battle-id> <left|right|tie|both-bad>
//	arena leaderboard
//	arena history [--limit N]
//	arena show <battle-id>
//	arena init
//	arena version
//	arena help
//
// battle launches the interactive dual-pane view on a TTY; --plain (or a
// non-TTY stdout) streams line-oriented progress instead. Output styling
// respects NO_COLOR and is disabled for piped output.
package cli
