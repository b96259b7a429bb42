// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across arena-tui.
//
// It contains the atomic file write primitive used for crash-safe config
// persistence and rune-aware string helpers for terminal display.
package util
