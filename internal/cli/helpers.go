// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared setup helpers for arena CLI command handlers.
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/arena-tui/internal/arena"
	"github.com/jeranaias/arena-tui/internal/config"
	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/storage"
)

// loadConfig loads configuration, honoring the --config flag.
func loadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	return config.Load()
}

// openStore opens the SQLite store at the configured location.
func openStore(cfg *config.Config) (*storage.Store, error) {
	path, err := cfg.DatabasePath()
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// parseSideSpec parses a "provider" or "provider:model" contender spec.
func parseSideSpec(spec string) model.BattleSide {
	providerID, modelName, found := strings.Cut(spec, ":")
	if !found {
		return model.BattleSide{ProviderID: spec}
	}
	return model.BattleSide{ProviderID: providerID, ModelName: modelName}
}

// resolveSides turns the --left/--right flags into battle sides, filling
// unset sides from the configured provider list: left defaults to the
// first provider, right to the second (or the first again when only one
// is configured). Provider IDs are checked against the configured set so
// a typo fails here rather than mid-battle.
func resolveSides(cfg *config.Config, args Args) (left, right model.BattleSide, err error) {
	if len(cfg.Providers) == 0 {
		return left, right, fmt.Errorf("no providers configured; run arena init or edit %s", configHint())
	}

	if args.Left != "" {
		left = parseSideSpec(args.Left)
	} else {
		left = model.BattleSide{ProviderID: cfg.Providers[0].ID}
	}

	if args.Right != "" {
		right = parseSideSpec(args.Right)
	} else if len(cfg.Providers) > 1 {
		right = model.BattleSide{ProviderID: cfg.Providers[1].ID}
	} else {
		right = model.BattleSide{ProviderID: cfg.Providers[0].ID}
	}

	lookup := cfg.Lookup()
	for _, side := range []model.BattleSide{left, right} {
		if _, err := lookup.GetProvider(side.ProviderID); err != nil {
			return left, right, fmt.Errorf("unknown provider %q (configured: %s)",
				side.ProviderID, strings.Join(lookup.IDs(), ", "))
		}
	}

	return left, right, nil
}

func configHint() string {
	path, err := config.ConfigPath()
	if err != nil {
		return "~/.arena/config.toml"
	}
	return path
}

// sideLabel formats a battle side for display.
func sideLabel(modelName, providerID string) string {
	if modelName == "" {
		return providerID
	}
	return fmt.Sprintf("%s (%s)", modelName, providerID)
}

// battleEffort picks the reasoning effort for a battle: the --effort flag
// when given, the configured default otherwise.
func battleEffort(cfg *config.Config, args Args) model.ReasoningEffort {
	if args.Effort != "" {
		return model.ParseReasoningEffort(args.Effort)
	}
	return cfg.Effort()
}

// newEngine builds a rating engine over the store.
func newEngine(store *storage.Store) *arena.RatingEngine {
	return arena.NewRatingEngine(store, store)
}
