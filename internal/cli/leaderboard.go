// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// leaderboard.go - The leaderboard command: ELO standings by model.
package cli

import (
	"fmt"

	"github.com/jeranaias/arena-tui/internal/util"
)

// HandleLeaderboard prints the ELO standings, best first.
func HandleLeaderboard(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ratings, err := store.ListRatings()
	if err != nil {
		return err
	}
	if len(ratings) == 0 {
		fmt.Println("No rated models yet. Run a battle and vote on it first.")
		return nil
	}

	fmt.Println(RenderConditional(TitleStyle, "Leaderboard"))
	header := fmt.Sprintf("%4s  %-28s %8s  %5s %5s %5s  %7s",
		"#", "MODEL", "ELO", "W", "L", "T", "WIN%")
	fmt.Println(RenderConditional(DimStyle, header))
	fmt.Println(RenderSeparator(70))

	for i, r := range ratings {
		line := fmt.Sprintf("%4d  %-28s %8.1f  %5d %5d %5d  %6.1f%%",
			i+1, util.TruncateRunes(r.ModelName, 28), r.EloRating,
			r.Wins, r.Losses, r.Ties, r.WinRate()*100)
		if i == 0 {
			fmt.Println(RenderConditional(WinnerStyle, line))
		} else {
			fmt.Println(line)
		}
	}
	return nil
}
