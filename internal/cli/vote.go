// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// vote.go - The vote command: record a verdict on a finished battle.
package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/arena-tui/internal/arena"
	"github.com/jeranaias/arena-tui/internal/model"
)

// HandleVote applies a vote to a battle and prints the updated ratings.
func HandleVote(args Args) error {
	if args.BattleID == "" {
		return errors.New("vote needs a battle ID: arena vote <id> <verdict>")
	}
	if args.Vote == "" {
		return errors.New("vote needs a verdict: left, right, tie, or both-bad")
	}

	vote, err := model.ParseVote(args.Vote)
	if err != nil {
		return fmt.Errorf("unknown verdict %q (use left, right, tie, or both-bad)", args.Vote)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := newEngine(store).Vote(args.BattleID, vote)
	if errors.Is(err, arena.ErrBattleNotFound) {
		return fmt.Errorf("no battle %s; see arena history", args.BattleID)
	}
	if errors.Is(err, arena.ErrAlreadyVoted) {
		return fmt.Errorf("battle %s already has a recorded winner; each battle accepts one vote", args.BattleID)
	}
	if err != nil {
		return err
	}

	printVoteResult(result)
	return nil
}
