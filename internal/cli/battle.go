// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// battle.go - The battle command: run a prompt against two models.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jeranaias/arena-tui/internal/arena"
	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/provider"
	uiarena "github.com/jeranaias/arena-tui/internal/ui/arena"
)

// HandleBattle runs a head-to-head battle.
func HandleBattle(args Args) error {
	if strings.TrimSpace(args.Prompt) == "" {
		return errors.New("battle needs a prompt: arena battle \"your question\"")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	left, right, err := resolveSides(cfg, args)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	orch := arena.NewOrchestrator(cfg.Lookup(), provider.NewHTTPStreamer(), store)
	req := arena.BattleRequest{
		Prompt: args.Prompt,
		Left:   left,
		Right:  right,
		System: cfg.SystemPrompt,
		Effort: battleEffort(cfg, args),
	}

	if args.Plain || !IsStdoutTTY() {
		return runPlainBattle(orch, newEngine(store), req)
	}
	return uiarena.Run(orch, newEngine(store), req, uiarena.Options{
		ShowThinking: cfg.UI.ShowThinking,
		CompactMode:  cfg.UI.CompactMode,
	})
}

// runPlainBattle streams a battle as line-oriented output: one line per
// side state change, then the full transcript once both sides finish.
func runPlainBattle(orch *arena.Orchestrator, engine *arena.RatingEngine, req arena.BattleRequest) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots, err := orch.RunBattle(ctx, req)
	if err != nil {
		return err
	}

	leftLabel := sideLabel(req.Left.ModelName, req.Left.ProviderID)
	rightLabel := sideLabel(req.Right.ModelName, req.Right.ProviderID)
	fmt.Printf("%s  vs  %s\n",
		RenderConditional(LeftStyle, leftLabel),
		RenderConditional(RightStyle, rightLabel))
	fmt.Println(RenderSeparator())

	var lastLeft, lastRight provider.Phase
	var final *arena.Snapshot
	for snap := range snapshots {
		if snap.Left.Phase != lastLeft {
			lastLeft = snap.Left.Phase
			printPhase("left", leftLabel, snap.Left)
		}
		if snap.Right.Phase != lastRight {
			lastRight = snap.Right.Phase
			printPhase("right", rightLabel, snap.Right)
		}
		if snap.Done {
			s := snap
			final = &s
		}
	}

	if final == nil {
		// Cancelled before both sides finished; nothing was recorded.
		fmt.Println(RenderConditional(WarningStyle, "battle cancelled, nothing recorded"))
		return nil
	}
	if final.Err != nil {
		return fmt.Errorf("battle finished but could not be saved: %w", final.Err)
	}

	fmt.Println()
	printTranscript(leftLabel, final.Left)
	fmt.Println(RenderSeparator())
	printTranscript(rightLabel, final.Right)
	fmt.Println(RenderSeparator())
	fmt.Printf("Battle ID: %s\n", final.BattleID)

	// An inline vote prompt saves a round trip through `arena vote`.
	if IsTTY() && IsStdoutTTY() {
		return promptVote(engine, final.BattleID)
	}
	fmt.Printf("Vote with: arena vote %s <left|right|tie|both-bad>\n", final.BattleID)
	return nil
}

func printPhase(side, label string, state provider.StreamingState) {
	style := LeftStyle
	if side == "right" {
		style = RightStyle
	}
	tag := RenderConditional(style, "["+side+"]")

	switch state.Phase {
	case provider.PhaseStarting:
		fmt.Printf("%s %s connecting...\n", tag, label)
	case provider.PhaseStreaming:
		fmt.Printf("%s %s streaming\n", tag, label)
	case provider.PhaseCompleted:
		fmt.Printf("%s %s %s\n", tag, label, RenderConditional(SuccessStyle, "done"))
	case provider.PhaseError:
		fmt.Printf("%s %s %s: %v\n", tag, label, RenderConditional(ErrorStyle, "failed"), state.Err)
	case provider.PhaseCancelled:
		fmt.Printf("%s %s cancelled\n", tag, label)
	}
}

func printTranscript(label string, state provider.StreamingState) {
	fmt.Println(RenderConditional(TitleStyle, label))
	if state.Thinking != "" {
		fmt.Println(RenderConditional(DimStyle, WrapText(state.Thinking, 0)))
		fmt.Println()
	}
	if state.Content != "" {
		fmt.Println(WrapText(state.Content, 0))
	} else if state.Err != nil {
		fmt.Println(RenderConditional(ErrorStyle, state.Err.Error()))
	}
}

// promptVote reads a verdict from stdin and applies it.
func promptVote(engine *arena.RatingEngine, battleID string) error {
	fmt.Print("Vote [left/right/tie/both-bad, enter to skip]: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil
	}
	line = strings.TrimSpace(line)
	if line == "" {
		fmt.Printf("Skipped. Vote later with: arena vote %s <verdict>\n", battleID)
		return nil
	}

	vote, err := model.ParseVote(line)
	if err != nil {
		return fmt.Errorf("unknown verdict %q (use left, right, tie, or both-bad)", line)
	}

	result, err := engine.Vote(battleID, vote)
	if err != nil {
		return err
	}
	printVoteResult(result)
	return nil
}

// printVoteResult shows both updated ratings after a vote.
func printVoteResult(result *arena.VoteResult) {
	fmt.Printf("%s %s\n",
		RenderConditional(SuccessStyle, "Recorded:"),
		result.Battle.Winner)
	fmt.Printf("  %-24s %7.1f ELO  (%dW %dL %dT)\n",
		result.Left.ModelName, result.Left.EloRating,
		result.Left.Wins, result.Left.Losses, result.Left.Ties)
	fmt.Printf("  %-24s %7.1f ELO  (%dW %dL %dT)\n",
		result.Right.ModelName, result.Right.EloRating,
		result.Right.Wins, result.Right.Losses, result.Right.Ties)
}
