// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for arena.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdBattle Command = iota
	CmdVote
	CmdLeaderboard
	CmdHistory
	CmdShow
	CmdInit
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Plain      bool   // Line-oriented output, no interactive UI
	ConfigPath string // Alternate config file location
	Effort     string // Reasoning effort override

	// Battle
	Prompt string
	Left   string // "provider:model" or "provider"
	Right  string

	// Vote / show
	BattleID string
	Vote     string

	// History
	Limit int

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `arena - LLM model battles with ELO ratings

Arena runs the same prompt against two models side by side, streams both
answers live, and keeps an ELO leaderboard from your votes.

Usage:
  arena battle [flags] "prompt"   Run a head-to-head battle
  arena vote <id> <verdict>       Vote on a finished battle
  arena leaderboard, lb           Show the ELO leaderboard
  arena history [--limit N]       List recent battles
  arena show <id>                 Show a battle's full transcript
  arena init                      Write a starter config file
  arena version                   Show version information
  arena help                      Show this help

Battle Flags:
  --left provider[:model]         Left contender (default: first provider)
  --right provider[:model]        Right contender
  --effort low|medium|high        Reasoning effort for both sides
  --plain                         Stream without the interactive UI

Verdicts:
  left, 1        The left model won
  right, 2       The right model won
  tie, t         Both answers comparable
  both-bad, b    Neither answer acceptable (scores like a tie)

Global Flags:
  --config PATH                   Use an alternate config file

Examples:
  arena battle --left local:llama3.2 --right local:qwen2.5 "explain mutexes"
  arena battle --left openai:gpt-4o --right claude:claude-sonnet-4 "write a haiku"
  arena vote battle_4f1f... left
  arena leaderboard
  arena history --limit 10
  arena show battle_4f1f...

Configuration: ~/.arena/config.toml
API keys: ARENA_<PROVIDER_ID>_API_KEY environment variables

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("arena version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs is the testable core of Parse.
func parseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdHelp, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "battle", "b":
		parseBattleArgs(&parsed, remaining)
		return CmdBattle, parsed

	case "vote", "v":
		if len(remaining) > 0 {
			parsed.BattleID = remaining[0]
		}
		if len(remaining) > 1 {
			parsed.Vote = remaining[1]
		}
		return CmdVote, parsed

	case "leaderboard", "lb", "ratings":
		return CmdLeaderboard, parsed

	case "history", "battles":
		parseHistoryArgs(&parsed, remaining)
		return CmdHistory, parsed

	case "show":
		if len(remaining) > 0 {
			parsed.BattleID = remaining[0]
		}
		return CmdShow, parsed

	case "init":
		return CmdInit, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown command reads best as a battle prompt.
		parsed.Prompt = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdBattle, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "--plain":
			parsed.Plain = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsed.ConfigPath = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--config=") {
				parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseBattleArgs parses battle-specific flags; non-flag words form the prompt.
func parseBattleArgs(parsed *Args, args []string) {
	var promptParts []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "--left":
			if i+1 < len(args) {
				i++
				parsed.Left = args[i]
			}
		case arg == "--right":
			if i+1 < len(args) {
				i++
				parsed.Right = args[i]
			}
		case arg == "--effort":
			if i+1 < len(args) {
				i++
				parsed.Effort = args[i]
			}
		case strings.HasPrefix(arg, "--left="):
			parsed.Left = strings.TrimPrefix(arg, "--left=")
		case strings.HasPrefix(arg, "--right="):
			parsed.Right = strings.TrimPrefix(arg, "--right=")
		case strings.HasPrefix(arg, "--effort="):
			parsed.Effort = strings.TrimPrefix(arg, "--effort=")
		default:
			promptParts = append(promptParts, arg)
		}
		i++
	}

	if parsed.Prompt == "" {
		parsed.Prompt = strings.Join(promptParts, " ")
	}
}

// parseHistoryArgs parses history-specific flags.
func parseHistoryArgs(parsed *Args, args []string) {
	parsed.Limit = 20

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "--limit" || arg == "-n":
			if i+1 < len(args) {
				i++
				if n, err := strconv.Atoi(args[i]); err == nil && n > 0 {
					parsed.Limit = n
				}
			}
		case strings.HasPrefix(arg, "--limit="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil && n > 0 {
				parsed.Limit = n
			}
		}
		i++
	}
}
