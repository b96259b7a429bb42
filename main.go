// arena TUI - Head-to-head LLM battles with ELO ratings in your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/arena-tui/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdBattle:
		err = cli.HandleBattle(args)
	case cli.CmdVote:
		err = cli.HandleVote(args)
	case cli.CmdLeaderboard:
		err = cli.HandleLeaderboard(args)
	case cli.CmdHistory:
		err = cli.HandleHistory(args)
	case cli.CmdShow:
		err = cli.HandleShow(args)
	case cli.CmdInit:
		err = cli.HandleInit(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
