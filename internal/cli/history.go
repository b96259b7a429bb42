// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - The history and show commands: browse past battles.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/util"
)

// markdownRenderer is the global glamour renderer for battle transcripts.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer initialization fails
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil || !IsStdoutTTY() {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// HandleHistory lists recent battles, newest first.
func HandleHistory(args Args) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	battles, err := store.ListBattles(args.Limit)
	if err != nil {
		return err
	}
	if len(battles) == 0 {
		fmt.Println("No battles yet. Start one with: arena battle \"your question\"")
		return nil
	}

	fmt.Println(RenderConditional(TitleStyle, "Battle History"))
	for _, b := range battles {
		verdict := b.Winner
		if verdict == "" {
			verdict = "unvoted"
		}
		fmt.Printf("%s  %s\n",
			RenderConditional(DimStyle, b.CreatedAt.Format("2006-01-02 15:04")),
			b.ID)
		fmt.Printf("  %s vs %s  [%s]\n",
			RenderConditional(LeftStyle, b.LeftModelName),
			RenderConditional(RightStyle, b.RightModelName),
			verdictTag(verdict))
		fmt.Printf("  %s\n", RenderConditional(DimStyle,
			util.TruncateRunes(util.FirstLine(b.Prompt), 70)))
	}
	return nil
}

// HandleShow prints the full transcript of one battle.
func HandleShow(args Args) error {
	if args.BattleID == "" {
		return errors.New("show needs a battle ID: arena show <id>")
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

	b, err := store.GetBattle(args.BattleID)
	if err != nil {
		return err
	}
	if b == nil {
		return fmt.Errorf("no battle %s; see arena history", args.BattleID)
	}

	fmt.Println(RenderConditional(TitleStyle, "Battle "+b.ID))
	fmt.Printf("%s %s\n", RenderConditional(LabelStyle, "Date"),
		RenderConditional(ValueStyle, b.CreatedAt.Format("2006-01-02 15:04:05")))
	fmt.Printf("%s %s\n", RenderConditional(LabelStyle, "Winner"), verdictTag(verdictOrUnvoted(b)))
	fmt.Println()
	fmt.Println(RenderConditional(LabelStyle.Width(0), "Prompt"))
	fmt.Println(WrapText(b.Prompt, 0))
	fmt.Println(RenderSeparator())

	printSide(RenderConditional(LeftStyle, sideLabel(b.LeftModelName, b.LeftProviderID)),
		b.LeftResponse, b.LeftThinkingContent, b.LeftDurationMs)
	fmt.Println(RenderSeparator())
	printSide(RenderConditional(RightStyle, sideLabel(b.RightModelName, b.RightProviderID)),
		b.RightResponse, b.RightThinkingContent, b.RightDurationMs)
	return nil
}

func printSide(label, response, thinking string, durationMs int64) {
	fmt.Printf("%s  %s\n", label, RenderConditional(DimStyle, formatDuration(durationMs)))
	if thinking != "" {
		fmt.Println(RenderConditional(DimStyle, WrapText(thinking, 0)))
		fmt.Println()
	}
	fmt.Print(renderMarkdown(response))
	if !strings.HasSuffix(response, "\n") {
		fmt.Println()
	}
}

func formatDuration(ms int64) string {
	if ms <= 0 {
		return ""
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func verdictOrUnvoted(b *model.ArenaBattle) string {
	if b.Winner == "" {
		return "unvoted"
	}
	return b.Winner
}

func verdictTag(verdict string) string {
	switch verdict {
	case string(model.VoteLeft), string(model.VoteRight):
		return RenderConditional(WinnerStyle, verdict)
	case string(model.VoteTie):
		return RenderConditional(WarningStyle, verdict)
	case string(model.VoteBothBad):
		return RenderConditional(ErrorStyle, verdict)
	default:
		return RenderConditional(DimStyle, verdict)
	}
}
