// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - Rendering for the dual-pane battle view.
package arena

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/arena-tui/internal/provider"
	"github.com/jeranaias/arena-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Purple)

	leftTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)

	rightTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Magenta)

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Overlay).
			Padding(0, 1)

	thinkingStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true)

	statusDoneStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	keyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)
)

// View renders the battle view.
func (m Model) View() string {
	if m.width == 0 {
		return "starting battle..."
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.panesView())
	b.WriteString("\n")
	b.WriteString(m.footerView())

	return b.String()
}

// headerView shows the matchup and overall battle status.
func (m Model) headerView() string {
	left := leftTitleStyle.Render(m.sideTitle(m.req.Left.ModelName, m.req.Left.ProviderID))
	right := rightTitleStyle.Render(m.sideTitle(m.req.Right.ModelName, m.req.Right.ProviderID))

	status := ""
	if !m.done && !m.closed {
		status = "  " + m.spinner.View()
	}

	return headerStyle.Render("arena") + "  " + left + " vs " + right + status
}

func (m Model) sideTitle(modelName, providerID string) string {
	if modelName == "" {
		return providerID
	}
	return modelName
}

// panesView renders both streaming panes side by side.
func (m Model) panesView() string {
	leftPane := m.paneView(m.leftVP.View(), m.left, leftTitleStyle)
	rightPane := m.paneView(m.rightVP.View(), m.right, rightTitleStyle)
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)
}

func (m Model) paneView(content string, state provider.StreamingState, title lipgloss.Style) string {
	status := title.Render(statusLine(state))
	body := status + "\n" + content
	if m.opts.CompactMode {
		return body
	}
	return paneStyle.Render(body)
}

// paneContent builds the text for one side's viewport.
func (m Model) paneContent(state provider.StreamingState) string {
	var b strings.Builder

	if m.opts.ShowThinking && state.Thinking != "" {
		b.WriteString(thinkingStyle.Render(state.Thinking))
		b.WriteString("\n\n")
	}
	b.WriteString(state.Content)

	if state.Phase == provider.PhaseError && state.Err != nil {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(statusErrStyle.Render(state.Err.Error()))
	}

	return b.String()
}

// statusLine maps a side state to its one-line status.
func statusLine(state provider.StreamingState) string {
	switch state.Phase {
	case provider.PhaseIdle:
		return "waiting"
	case provider.PhaseStarting:
		return "connecting..."
	case provider.PhaseStreaming:
		return "streaming"
	case provider.PhaseCompleted:
		return statusDoneStyle.Render("done")
	case provider.PhaseError:
		return statusErrStyle.Render("failed")
	case provider.PhaseCancelled:
		return statusWarnStyle.Render("cancelled")
	}
	return string(state.Phase)
}

// footerView shows the key hints for the current phase.
func (m Model) footerView() string {
	switch {
	case m.voteErr != nil:
		return statusErrStyle.Render(fmt.Sprintf("vote failed: %v", m.voteErr)) +
			footerStyle.Render("  ·  q quit")

	case m.voteResult != nil:
		return m.voteResultView()

	case m.persistErr != nil:
		return statusErrStyle.Render(fmt.Sprintf("battle could not be saved: %v", m.persistErr)) +
			footerStyle.Render("  ·  q quit")

	case m.done:
		return footerStyle.Render("vote: ") +
			keyStyle.Render("1") + footerStyle.Render(" left  ") +
			keyStyle.Render("2") + footerStyle.Render(" right  ") +
			keyStyle.Render("t") + footerStyle.Render(" tie  ") +
			keyStyle.Render("b") + footerStyle.Render(" both bad  ·  q skip")

	case m.closed:
		return statusWarnStyle.Render("battle cancelled, nothing recorded") +
			footerStyle.Render("  ·  q quit")

	default:
		return footerStyle.Render("streaming  ·  q cancel")
	}
}

// voteResultView shows both updated ratings after a vote.
func (m Model) voteResultView() string {
	r := m.voteResult
	return statusDoneStyle.Render("recorded "+r.Battle.Winner) +
		footerStyle.Render(fmt.Sprintf("  ·  %s %.1f  %s %.1f  ·  enter to quit",
			r.Left.ModelName, r.Left.EloRating,
			r.Right.ModelName, r.Right.EloRating))
}
