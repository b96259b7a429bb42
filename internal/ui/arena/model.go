// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package arena provides the interactive dual-pane battle view.
//
// Both contenders stream side by side in bordered viewports; once both
// sides finish, the footer switches to vote keys (1/2/t/b) and a vote is
// applied in place. The view consumes the orchestrator's snapshot channel
// through Bubble Tea messages, one message per combined snapshot.
package arena

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/arena-tui/internal/arena"
	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/provider"
)

// Options configures the battle view.
type Options struct {
	// ShowThinking renders a dimmed thinking pane above each answer for
	// models that emit reasoning.
	ShowThinking bool

	// CompactMode drops the pane borders to maximize content space.
	CompactMode bool
}

// Run starts a battle and blocks in the interactive view until the user
// quits. The battle context is cancelled when the view exits early, so a
// quit during streaming abandons the battle without recording it.
func Run(orch *arena.Orchestrator, engine *arena.RatingEngine, req arena.BattleRequest, opts Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := orch.RunBattle(ctx, req)
	if err != nil {
		return err
	}

	m := newModel(engine, req, snapshots, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// =============================================================================
// MESSAGES
// =============================================================================

// snapshotMsg delivers one combined battle snapshot to the view.
type snapshotMsg arena.Snapshot

// streamClosedMsg signals that the snapshot channel was closed.
type streamClosedMsg struct{}

// =============================================================================
// BATTLE VIEW MODEL
// =============================================================================

// Model is the Bubble Tea model for the battle view.
type Model struct {
	// Collaborators
	engine    *arena.RatingEngine
	snapshots <-chan arena.Snapshot

	// Battle identity
	req      arena.BattleRequest
	battleID string

	// Per-side streaming state
	left  provider.StreamingState
	right provider.StreamingState

	// Outcome
	done       bool
	closed     bool
	persistErr error
	voteResult *arena.VoteResult
	voteErr    error

	// UI components
	leftVP  viewport.Model
	rightVP viewport.Model
	spinner spinner.Model

	// Dimensions
	width  int
	height int

	// Configuration
	opts Options

	startTime time.Time
}

func newModel(engine *arena.RatingEngine, req arena.BattleRequest, snapshots <-chan arena.Snapshot, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return Model{
		engine:    engine,
		snapshots: snapshots,
		req:       req,
		left:      provider.Idle(),
		right:     provider.Idle(),
		leftVP:    viewport.New(0, 0),
		rightVP:   viewport.New(0, 0),
		spinner:   s,
		opts:      opts,
		startTime: time.Now(),
	}
}

// Init starts the spinner and the snapshot pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSnapshot())
}

// waitForSnapshot reads the next snapshot from the orchestrator.
func (m Model) waitForSnapshot() tea.Cmd {
	ch := m.snapshots
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Update handles messages for the battle view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewports()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		m.left = msg.Left
		m.right = msg.Right
		if msg.Done {
			m.done = true
			m.battleID = msg.BattleID
			m.persistErr = msg.Err
		}
		m.refreshViewports()
		return m, m.waitForSnapshot()

	case streamClosedMsg:
		m.closed = true
		// Channel closed without a final snapshot means the battle was
		// cancelled; fall through to the view's cancelled footer.
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey routes key presses by view phase.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		// Quitting tears down the battle context via Run's defer.
		return m, tea.Quit
	}

	// Vote keys only arm after the battle is recorded.
	if m.done && m.persistErr == nil && m.voteResult == nil {
		var vote model.ArenaVote
		switch msg.String() {
		case "1":
			vote = model.VoteLeft
		case "2":
			vote = model.VoteRight
		case "t":
			vote = model.VoteTie
		case "b":
			vote = model.VoteBothBad
		default:
			return m.handleScroll(msg)
		}
		m.voteResult, m.voteErr = m.engine.Vote(m.battleID, vote)
		return m, nil
	}

	if m.voteResult != nil && msg.String() == "enter" {
		return m, tea.Quit
	}

	return m.handleScroll(msg)
}

// handleScroll forwards scroll keys to both panes.
func (m Model) handleScroll(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var leftCmd, rightCmd tea.Cmd
	m.leftVP, leftCmd = m.leftVP.Update(msg)
	m.rightVP, rightCmd = m.rightVP.Update(msg)
	return m, tea.Batch(leftCmd, rightCmd)
}

// resizeViewports recomputes pane dimensions from the window size.
func (m *Model) resizeViewports() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	// Header, footer, and pane chrome eat fixed rows.
	chrome := 6
	if m.opts.CompactMode {
		chrome = 4
	}

	paneWidth := (m.width - 4) / 2
	paneHeight := m.height - chrome
	if paneWidth < 10 {
		paneWidth = 10
	}
	if paneHeight < 3 {
		paneHeight = 3
	}

	m.leftVP.Width = paneWidth
	m.leftVP.Height = paneHeight
	m.rightVP.Width = paneWidth
	m.rightVP.Height = paneHeight
	m.refreshViewports()
}

// refreshViewports re-renders pane content and follows the stream tail.
func (m *Model) refreshViewports() {
	leftAtBottom := m.leftVP.AtBottom()
	rightAtBottom := m.rightVP.AtBottom()

	m.leftVP.SetContent(m.paneContent(m.left))
	m.rightVP.SetContent(m.paneContent(m.right))

	// Follow output as it streams, but respect a reader who scrolled up.
	if leftAtBottom {
		m.leftVP.GotoBottom()
	}
	if rightAtBottom {
		m.rightVP.GotoBottom()
	}
}
