// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/arena-tui/internal/model"
	"github.com/jeranaias/arena-tui/internal/provider"
)

// =============================================================================
// FAKES
// =============================================================================

// scriptedStreamer hands each Stream call a channel the test feeds directly,
// keyed by model name, so tests control the exact interleaving of both sides.
type scriptedStreamer struct {
	mu       sync.Mutex
	streams  map[string]chan provider.StreamingState
	messages map[string][]model.ChatMessage
}

func newScriptedStreamer() *scriptedStreamer {
	return &scriptedStreamer{
		streams:  make(map[string]chan provider.StreamingState),
		messages: make(map[string][]model.ChatMessage),
	}
}

func (s *scriptedStreamer) Stream(_ context.Context, _ *provider.Provider, messages []model.ChatMessage, modelName string, _ model.ReasoningEffort) (<-chan provider.StreamingState, error) {
	ch := make(chan provider.StreamingState, 16)
	s.mu.Lock()
	s.streams[modelName] = ch
	s.messages[modelName] = messages
	s.mu.Unlock()
	return ch, nil
}

// sentMessages returns the conversation Stream received for the model.
func (s *scriptedStreamer) sentMessages(modelName string) []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages[modelName]
}

// waitStream blocks until Stream was called for the model.
func (s *scriptedStreamer) waitStream(t *testing.T, modelName string) chan provider.StreamingState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		ch, ok := s.streams[modelName]
		s.mu.Unlock()
		if ok {
			return ch
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("stream for %s never started", modelName)
	return nil
}

// failingStreamer rejects Stream calls for one model name and scripts the rest.
type failingStreamer struct {
	*scriptedStreamer
	failModel string
	failErr   error
}

func (s *failingStreamer) Stream(ctx context.Context, p *provider.Provider, msgs []model.ChatMessage, modelName string, effort model.ReasoningEffort) (<-chan provider.StreamingState, error) {
	if modelName == s.failModel {
		return nil, s.failErr
	}
	return s.scriptedStreamer.Stream(ctx, p, msgs, modelName, effort)
}

// memBattleStore is an in-memory BattleStore that counts inserts.
type memBattleStore struct {
	mu         sync.Mutex
	battles    map[string]model.ArenaBattle
	inserts    int
	failInsert error
}

func newMemBattleStore() *memBattleStore {
	return &memBattleStore{battles: make(map[string]model.ArenaBattle)}
}

func (s *memBattleStore) InsertBattle(b *model.ArenaBattle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert != nil {
		return s.failInsert
	}
	s.inserts++
	s.battles[b.ID] = *b
	return nil
}

func (s *memBattleStore) GetBattle(id string) (*model.ArenaBattle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.battles[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (s *memBattleStore) UpdateBattle(b *model.ArenaBattle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.battles[b.ID]; !ok {
		return fmt.Errorf("no battle %s", b.ID)
	}
	s.battles[b.ID] = *b
	return nil
}

func (s *memBattleStore) insertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

func testLookup() provider.Lookup {
	return provider.NewStaticLookup([]provider.Provider{
		{ID: "local", Name: "Local", Kind: provider.KindOllama, BaseURL: "http://localhost:11434"},
		{ID: "cloud", Name: "Cloud", Kind: provider.KindOpenAI, BaseURL: "https://api.example.com/v1", APIKey: "k"},
	})
}

func testRequest() BattleRequest {
	return BattleRequest{
		Prompt: "compare yourselves",
		Left:   model.BattleSide{ModelName: "alpha", ProviderID: "local"},
		Right:  model.BattleSide{ModelName: "beta", ProviderID: "cloud"},
	}
}

func recvSnapshot(t *testing.T, out <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-out:
		if !ok {
			t.Fatal("snapshot channel closed early")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot{}
}

func drainToClose(t *testing.T, out <-chan Snapshot) []Snapshot {
	t.Helper()
	var snaps []Snapshot
	for {
		select {
		case snap, ok := <-out:
			if !ok {
				return snaps
			}
			snaps = append(snaps, snap)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for channel close")
		}
	}
}

// =============================================================================
// TESTS
// =============================================================================

func TestRunBattleUnknownProvider(t *testing.T) {
	orch := NewOrchestrator(testLookup(), newScriptedStreamer(), newMemBattleStore())

	req := testRequest()
	req.Right.ProviderID = "nope"

	_, err := orch.RunBattle(context.Background(), req)
	require.Error(t, err)
	require.ErrorIs(t, err, provider.ErrProviderNotFound)
	require.Contains(t, err.Error(), "right provider")

	req = testRequest()
	req.Left.ProviderID = "nope"
	_, err = orch.RunBattle(context.Background(), req)
	require.ErrorIs(t, err, provider.ErrProviderNotFound)
	require.Contains(t, err.Error(), "left provider")
}

func TestBattleEmitsOnEitherSideChange(t *testing.T) {
	streamer := newScriptedStreamer()
	store := newMemBattleStore()
	orch := NewOrchestrator(testLookup(), streamer, store)

	out, err := orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)

	left := streamer.waitStream(t, "alpha")
	streamer.waitStream(t, "beta")

	// Three left-side updates while the right side is still silent. Each
	// one must surface immediately, without waiting on the right stream.
	left <- provider.StreamingState{Phase: provider.PhaseStarting}
	left <- provider.StreamingState{Phase: provider.PhaseStreaming, Content: "hel"}
	left <- provider.StreamingState{Phase: provider.PhaseStreaming, Content: "hello"}

	for _, wantContent := range []string{"", "hel", "hello"} {
		snap := recvSnapshot(t, out)
		require.Equal(t, wantContent, snap.Left.Content)
		require.Equal(t, provider.PhaseIdle, snap.Right.Phase)
		require.False(t, snap.Done)
	}
}

func TestBattleSystemPromptSentToBothSides(t *testing.T) {
	streamer := newScriptedStreamer()
	orch := NewOrchestrator(testLookup(), streamer, newMemBattleStore())

	req := testRequest()
	req.System = "answer in French"

	out, err := orch.RunBattle(context.Background(), req)
	require.NoError(t, err)

	for _, name := range []string{"alpha", "beta"} {
		ch := streamer.waitStream(t, name)
		msgs := streamer.sentMessages(name)
		require.Len(t, msgs, 2)
		require.Equal(t, model.RoleSystem, msgs[0].Role)
		require.Equal(t, "answer in French", msgs[0].Content)
		require.Equal(t, model.RoleUser, msgs[1].Role)
		require.Equal(t, req.Prompt, msgs[1].Content)
		ch <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "ok"}
		close(ch)
	}
	drainToClose(t, out)

	// Without a system prompt, only the user message is sent.
	streamer = newScriptedStreamer()
	orch = NewOrchestrator(testLookup(), streamer, newMemBattleStore())
	out, err = orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)
	ch := streamer.waitStream(t, "alpha")
	msgs := streamer.sentMessages("alpha")
	require.Len(t, msgs, 1)
	require.Equal(t, model.RoleUser, msgs[0].Role)
	close(ch)
	close(streamer.waitStream(t, "beta"))
	drainToClose(t, out)
}

func TestBattlePersistsOnceAfterBothComplete(t *testing.T) {
	streamer := newScriptedStreamer()
	store := newMemBattleStore()
	orch := NewOrchestrator(testLookup(), streamer, store)

	out, err := orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)

	left := streamer.waitStream(t, "alpha")
	right := streamer.waitStream(t, "beta")

	left <- provider.StreamingState{Phase: provider.PhaseStreaming, Content: "left answer"}
	left <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "left answer"}
	close(left)

	// Left is done but right is still streaming. Nothing may be written yet.
	snap := recvSnapshot(t, out)
	for snap.Left.Phase != provider.PhaseCompleted {
		snap = recvSnapshot(t, out)
	}
	require.Equal(t, 0, store.insertCount())

	right <- provider.StreamingState{Phase: provider.PhaseStreaming, Content: "right answer", Thinking: "hmm"}
	right <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "right answer", Thinking: "hmm"}
	close(right)

	snaps := drainToClose(t, out)
	require.NotEmpty(t, snaps)

	final := snaps[len(snaps)-1]
	require.True(t, final.Done)
	require.NoError(t, final.Err)

	require.Equal(t, 1, store.insertCount())
	saved, err := store.GetBattle(final.BattleID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, "left answer", saved.LeftResponse)
	require.Equal(t, "right answer", saved.RightResponse)
	require.Equal(t, "hmm", saved.RightThinkingContent)
	require.Equal(t, "alpha", saved.LeftModelName)
	require.Equal(t, "cloud", saved.RightProviderID)
	require.Empty(t, saved.Winner)
}

func TestBattleCancellationWritesNothing(t *testing.T) {
	streamer := newScriptedStreamer()
	store := newMemBattleStore()
	orch := NewOrchestrator(testLookup(), streamer, store)

	out, err := orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)

	left := streamer.waitStream(t, "alpha")
	right := streamer.waitStream(t, "beta")

	left <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "done"}
	close(left)
	right <- provider.StreamingState{Phase: provider.PhaseCancelled, Content: "partial"}
	close(right)

	snaps := drainToClose(t, out)
	for _, snap := range snaps {
		require.False(t, snap.Done)
	}
	require.Equal(t, 0, store.insertCount())
}

func TestBattleSideErrorIsContained(t *testing.T) {
	streamer := newScriptedStreamer()
	store := newMemBattleStore()
	orch := NewOrchestrator(testLookup(), streamer, store)

	out, err := orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)

	left := streamer.waitStream(t, "alpha")
	right := streamer.waitStream(t, "beta")

	// The left side dies with no output at all; the right side finishes
	// normally and the battle is still recorded.
	left <- provider.StreamingState{Phase: provider.PhaseError, Err: errors.New("connection refused")}
	close(left)
	right <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "fine"}
	close(right)

	snaps := drainToClose(t, out)
	final := snaps[len(snaps)-1]
	require.True(t, final.Done)
	require.NoError(t, final.Err)

	saved, err := store.GetBattle(final.BattleID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Contains(t, saved.LeftResponse, "connection refused")
	require.Equal(t, "fine", saved.RightResponse)
}

func TestBattleSideErrorKeepsPartialOutput(t *testing.T) {
	streamer := newScriptedStreamer()
	store := newMemBattleStore()
	orch := NewOrchestrator(testLookup(), streamer, store)

	out, err := orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)

	left := streamer.waitStream(t, "alpha")
	right := streamer.waitStream(t, "beta")

	left <- provider.StreamingState{Phase: provider.PhaseError, Content: "half an ans", Err: errors.New("stream reset")}
	close(left)
	right <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "fine"}
	close(right)

	snaps := drainToClose(t, out)
	final := snaps[len(snaps)-1]
	require.True(t, final.Done)

	saved, err := store.GetBattle(final.BattleID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, "half an ans", saved.LeftResponse)
}

func TestBattleStreamStartFailure(t *testing.T) {
	inner := newScriptedStreamer()
	streamer := &failingStreamer{
		scriptedStreamer: inner,
		failModel:        "alpha",
		failErr:          errors.New("dial tcp: refused"),
	}
	store := newMemBattleStore()
	orch := NewOrchestrator(testLookup(), streamer, store)

	out, err := orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)

	right := inner.waitStream(t, "beta")
	right <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "ok"}
	close(right)

	snaps := drainToClose(t, out)
	final := snaps[len(snaps)-1]
	require.True(t, final.Done)
	require.Equal(t, provider.PhaseError, final.Left.Phase)
	require.Equal(t, 1, store.insertCount())

	saved, err := store.GetBattle(final.BattleID)
	require.NoError(t, err)
	require.Contains(t, saved.LeftResponse, "dial tcp")
}

func TestBattlePersistFailureReported(t *testing.T) {
	streamer := newScriptedStreamer()
	store := newMemBattleStore()
	store.failInsert = errors.New("disk full")
	orch := NewOrchestrator(testLookup(), streamer, store)

	out, err := orch.RunBattle(context.Background(), testRequest())
	require.NoError(t, err)

	left := streamer.waitStream(t, "alpha")
	right := streamer.waitStream(t, "beta")

	left <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "a"}
	close(left)
	right <- provider.StreamingState{Phase: provider.PhaseCompleted, Content: "b"}
	close(right)

	snaps := drainToClose(t, out)
	final := snaps[len(snaps)-1]
	require.True(t, final.Done)
	require.ErrorContains(t, final.Err, "disk full")
}
