// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

// =============================================================================
// STREAMING STATE
// =============================================================================

// Phase is the discriminant of the StreamingState union.
type Phase string

const (
	// PhaseIdle is the zero state before a query starts.
	PhaseIdle Phase = "idle"

	// PhaseStarting means the request is in flight but no token has arrived.
	PhaseStarting Phase = "starting"

	// PhaseStreaming means partial content is accumulating.
	PhaseStreaming Phase = "streaming"

	// PhaseCompleted means the stream finished normally.
	PhaseCompleted Phase = "completed"

	// PhaseError means the stream failed; Content holds any partial output.
	PhaseError Phase = "error"

	// PhaseCancelled means the context was cancelled mid-stream.
	PhaseCancelled Phase = "cancelled"
)

// StreamingState is one observation of a side's streaming progress.
// Content always carries the full accumulated text so far, not a delta;
// Thinking carries accumulated reasoning text for models that emit it.
type StreamingState struct {
	Phase    Phase
	Content  string
	Thinking string

	// Err is set only when Phase is PhaseError.
	Err error
}

// Idle returns the zero streaming state.
func Idle() StreamingState {
	return StreamingState{Phase: PhaseIdle}
}

// Terminal reports whether the state ends the stream.
func (s StreamingState) Terminal() bool {
	switch s.Phase {
	case PhaseCompleted, PhaseError, PhaseCancelled:
		return true
	}
	return false
}

// Failed reports whether the state is an error terminal.
func (s StreamingState) Failed() bool {
	return s.Phase == PhaseError
}
