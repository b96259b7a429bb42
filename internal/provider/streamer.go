// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements streaming chat clients for LLM providers.
package provider

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/arena-tui/internal/model"
)

// =============================================================================
// SHARED HTTP CLIENT
// =============================================================================

// sharedStreamingClient is used for all streaming requests.
// No client timeout: stream lifetime is controlled via context.
// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// Default per-provider request rate: bursty but bounded, enough for an
// interactive tool while staying under every provider's public limits.
const (
	defaultRequestsPerSecond = 2
	defaultBurst             = 4
)

// =============================================================================
// API ERRORS
// =============================================================================

// APIError represents a non-200 response from a provider.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Provider, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error (HTTP %d)", e.Provider, e.Status)
}

// =============================================================================
// STREAMER
// =============================================================================

// Streamer sends a message list to a provider and streams the reply.
type Streamer interface {
	// Stream starts a streaming chat request. The returned channel walks
	// Starting -> Streaming* -> terminal and is closed after the terminal
	// state. A nil channel and non-nil error mean the request never started.
	Stream(ctx context.Context, p *Provider, messages []model.ChatMessage, modelName string, effort model.ReasoningEffort) (<-chan StreamingState, error)
}

// deltaFunc receives incremental content and thinking text from a protocol
// parser. Either argument may be empty.
type deltaFunc func(content, thinking string)

// HTTPStreamer is the production Streamer. It dispatches on provider kind
// and applies a per-provider rate limit before each request.
type HTTPStreamer struct {
	client *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPStreamer creates a streamer using the shared pooled HTTP client.
func NewHTTPStreamer() *HTTPStreamer {
	return &HTTPStreamer{
		client:   sharedStreamingClient,
		limiters: make(map[string]*rate.Limiter),
	}
}

// NewHTTPStreamerWithClient creates a streamer with a custom HTTP client.
// Used by tests to point at httptest servers.
func NewHTTPStreamerWithClient(client *http.Client) *HTTPStreamer {
	return &HTTPStreamer{
		client:   client,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiter returns the rate limiter for a provider, creating it on first use.
func (s *HTTPStreamer) limiter(id string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	lim, ok := s.limiters[id]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst)
		s.limiters[id] = lim
	}
	return lim
}

// Stream implements Streamer.
func (s *HTTPStreamer) Stream(ctx context.Context, p *Provider, messages []model.ChatMessage, modelName string, effort model.ReasoningEffort) (<-chan StreamingState, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = p.DefaultModel
	}
	if modelName == "" {
		return nil, fmt.Errorf("provider %s: no model specified and no default model", p.ID)
	}

	out := make(chan StreamingState, 16)
	go s.run(ctx, p, messages, modelName, effort, out)
	return out, nil
}

// run drives one streaming request to its terminal state.
func (s *HTTPStreamer) run(ctx context.Context, p *Provider, messages []model.ChatMessage, modelName string, effort model.ReasoningEffort, out chan<- StreamingState) {
	defer close(out)

	out <- StreamingState{Phase: PhaseStarting}

	// Each parser reports raw deltas; the accumulated view is built here so
	// every emitted state carries the full content so far.
	var content, thinking strings.Builder
	emit := func(c, t string) {
		if c == "" && t == "" {
			return
		}
		content.WriteString(c)
		thinking.WriteString(t)
		out <- StreamingState{
			Phase:    PhaseStreaming,
			Content:  content.String(),
			Thinking: thinking.String(),
		}
	}

	err := s.limiter(p.ID).Wait(ctx)
	if err == nil {
		switch p.Kind {
		case KindOpenAI:
			err = s.streamOpenAI(ctx, p, messages, modelName, effort, emit)
		case KindOllama:
			err = s.streamOllama(ctx, p, messages, modelName, emit)
		case KindAnthropic:
			err = s.streamAnthropic(ctx, p, messages, modelName, effort, emit)
		default:
			err = fmt.Errorf("%w: %q", ErrUnsupportedKind, p.Kind)
		}
	}

	switch {
	case err == nil:
		out <- StreamingState{
			Phase:    PhaseCompleted,
			Content:  content.String(),
			Thinking: thinking.String(),
		}
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		out <- StreamingState{
			Phase:    PhaseCancelled,
			Content:  content.String(),
			Thinking: thinking.String(),
		}
	default:
		out <- StreamingState{
			Phase:    PhaseError,
			Content:  content.String(),
			Thinking: thinking.String(),
			Err:      err,
		}
	}
}
