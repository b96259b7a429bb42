// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements streaming chat clients for LLM providers.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jeranaias/arena-tui/internal/model"
)

// =============================================================================
// ANTHROPIC STREAMING (EVENT-TYPED SSE)
// =============================================================================

// anthropicVersion is the required API version header.
const anthropicVersion = "2023-06-01"

// anthropicAnswerTokens is the generation headroom reserved for the final
// answer. The messages API requires max_tokens to exceed the thinking
// budget, so the cap is always budget + answer headroom.
const anthropicAnswerTokens = 8192

// Thinking token budgets per reasoning effort.
var anthropicThinkingBudget = map[model.ReasoningEffort]int{
	model.EffortLow:    1024,
	model.EffortMedium: 4096,
	model.EffortHigh:   16384,
}

// anthropicRequest is the request body for /v1/messages.
type anthropicRequest struct {
	Model     string              `json:"model"`
	Messages  []model.ChatMessage `json:"messages"`
	System    string              `json:"system,omitempty"`
	MaxTokens int                 `json:"max_tokens"`
	Stream    bool                `json:"stream"`
	Thinking  *anthropicThinking  `json:"thinking,omitempty"`
}

// anthropicThinking enables extended thinking with a token budget.
type anthropicThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

// anthropicEvent is the union of SSE event payloads we care about.
type anthropicEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type     string `json:"type"`
		Text     string `json:"text,omitempty"`
		Thinking string `json:"thinking,omitempty"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// streamAnthropic performs a streaming request against the Anthropic
// messages API. System messages are lifted into the top-level system field;
// thinking deltas are reported separately from text deltas.
func (s *HTTPStreamer) streamAnthropic(ctx context.Context, p *Provider, messages []model.ChatMessage, modelName string, effort model.ReasoningEffort, emit deltaFunc) error {
	var system string
	chat := make([]model.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == model.RoleSystem {
			system = m.Content
			continue
		}
		chat = append(chat, m)
	}

	reqBody := anthropicRequest{
		Model:     modelName,
		Messages:  chat,
		System:    system,
		MaxTokens: anthropicAnswerTokens,
		Stream:    true,
	}
	if budget, ok := anthropicThinkingBudget[effort]; ok {
		reqBody.Thinking = &anthropicThinking{Type: "enabled", BudgetTokens: budget}
		reqBody.MaxTokens = budget + anthropicAnswerTokens
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/v1/messages"), bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("anthropic-version", anthropicVersion)
	if p.APIKey != "" {
		req.Header.Set("x-api-key", p.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(p, resp)
	}

	reader := NewSSEReader(resp.Body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, data, err := reader.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var event anthropicEvent
		if err := json.Unmarshal(data, &event); err != nil {
			// Skip malformed events
			continue
		}

		switch event.Type {
		case "content_block_delta":
			switch event.Delta.Type {
			case "text_delta":
				emit(event.Delta.Text, "")
			case "thinking_delta":
				emit("", event.Delta.Thinking)
			}
		case "error":
			return &APIError{Provider: p.displayName(), Status: resp.StatusCode, Message: event.Error.Message}
		case "message_stop":
			return nil
		}
	}
}
