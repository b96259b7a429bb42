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
// OPENAI-COMPATIBLE STREAMING (SSE)
// =============================================================================

// MaxErrorBodySize caps how much of an error response body is read.
const MaxErrorBodySize = 64 * 1024

// openAIRequest is the request body for /chat/completions.
type openAIRequest struct {
	Model           string              `json:"model"`
	Messages        []model.ChatMessage `json:"messages"`
	Stream          bool                `json:"stream"`
	ReasoningEffort string              `json:"reasoning_effort,omitempty"`
}

// openAIChunk is a single SSE chunk from an OpenAI-compatible endpoint.
type openAIChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// apiErrorResponse is the error envelope shared by OpenAI-compatible APIs.
type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// streamOpenAI performs a streaming chat completion against an
// OpenAI-compatible endpoint, reporting deltas until [DONE] or finish_reason.
func (s *HTTPStreamer) streamOpenAI(ctx context.Context, p *Provider, messages []model.ChatMessage, modelName string, effort model.ReasoningEffort, emit deltaFunc) error {
	reqBody := openAIRequest{
		Model:           modelName,
		Messages:        messages,
		Stream:          true,
		ReasoningEffort: effort.String(),
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/chat/completions"), bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
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

		// Check for [DONE] signal
		if bytes.Equal(data, []byte("[DONE]")) {
			return nil
		}

		var chunk openAIChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip malformed chunks
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		emit(choice.Delta.Content, choice.Delta.ReasoningContent)

		if choice.FinishReason != "" {
			return nil
		}
	}
}

// readAPIError converts a non-200 response into an APIError, decoding the
// standard error envelope when present.
func readAPIError(p *Provider, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))

	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return &APIError{Provider: p.displayName(), Status: resp.StatusCode, Message: apiErr.Error.Message}
	}

	return &APIError{Provider: p.displayName(), Status: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
}
