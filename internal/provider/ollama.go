// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements streaming chat clients for LLM providers.
package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jeranaias/arena-tui/internal/model"
)

// =============================================================================
// OLLAMA STREAMING (NDJSON)
// =============================================================================

// ollamaRequest is the request body for Ollama's /api/chat endpoint.
type ollamaRequest struct {
	Model    string              `json:"model"`
	Messages []model.ChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

// ollamaChunk is one newline-delimited JSON object from /api/chat.
type ollamaChunk struct {
	Model   string `json:"model"`
	Message struct {
		Role     string `json:"role"`
		Content  string `json:"content"`
		Thinking string `json:"thinking,omitempty"`
	} `json:"message"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// streamOllama performs a streaming chat request against an Ollama server,
// reading line-delimited JSON chunks until a chunk with done=true.
func (s *HTTPStreamer) streamOllama(ctx context.Context, p *Provider, messages []model.ChatMessage, modelName string, emit deltaFunc) error {
	reqBody := ollamaRequest{
		Model:    modelName,
		Messages: messages,
		Stream:   true,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/api/chat"), bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(p, resp)
	}

	reader := bufio.NewReader(resp.Body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(bytes.TrimSpace(line)) == 0 {
					return nil
				}
				// Fall through to process the last unterminated line
			} else {
				return err
			}
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var chunk ollamaChunk
		if jsonErr := json.Unmarshal(line, &chunk); jsonErr != nil {
			// Skip malformed lines
			continue
		}

		if chunk.Error != "" {
			return &APIError{Provider: p.displayName(), Status: http.StatusOK, Message: chunk.Error}
		}

		emit(chunk.Message.Content, chunk.Message.Thinking)

		if chunk.Done {
			return nil
		}

		if err == io.EOF {
			return nil
		}
	}
}
