// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements streaming chat clients for LLM providers.
//
// Three wire protocols are supported:
//
//   - OpenAI-compatible endpoints (SSE, /v1/chat/completions)
//   - Ollama (newline-delimited JSON, /api/chat)
//   - Anthropic (event-typed SSE, /v1/messages)
//
// All three are exposed through one capability: Streamer.Stream sends a
// message list to a provider and returns a channel of StreamingState values
// that walk the state machine
//
//	Starting -> Streaming* -> Completed | Error | Cancelled
//
// The channel is closed after the terminal state. Parsing errors on
// individual chunks are skipped; transport errors surface as an Error state
// carrying whatever partial content was received.
package provider
