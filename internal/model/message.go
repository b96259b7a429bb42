// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for arena battles and ratings.
package model

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser is a message written by the human.
	RoleUser Role = "user"

	// RoleAssistant is a message generated by a model.
	RoleAssistant Role = "assistant"

	// RoleSystem is an instruction message prepended to the conversation.
	RoleSystem Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ChatMessage represents a single message sent to a provider.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// =============================================================================
// REASONING EFFORT
// =============================================================================

// ReasoningEffort controls how much thinking budget a provider should spend.
type ReasoningEffort string

const (
	// EffortLow requests minimal reasoning.
	EffortLow ReasoningEffort = "low"

	// EffortMedium requests moderate reasoning.
	EffortMedium ReasoningEffort = "medium"

	// EffortHigh requests maximum reasoning. This is the default for battles.
	EffortHigh ReasoningEffort = "high"
)

// String returns the string representation of the effort level.
func (e ReasoningEffort) String() string {
	return string(e)
}

// ParseReasoningEffort converts a string to a ReasoningEffort.
// Unknown values fall back to EffortHigh.
func ParseReasoningEffort(s string) ReasoningEffort {
	switch s {
	case "low":
		return EffortLow
	case "medium":
		return EffortMedium
	case "high":
		return EffortHigh
	default:
		return EffortHigh
	}
}
