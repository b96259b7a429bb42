// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// PROVIDER KINDS
// =============================================================================

// Kind identifies the wire protocol a provider speaks.
type Kind string

const (
	// KindOpenAI is any OpenAI-compatible chat completions endpoint.
	// Covers OpenAI itself plus the many proxies that mimic its API.
	KindOpenAI Kind = "openai"

	// KindOllama is a local or remote Ollama server (NDJSON streaming).
	KindOllama Kind = "ollama"

	// KindAnthropic is the Anthropic messages API (event-typed SSE).
	KindAnthropic Kind = "anthropic"
)

// Valid reports whether the kind is one of the supported protocols.
func (k Kind) Valid() bool {
	switch k {
	case KindOpenAI, KindOllama, KindAnthropic:
		return true
	}
	return false
}

// =============================================================================
// PROVIDER CONFIGURATION
// =============================================================================

// Provider is the configuration for one chat endpoint.
type Provider struct {
	// ID is the stable identifier used in battle records and CLI flags.
	ID string

	// Name is the human-readable display name.
	Name string

	// Kind selects the wire protocol.
	Kind Kind

	// BaseURL is the endpoint root, without a trailing slash.
	// Examples: "https://api.openai.com/v1", "http://localhost:11434".
	BaseURL string

	// APIKey authenticates requests. Empty is valid for local Ollama.
	APIKey string

	// DefaultModel is used when a battle side names no model explicitly.
	DefaultModel string
}

// Errors shared by the provider layer.
var (
	// ErrProviderNotFound indicates a provider ID that does not resolve.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrNotConfigured indicates a provider that requires an API key but has none.
	ErrNotConfigured = errors.New("provider API key not configured")

	// ErrUnsupportedKind indicates a provider kind with no streaming client.
	ErrUnsupportedKind = errors.New("unsupported provider kind")
)

// Validate checks the provider configuration for obvious mistakes.
func (p *Provider) Validate() error {
	if p.ID == "" {
		return errors.New("provider id must not be empty")
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedKind, p.Kind)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("provider %s: base URL must not be empty", p.ID)
	}
	return nil
}

// endpoint joins the base URL with a path.
func (p *Provider) endpoint(path string) string {
	return strings.TrimSuffix(p.BaseURL, "/") + path
}

// displayName returns the provider's name for error messages, falling back
// to the ID when no display name is configured.
func (p *Provider) displayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// =============================================================================
// PROVIDER LOOKUP
// =============================================================================

// Lookup resolves provider IDs to configurations.
// The battle orchestrator resolves both sides through this interface before
// starting any streams.
type Lookup interface {
	// GetProvider returns the provider for the given ID, or
	// ErrProviderNotFound if the ID does not resolve.
	GetProvider(id string) (*Provider, error)
}

// StaticLookup is a Lookup backed by an in-memory provider list.
type StaticLookup struct {
	providers map[string]*Provider
}

// NewStaticLookup builds a lookup from a provider slice.
// Later entries with a duplicate ID override earlier ones.
func NewStaticLookup(providers []Provider) *StaticLookup {
	m := make(map[string]*Provider, len(providers))
	for i := range providers {
		p := providers[i]
		m[p.ID] = &p
	}
	return &StaticLookup{providers: m}
}

// GetProvider implements Lookup.
func (l *StaticLookup) GetProvider(id string) (*Provider, error) {
	p, ok := l.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, id)
	}
	return p, nil
}

// IDs returns the known provider IDs, sorted.
func (l *StaticLookup) IDs() []string {
	ids := make([]string, 0, len(l.providers))
	for id := range l.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
