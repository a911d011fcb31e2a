package distill

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderClaude     Provider = "claude"
	ProviderDeepSeek   Provider = "deepseek"
	ProviderOllama     Provider = "ollama"
	ProviderOpenRouter Provider = "openrouter"
	ProviderGemini     Provider = "gemini"
)

// Providers lists every supported provider in display order.
func Providers() []Provider {
	return []Provider{
		ProviderOpenAI,
		ProviderClaude,
		ProviderDeepSeek,
		ProviderOllama,
		ProviderOpenRouter,
		ProviderGemini,
	}
}

// Family groups providers sharing one wire format.
type Family int

const (
	FamilyOpenAI Family = iota // "data: {json}" lines terminated by "data: [DONE]".
	FamilyClaude               // "event:"/"data:" pairs, ends on reader exhaustion.
	FamilyOllama               // Newline-delimited JSON, ends on reader exhaustion.
	FamilyGemini               // "data: {json}" lines, ends on reader exhaustion.
)

func (f Family) String() string {
	switch f {
	case FamilyOpenAI:
		return "openai"
	case FamilyClaude:
		return "claude"
	case FamilyOllama:
		return "ollama"
	case FamilyGemini:
		return "gemini"
	default:
		return "unknown"
	}
}

// Family returns the wire-format family of p.
func (p Provider) Family() Family {
	switch p {
	case ProviderClaude:
		return FamilyClaude
	case ProviderOllama:
		return FamilyOllama
	case ProviderGemini:
		return FamilyGemini
	default:
		return FamilyOpenAI
	}
}

// ParseProvider resolves a provider name. Matching is case-insensitive and
// "anthropic" is accepted for Claude.
func ParseProvider(name string) (Provider, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "anthropic" {
		return ProviderClaude, nil
	}
	for _, p := range Providers() {
		if string(p) == n {
			return p, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownProvider)
}

// Request carries model selection and generation parameters.
// The opener uses its own defaults when fields are zero/nil.
type Request struct {
	Model        string // model ID, provider-specific; empty = opener default
	SystemPrompt string
	Prompt       string
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
}

// Opener starts a streaming request and returns the raw response body.
// Non-2xx responses and network failures are reported as *TransportError.
// The caller owns the returned body and must close it.
type Opener interface {
	Open(ctx context.Context, req Request) (io.ReadCloser, error)
}
