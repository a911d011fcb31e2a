package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/anthropic"
	"github.com/fwojciec/distill/config"
	"github.com/fwojciec/distill/gemini"
	"github.com/fwojciec/distill/ollama"
	"github.com/fwojciec/distill/openai"
)

// resolveProvider selects the provider: the flag wins, then the config
// file's default, then the only provider that has credentials.
func resolveProvider(providerFlag string, cfg *config.Config, getenv config.Getenv) (distill.Provider, error) {
	name := providerFlag
	if name == "" {
		name = cfg.Provider
	}
	if name != "" {
		return distill.ParseProvider(name)
	}

	configured := cfg.Configured(getenv)
	switch len(configured) {
	case 0:
		return "", fmt.Errorf("no provider configured: set an API key such as OPENAI_API_KEY or ANTHROPIC_API_KEY (or use --provider)")
	case 1:
		return configured[0], nil
	default:
		names := make([]string, len(configured))
		for i, p := range configured {
			names[i] = string(p)
		}
		return "", fmt.Errorf("multiple providers configured (%s): use --provider to select", strings.Join(names, ", "))
	}
}

// decoderFor returns the line decoder of p's wire-format family.
func decoderFor(p distill.Provider) distill.Decoder {
	switch p.Family() {
	case distill.FamilyClaude:
		return anthropic.Decoder{}
	case distill.FamilyOllama:
		return ollama.Decoder{}
	case distill.FamilyGemini:
		return gemini.Decoder{}
	default:
		return openai.Decoder{}
	}
}

// openerFor constructs the client for p. jsonMode asks providers that support
// it for a JSON response.
func openerFor(p distill.Provider, pc config.ProviderConfig, jsonMode bool) (distill.Opener, error) {
	if pc.APIKey == "" && p != distill.ProviderOllama {
		return nil, fmt.Errorf("%s: no API key: set %s or providers.%s.api_key", p, config.EnvKey(p), p)
	}

	switch p {
	case distill.ProviderOpenAI, distill.ProviderDeepSeek, distill.ProviderOpenRouter:
		var opts []openai.Option
		if pc.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pc.BaseURL))
		}
		if pc.Model != "" {
			opts = append(opts, openai.WithModel(pc.Model))
		}
		switch p {
		case distill.ProviderDeepSeek:
			return openai.NewDeepSeek(pc.APIKey, opts...), nil
		case distill.ProviderOpenRouter:
			opts = append(opts, openai.WithHeader("X-Title", "distill"))
			return openai.NewOpenRouter(pc.APIKey, opts...), nil
		default:
			return openai.New(pc.APIKey, opts...), nil
		}

	case distill.ProviderClaude:
		var opts []anthropic.Option
		if pc.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(pc.BaseURL))
		}
		if pc.Model != "" {
			opts = append(opts, anthropic.WithModel(pc.Model))
		}
		return anthropic.New(pc.APIKey, opts...), nil

	case distill.ProviderGemini:
		var opts []gemini.Option
		if pc.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(pc.BaseURL))
		}
		if pc.Model != "" {
			opts = append(opts, gemini.WithModel(pc.Model))
		}
		if jsonMode {
			opts = append(opts, gemini.WithJSONMode())
		}
		return gemini.New(pc.APIKey, opts...), nil

	case distill.ProviderOllama:
		var opts []ollama.Option
		if pc.BaseURL != "" {
			opts = append(opts, ollama.WithBaseURL(pc.BaseURL))
		}
		if pc.Model != "" {
			opts = append(opts, ollama.WithModel(pc.Model))
		}
		if pc.APIKey != "" {
			opts = append(opts, ollama.WithAPIKey(pc.APIKey))
		}
		if jsonMode {
			opts = append(opts, ollama.WithJSONMode())
		}
		return ollama.New(opts...), nil
	}
	return nil, fmt.Errorf("%q: %w", p, distill.ErrUnknownProvider)
}
