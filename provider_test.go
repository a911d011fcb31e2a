package distill_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want distill.Provider
	}{
		{"openai", distill.ProviderOpenAI},
		{"OpenAI", distill.ProviderOpenAI},
		{"claude", distill.ProviderClaude},
		{"anthropic", distill.ProviderClaude},
		{"deepseek", distill.ProviderDeepSeek},
		{" ollama ", distill.ProviderOllama},
		{"openrouter", distill.ProviderOpenRouter},
		{"gemini", distill.ProviderGemini},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := distill.ParseProvider(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProvider_Unknown(t *testing.T) {
	t.Parallel()
	_, err := distill.ParseProvider("mistral")
	require.ErrorIs(t, err, distill.ErrUnknownProvider)
	assert.Contains(t, err.Error(), "mistral")
}

func TestProvider_Family(t *testing.T) {
	t.Parallel()
	assert.Equal(t, distill.FamilyOpenAI, distill.ProviderOpenAI.Family())
	assert.Equal(t, distill.FamilyOpenAI, distill.ProviderDeepSeek.Family())
	assert.Equal(t, distill.FamilyOpenAI, distill.ProviderOpenRouter.Family())
	assert.Equal(t, distill.FamilyClaude, distill.ProviderClaude.Family())
	assert.Equal(t, distill.FamilyOllama, distill.ProviderOllama.Family())
	assert.Equal(t, distill.FamilyGemini, distill.ProviderGemini.Family())
}

func TestProviders_AllParse(t *testing.T) {
	t.Parallel()
	for _, p := range distill.Providers() {
		got, err := distill.ParseProvider(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestRequest_ZeroValue(t *testing.T) {
	t.Parallel()
	var r distill.Request
	assert.Empty(t, r.Model)
	assert.Empty(t, r.SystemPrompt)
	assert.Empty(t, r.Prompt)
	assert.Equal(t, 0, r.MaxTokens)
	assert.Nil(t, r.Temperature)
}
