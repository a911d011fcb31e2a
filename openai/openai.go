// Package openai implements [distill.Decoder] and [distill.Opener] for the
// OpenAI chat completions wire format. DeepSeek and OpenRouter speak the same
// format and are served by presets of the same [Client].
//
// Frames are "data: {json}" lines; the text lives at
// choices[0].delta.content and the stream ends with "data: [DONE]".
package openai

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	deepSeekBaseURL   = "https://api.deepseek.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	defaultModel    = "gpt-4o-mini"
	deepSeekModel   = "deepseek-chat"
	openRouterModel = "openai/gpt-4o-mini"

	completionsPath = "/chat/completions"
	doneSentinel    = "[DONE]"
	contentPath     = "choices.0.delta.content"
)

// apiRequest is the JSON body sent to the chat completions endpoint.
type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Stream      bool         `json:"stream"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
