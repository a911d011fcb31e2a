// Package anthropic implements [distill.Decoder] and [distill.Opener] for the
// Anthropic Messages API.
//
// The stream is SSE with named events. Only content_block_delta events carry
// text; every other event, including message_stop, is skipped and the stream
// ends when the connection closes.
package anthropic

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 8192
	apiVersion       = "2023-06-01"
	messagesPath     = "/v1/messages"

	eventPrefix    = "event:"
	deltaEventType = "content_block_delta"
)

// apiRequest is the JSON body sent to the Anthropic Messages API.
type apiRequest struct {
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens"`
	Stream      bool         `json:"stream"`
	System      string       `json:"system,omitempty"`
	Messages    []apiMessage `json:"messages"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
