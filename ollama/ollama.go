// Package ollama implements [distill.Decoder] and [distill.Opener] for the
// Ollama chat API.
//
// Ollama streams newline-delimited JSON objects without an SSE envelope. The
// text lives at message.content; the older generate endpoint puts it at
// response instead. A done:true object marks the end but the stream is
// finished only when the connection closes.
package ollama

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1"
	chatPath       = "/api/chat"
)

// apiRequest is the JSON body sent to /api/chat.
type apiRequest struct {
	Model    string       `json:"model"`
	Messages []apiMessage `json:"messages"`
	Stream   bool         `json:"stream"`
	Format   string       `json:"format,omitempty"`
	Options  *apiOptions  `json:"options,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}
