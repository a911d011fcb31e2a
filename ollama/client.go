package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/transport"
)

// Interface compliance check.
var _ distill.Opener = (*Client)(nil)

// Client implements [distill.Opener] for a local or remote Ollama server.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	jsonMode   bool
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the server URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithModel sets the model used when a request leaves Model empty.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithAPIKey sets a bearer token for servers behind an authenticating proxy.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithJSONMode sets format=json on every request.
func WithJSONMode() Option {
	return func(c *Client) { c.jsonMode = true }
}

// New creates a new Ollama [Client].
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open sends a streaming chat request.
func (c *Client) Open(ctx context.Context, req distill.Request) (io.ReadCloser, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	headers := http.Header{}
	headers.Set("Accept", "application/x-ndjson")
	if c.apiKey != "" {
		headers.Set("Authorization", "Bearer "+c.apiKey)
	}
	return transport.Post(ctx, c.httpClient, distill.ProviderOllama, c.baseURL+chatPath, headers, body)
}

func (c *Client) buildRequest(req distill.Request) apiRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}
	var msgs []apiMessage
	if req.SystemPrompt != "" {
		msgs = append(msgs, apiMessage{Role: "system", Content: req.SystemPrompt})
	}
	msgs = append(msgs, apiMessage{Role: "user", Content: req.Prompt})
	r := apiRequest{
		Model:    model,
		Messages: msgs,
		Stream:   true,
	}
	if c.jsonMode {
		r.Format = "json"
	}
	if req.Temperature != nil || req.MaxTokens > 0 {
		r.Options = &apiOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}
	return r
}
