package anthropic

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

// Client implements [distill.Opener] for the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
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

// WithMaxTokens sets max_tokens for requests that leave MaxTokens zero.
// The Messages API requires the field.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// New creates a new Anthropic [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		maxTokens:  defaultMaxTokens,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open sends a streaming request to the Messages API.
func (c *Client) Open(ctx context.Context, req distill.Request) (io.ReadCloser, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	headers := http.Header{}
	headers.Set("Accept", "text/event-stream")
	headers.Set("X-Api-Key", c.apiKey)
	headers.Set("Anthropic-Version", apiVersion)
	return transport.Post(ctx, c.httpClient, distill.ProviderClaude, c.baseURL+messagesPath, headers, body)
}

func (c *Client) buildRequest(req distill.Request) apiRequest {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	return apiRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Stream:      true,
		System:      req.SystemPrompt,
		Messages:    []apiMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}
}
