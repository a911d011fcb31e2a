package openai

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

// Client implements [distill.Opener] for OpenAI-compatible chat completions.
type Client struct {
	provider   distill.Provider
	apiKey     string
	baseURL    string
	model      string
	headers    http.Header
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

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// New creates a [Client] for the OpenAI API.
func New(apiKey string, opts ...Option) *Client {
	return newClient(distill.ProviderOpenAI, apiKey, defaultBaseURL, defaultModel, opts)
}

// NewDeepSeek creates a [Client] for the DeepSeek API.
func NewDeepSeek(apiKey string, opts ...Option) *Client {
	return newClient(distill.ProviderDeepSeek, apiKey, deepSeekBaseURL, deepSeekModel, opts)
}

// NewOpenRouter creates a [Client] for OpenRouter. OpenRouter uses the
// optional HTTP-Referer and X-Title headers for attribution; pass them with
// [WithHeader].
func NewOpenRouter(apiKey string, opts ...Option) *Client {
	return newClient(distill.ProviderOpenRouter, apiKey, openRouterBaseURL, openRouterModel, opts)
}

func newClient(provider distill.Provider, apiKey, baseURL, model string, opts []Option) *Client {
	c := &Client{
		provider:   provider,
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		headers:    http.Header{},
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Provider returns the provider this client talks to.
func (c *Client) Provider() distill.Provider { return c.provider }

// Open sends a streaming chat completion request.
func (c *Client) Open(ctx context.Context, req distill.Request) (io.ReadCloser, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", c.provider, err)
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.provider, err)
	}

	headers := c.headers.Clone()
	headers.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		headers.Set("Authorization", "Bearer "+c.apiKey)
	}
	return transport.Post(ctx, c.httpClient, c.provider, c.baseURL+completionsPath, headers, body)
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
	return apiRequest{
		Model:       model,
		Messages:    msgs,
		Stream:      true,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}
