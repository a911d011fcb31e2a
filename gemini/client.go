package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/transport"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ distill.Opener = (*Client)(nil)

// Client implements [distill.Opener] for the Google Gemini API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	jsonMode   bool
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

// WithModel sets the model ID used when a request leaves Model empty.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithJSONMode asks the model for application/json output.
func WithJSONMode() Option {
	return func(c *Client) { c.jsonMode = true }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open sends a streaming generate request.
func (c *Client) Open(ctx context.Context, req distill.Request) (io.ReadCloser, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	headers := http.Header{}
	headers.Set("Accept", "text/event-stream")
	headers.Set("X-Goog-Api-Key", c.apiKey)
	endpoint := c.baseURL + "/v1beta/models/" + url.PathEscape(model) + ":streamGenerateContent?alt=sse"
	return transport.Post(ctx, c.httpClient, distill.ProviderGemini, endpoint, headers, body)
}

func (c *Client) buildRequest(req distill.Request) apiRequest {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	r := apiRequest{
		Contents: []*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     req.Temperature,
		},
	}
	if c.jsonMode {
		r.GenerationConfig.ResponseMIMEType = "application/json"
	}
	if req.SystemPrompt != "" {
		r.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	return r
}
