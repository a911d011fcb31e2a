// Package gemini implements [distill.Decoder] and [distill.Opener] for the
// Google Gemini streamGenerateContent endpoint in SSE mode.
//
// Each "data:" line holds a complete GenerateContentResponse encoded the way
// the google.golang.org/genai SDK models it, so frames are decoded straight
// into the SDK types. There is no terminal marker.
package gemini

import "google.golang.org/genai"

const (
	defaultBaseURL   = "https://generativelanguage.googleapis.com"
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 65536
)

// apiRequest is the JSON body sent to streamGenerateContent.
type apiRequest struct {
	Contents          []*genai.Content  `json:"contents"`
	SystemInstruction *genai.Content    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens  int      `json:"maxOutputTokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMIMEType string   `json:"responseMimeType,omitempty"`
}
