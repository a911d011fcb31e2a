package gemini

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/distill"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ distill.Decoder = Decoder{}

// Decoder decodes Gemini SSE lines. It never reports a terminal frame.
type Decoder struct{}

// Decode classifies one line. Only the first candidate is read and thought
// parts are dropped.
func (Decoder) Decode(line string) distill.Frame {
	if distill.Ignorable(line) {
		return distill.FrameSkip{}
	}
	payload, ok := distill.DataPayload(line)
	if !ok {
		return distill.FrameSkip{}
	}
	var resp genai.GenerateContentResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return distill.FrameParseError{Raw: line}
	}
	text := candidateText(&resp)
	if text == "" {
		return distill.FrameSkip{}
	}
	return distill.FrameDelta{Text: text}
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return b.String()
}
