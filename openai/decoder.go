package openai

import (
	"github.com/fwojciec/distill"
	"github.com/tidwall/gjson"
)

// Interface compliance check.
var _ distill.Decoder = Decoder{}

// Decoder decodes OpenAI-style stream lines.
type Decoder struct{}

// Decode classifies one line. A data line whose payload is not valid JSON is
// reported as a parse error because it may be the first half of a frame that
// was split across lines.
func (Decoder) Decode(line string) distill.Frame {
	if distill.Ignorable(line) {
		return distill.FrameSkip{}
	}
	payload, ok := distill.DataPayload(line)
	if !ok {
		return distill.FrameSkip{}
	}
	if payload == doneSentinel {
		return distill.FrameTerminal{}
	}
	if !gjson.Valid(payload) {
		return distill.FrameParseError{Raw: line}
	}
	// Role-only and finish_reason frames carry no content.
	content := gjson.Get(payload, contentPath)
	if content.Type != gjson.String || content.Str == "" {
		return distill.FrameSkip{}
	}
	return distill.FrameDelta{Text: content.Str}
}
