package anthropic

import (
	"strings"

	"github.com/fwojciec/distill"
	"github.com/tidwall/gjson"
)

// Interface compliance check.
var _ distill.Decoder = Decoder{}

// Decoder decodes Anthropic Messages stream lines. It never reports a
// terminal frame.
type Decoder struct{}

// Decode classifies one line.
func (Decoder) Decode(line string) distill.Frame {
	if distill.Ignorable(line) || strings.HasPrefix(line, eventPrefix) {
		return distill.FrameSkip{}
	}
	payload, ok := distill.DataPayload(line)
	if !ok {
		return distill.FrameSkip{}
	}
	if !gjson.Valid(payload) {
		return distill.FrameParseError{Raw: line}
	}
	if gjson.Get(payload, "type").Str != deltaEventType {
		return distill.FrameSkip{}
	}
	// input_json_delta and thinking_delta have no delta.text.
	text := gjson.Get(payload, "delta.text")
	if text.Type != gjson.String || text.Str == "" {
		return distill.FrameSkip{}
	}
	return distill.FrameDelta{Text: text.Str}
}
