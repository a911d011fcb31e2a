package ollama

import (
	"strings"

	"github.com/fwojciec/distill"
	"github.com/tidwall/gjson"
)

// Interface compliance check.
var _ distill.Decoder = Decoder{}

// Decoder decodes Ollama NDJSON lines. It never reports a terminal frame.
type Decoder struct{}

// Decode classifies one line.
func (Decoder) Decode(line string) distill.Frame {
	if distill.Ignorable(line) {
		return distill.FrameSkip{}
	}
	line = strings.TrimSpace(line)
	if !gjson.Valid(line) {
		return distill.FrameParseError{Raw: line}
	}
	for _, path := range []string{"message.content", "response"} {
		if r := gjson.Get(line, path); r.Type == gjson.String && r.Str != "" {
			return distill.FrameDelta{Text: r.Str}
		}
	}
	return distill.FrameSkip{}
}
