package distill

import "strings"

// Frame is a sealed interface representing the outcome of decoding one raw
// transport line. The unexported marker method prevents external
// implementations.
type Frame interface {
	frame()
}

// FrameSkip means the line carried no text: comments, blank lines, event
// names, role-only deltas and other content-free frames.
type FrameSkip struct{}

func (FrameSkip) frame() {}

// FrameDelta carries one incremental fragment of model output.
type FrameDelta struct {
	Text string
}

func (FrameDelta) frame() {}

// FrameTerminal is an in-band end-of-stream sentinel such as "data: [DONE]".
type FrameTerminal struct{}

func (FrameTerminal) frame() {}

// FrameParseError means the line looked like a data frame but its payload did
// not parse. Raw is the unmodified line so it can be joined with the next one.
type FrameParseError struct {
	Raw string
}

func (FrameParseError) frame() {}

// Interface compliance checks.
var (
	_ Frame = FrameSkip{}
	_ Frame = FrameDelta{}
	_ Frame = FrameTerminal{}
	_ Frame = FrameParseError{}
)

// Decoder turns one raw line into a Frame. Implementations are pure and never
// fail: malformed input is reported as FrameParseError.
type Decoder interface {
	Decode(line string) Frame
}

// DecoderFunc adapts an ordinary function to the Decoder interface.
type DecoderFunc func(line string) Frame

// Decode calls f(line).
func (f DecoderFunc) Decode(line string) Frame { return f(line) }

// Ignorable reports whether line is blank or an SSE comment. Such lines are
// skipped for every provider family.
func Ignorable(line string) bool {
	line = strings.TrimRight(line, "\r")
	return strings.TrimSpace(line) == "" || strings.HasPrefix(line, ":")
}

// DataPayload returns the payload of an SSE "data:" line with one optional
// leading space removed.
func DataPayload(line string) (string, bool) {
	line = strings.TrimRight(line, "\r")
	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(payload, " "), true
}
