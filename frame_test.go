package distill_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
)

func TestFrameTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	frames := []distill.Frame{
		distill.FrameSkip{},
		distill.FrameDelta{Text: "hello"},
		distill.FrameTerminal{},
		distill.FrameParseError{Raw: `data: {"choices":`},
	}
	assert.Len(t, frames, 4, "update slice and switch when adding new Frame types")
	for _, f := range frames {
		switch f.(type) {
		case distill.FrameSkip:
		case distill.FrameDelta:
		case distill.FrameTerminal:
		case distill.FrameParseError:
		default:
			t.Fatalf("unhandled frame type %T", f)
		}
	}
}

func TestDecoderFunc(t *testing.T) {
	t.Parallel()
	d := distill.DecoderFunc(func(line string) distill.Frame {
		return distill.FrameDelta{Text: line}
	})
	assert.Equal(t, distill.FrameDelta{Text: "x"}, d.Decode("x"))
}

func TestIgnorable(t *testing.T) {
	t.Parallel()
	assert.True(t, distill.Ignorable(""))
	assert.True(t, distill.Ignorable("   "))
	assert.True(t, distill.Ignorable("\r"))
	assert.True(t, distill.Ignorable(": keep-alive"))
	assert.True(t, distill.Ignorable(":"))
	assert.False(t, distill.Ignorable("data: {}"))
	assert.False(t, distill.Ignorable(`{"message":{}}`))
}

func TestDataPayload(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line    string
		payload string
		ok      bool
	}{
		{"data: {\"a\":1}", `{"a":1}`, true},
		{"data:{\"a\":1}", `{"a":1}`, true},
		{"data: [DONE]\r", "[DONE]", true},
		{"data:  two spaces", " two spaces", true},
		{"event: content_block_delta", "", false},
		{`{"a":1}`, "", false},
	}
	for _, tt := range tests {
		payload, ok := distill.DataPayload(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.payload, payload, tt.line)
	}
}
