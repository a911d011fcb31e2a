package openai_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/openai"
	"github.com/stretchr/testify/assert"
)

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
		want distill.Frame
	}{
		{
			name: "content delta",
			line: `data: {"id":"c1","choices":[{"index":0,"delta":{"content":"Hel"}}]}`,
			want: distill.FrameDelta{Text: "Hel"},
		},
		{
			name: "content with escapes",
			line: `data: {"choices":[{"delta":{"content":"[{\"file\": \"a.go\"}\n"}}]}`,
			want: distill.FrameDelta{Text: "[{\"file\": \"a.go\"}\n"},
		},
		{
			name: "no space after colon",
			line: `data:{"choices":[{"delta":{"content":"x"}}]}`,
			want: distill.FrameDelta{Text: "x"},
		},
		{
			name: "carriage return",
			line: "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\r",
			want: distill.FrameDelta{Text: "x"},
		},
		{
			name: "role only delta",
			line: `data: {"choices":[{"index":0,"delta":{"role":"assistant"}}]}`,
			want: distill.FrameSkip{},
		},
		{
			name: "empty content",
			line: `data: {"choices":[{"delta":{"content":""}}]}`,
			want: distill.FrameSkip{},
		},
		{
			name: "null content with finish reason",
			line: `data: {"choices":[{"delta":{"content":null},"finish_reason":"stop"}]}`,
			want: distill.FrameSkip{},
		},
		{
			name: "usage only frame",
			line: `data: {"choices":[],"usage":{"prompt_tokens":3}}`,
			want: distill.FrameSkip{},
		},
		{
			name: "done sentinel",
			line: "data: [DONE]",
			want: distill.FrameTerminal{},
		},
		{
			name: "split frame",
			line: `data: {"choices":[{"delta":{"cont`,
			want: distill.FrameParseError{Raw: `data: {"choices":[{"delta":{"cont`},
		},
		{
			name: "empty line",
			line: "",
			want: distill.FrameSkip{},
		},
		{
			name: "comment",
			line: ": OPENROUTER PROCESSING",
			want: distill.FrameSkip{},
		},
		{
			name: "not a data line",
			line: `{"choices":[{"delta":{"content":"x"}}]}`,
			want: distill.FrameSkip{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, openai.Decoder{}.Decode(tt.line))
		})
	}
}

func TestDecoder_JoinedSplitFrameDecodes(t *testing.T) {
	t.Parallel()
	first := `data: {"choices":[{"delta":{"cont`
	second := `ent":"joined"}}]}`

	d := openai.Decoder{}
	assert.IsType(t, distill.FrameParseError{}, d.Decode(first))
	assert.Equal(t, distill.FrameDelta{Text: "joined"}, d.Decode(first+second))
}
