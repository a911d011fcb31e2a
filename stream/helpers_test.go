package stream_test

import (
	"encoding/json"
	"io"
	"strings"
)

// openAIStream renders doc as an OpenAI-style SSE stream of deltas of at
// most size bytes, ending with the [DONE] sentinel.
func openAIStream(doc string, size int) string {
	var b strings.Builder
	b.WriteString(`data: {"choices":[{"index":0,"delta":{"role":"assistant"}}]}` + "\n\n")
	for _, piece := range pieces(doc, size) {
		content, _ := json.Marshal(piece)
		b.WriteString(`data: {"choices":[{"index":0,"delta":{"content":` + string(content) + `}}]}` + "\n\n")
	}
	b.WriteString(`data: {"choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}` + "\n\n")
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

// claudeStream renders doc as an Anthropic Messages stream. It has no
// in-band terminal marker.
func claudeStream(doc string, size int) string {
	var b strings.Builder
	b.WriteString("event: message_start\n")
	b.WriteString(`data: {"type":"message_start","message":{"id":"msg_1","role":"assistant","content":[]}}` + "\n\n")
	b.WriteString("event: content_block_start\n")
	b.WriteString(`data: {"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}` + "\n\n")
	for _, piece := range pieces(doc, size) {
		text, _ := json.Marshal(piece)
		b.WriteString("event: content_block_delta\n")
		b.WriteString(`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":` + string(text) + `}}` + "\n\n")
	}
	b.WriteString("event: message_stop\n")
	b.WriteString(`data: {"type":"message_stop"}` + "\n\n")
	return b.String()
}

// ollamaStream renders doc as Ollama NDJSON.
func ollamaStream(doc string, size int) string {
	var b strings.Builder
	for _, piece := range pieces(doc, size) {
		content, _ := json.Marshal(piece)
		b.WriteString(`{"model":"llama3.1","message":{"role":"assistant","content":` + string(content) + `},"done":false}` + "\n")
	}
	b.WriteString(`{"model":"llama3.1","message":{"role":"assistant","content":""},"done":true}` + "\n")
	return b.String()
}

func pieces(s string, size int) []string {
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// chunkedReader returns its chunks one Read at a time.
type chunkedReader struct {
	chunks []string
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if r.chunks[0] == "" {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}
