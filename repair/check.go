package repair

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/distill"
)

const fence = "```"

// StripFence removes a markdown code fence wrapped around s, with or without
// a language tag. A fence that is still open is removed too, so a streaming
// buffer reads as bare JSON from its first line.
func StripFence(s string) string {
	t := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(t, fence); ok {
		info, body, found := strings.Cut(rest, "\n")
		if !found || strings.ContainsAny(info, "[{") {
			body = strings.TrimLeft(rest, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
		}
		t = body
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), fence)
	return strings.TrimSpace(t)
}

// Check classifies a buffer. Anything that has not started with a structural
// token, has unbalanced brackets or does not end in a closing bracket is
// still streaming. A balanced buffer that fails to parse is CompleteInvalid.
// A parsed value that fails the shape is Incomplete because more of it may
// still arrive.
func Check(buffer string, shape distill.Shape) distill.Verdict {
	t := StripFence(buffer)
	if t == "" || (t[0] != '[' && t[0] != '{') {
		return distill.Incomplete{}
	}
	if !balanced(t) {
		return distill.Incomplete{}
	}
	if last := t[len(t)-1]; last != ']' && last != '}' {
		return distill.Incomplete{}
	}
	var v any
	if err := json.Unmarshal([]byte(t), &v); err != nil {
		return distill.CompleteInvalid{Reason: err.Error()}
	}
	if !shape.Matches(v) {
		return distill.Incomplete{}
	}
	return distill.CompleteValid{Value: v}
}

// balanced reports whether s has as many closing as opening brackets of each
// kind. Brackets inside string literals are not counted, and an unterminated
// string makes s unbalanced.
func balanced(s string) bool {
	var squares, curlies int
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			squares++
		case ']':
			squares--
		case '{':
			curlies++
		case '}':
			curlies--
		}
	}
	return !inString && squares == 0 && curlies == 0
}
