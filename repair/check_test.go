package repair_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/repair"
	"github.com/stretchr/testify/assert"
)

func TestStripFence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
		{"open fence while streaming", "```json\n[{\"a\":", `[{"a":`},
		{"only the opening fence", "```json", ""},
		{"surrounding whitespace", "\n  ```json\n{}\n```  \n", `{}`},
		{"fence on one line", "```json{\"a\":1}```", `{"a":1}`},
		{"prose is kept", "Here:\n```json\n{}\n```", "Here:\n```json\n{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, repair.StripFence(tt.in))
		})
	}
}

func TestCheck_BracketBalanceGating(t *testing.T) {
	t.Parallel()
	assert.Equal(t, distill.Incomplete{}, repair.Check(`[{"a":1}`, distill.AnyJSON()))
	assert.Equal(t,
		distill.CompleteValid{Value: []any{map[string]any{"a": float64(1)}}},
		repair.Check(`[{"a":1}]`, distill.AnyJSON()),
	)
}

func TestCheck(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		buffer string
		shape  distill.Shape
		want   string
	}{
		{"empty", "", distill.AnyJSON(), "incomplete"},
		{"prose before json", "Sure, here it is", distill.AnyJSON(), "incomplete"},
		{"open array", `[{"file": "a.go"}, {"file"`, distill.AnyJSON(), "incomplete"},
		{"brackets inside strings", `{"issue": "missing ]"`, distill.AnyJSON(), "incomplete"},
		{"balanced string brackets", `{"issue": "use [] not {"}`, distill.AnyJSON(), "valid"},
		{"unterminated string", `{"a": "}`, distill.AnyJSON(), "incomplete"},
		{"does not end with bracket", `{"a": 1} trailing`, distill.AnyJSON(), "incomplete"},
		{"fenced", "```json\n{\"a\": 1}\n```", distill.AnyJSON(), "valid"},
		{"balanced but malformed", `{"a" 1}`, distill.AnyJSON(), "invalid"},
		{"trailing comma", `[1, 2,]`, distill.AnyJSON(), "invalid"},
		{"empty review array", `[]`, distill.ReviewItems(), "incomplete"},
		{"review item missing keys", `[{"file": "a.go"}]`, distill.ReviewItems(), "incomplete"},
		{"review item", `[{"file": "a.go", "severity": "High", "issue": "x"}]`, distill.ReviewItems(), "valid"},
		{"suggestion item", `[{"file": "a.go", "current": "a", "suggested": "b"}]`, distill.ReviewItems(), "valid"},
		{"object for array shape", `{"file": "a.go"}`, distill.ReviewItems(), "incomplete"},
		{"actions", `{"summary": "s", "actions": []}`, distill.Actions(), "valid"},
		{"actions missing summary", `{"actions": []}`, distill.Actions(), "incomplete"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, verdictName(repair.Check(tt.buffer, tt.shape)))
		})
	}
}

func TestCheck_InvalidCarriesParserMessage(t *testing.T) {
	t.Parallel()
	v := repair.Check(`{"a" 1}`, distill.AnyJSON())
	invalid, ok := v.(distill.CompleteInvalid)
	if assert.True(t, ok) {
		assert.Contains(t, invalid.Reason, "invalid character")
	}
}

func verdictName(v distill.Verdict) string {
	switch v.(type) {
	case distill.Incomplete:
		return "incomplete"
	case distill.CompleteValid:
		return "valid"
	case distill.CompleteInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
