// Package repair decides whether an accumulated model response is a finished
// JSON document and, when it is finished but malformed, rewrites it until it
// parses.
//
// Everything here is a pure function of its input. [Check] is cheap enough to
// run on every progressive update; [Repair] runs once, when a stream ends.
package repair

import (
	"encoding/json"

	"github.com/fwojciec/distill"
)

// Strategy names recorded in [distill.RepairAttempt] and
// [distill.Result.RepairedBy].
const (
	StrategyBasic    = "basic"
	StrategyAdvanced = "advanced"
)

// Outcome is a successful repair.
type Outcome struct {
	Value any

	// Strategy is the strategy whose output parsed, or empty when the text
	// parsed without repair.
	Strategy string

	Attempts []distill.RepairAttempt
}

// strategy is one text rewrite. Each strategy receives the original text,
// never the output of a previous strategy.
type strategy struct {
	name  string
	apply func(s string, kind distill.ShapeKind) string
}

var strategies = []strategy{
	{name: StrategyBasic, apply: Basic},
	{name: StrategyAdvanced, apply: Advanced},
}

// Repair parses raw, falling back to the basic and then the advanced
// strategy. The first output that parses and has the expected kind wins.
// When nothing works the error is a *distill.RepairFailure carrying every
// parse error and raw verbatim.
func Repair(raw string, shape distill.Shape) (Outcome, error) {
	original := StripFence(raw)
	v, err := parse(original, shape.Kind)
	if err == nil {
		return Outcome{Value: v}, nil
	}

	failure := &distill.RepairFailure{
		OriginalError: err.Error(),
		RawText:       raw,
	}
	var attempts []distill.RepairAttempt
	for _, s := range strategies {
		out := s.apply(raw, shape.Kind)
		attempt := distill.RepairAttempt{Strategy: s.name, Input: raw, Output: out}
		v, err := parse(out, shape.Kind)
		if err == nil {
			attempts = append(attempts, attempt)
			return Outcome{Value: v, Strategy: s.name, Attempts: attempts}, nil
		}
		attempt.ParseError = err.Error()
		attempts = append(attempts, attempt)
		switch s.name {
		case StrategyBasic:
			failure.BasicError = err.Error()
		case StrategyAdvanced:
			failure.AdvancedError = err.Error()
		}
	}
	failure.Attempts = attempts
	return Outcome{}, failure
}

// Quick returns the value raw parses to, directly or after the basic
// strategy, when shape accepts it. The advanced strategy is never tried.
func Quick(raw string, shape distill.Shape) (any, bool) {
	v, err := parse(StripFence(raw), shape.Kind)
	if err != nil {
		if v, err = parse(Basic(raw, shape.Kind), shape.Kind); err != nil {
			return nil, false
		}
	}
	if !shape.Matches(v) {
		return nil, false
	}
	return v, true
}

// parse decodes s and checks the top-level kind. Shape predicates are not
// applied: a finished document that parses is kept even if it lacks fields.
func parse(s string, kind distill.ShapeKind) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	if !(distill.Shape{Kind: kind}).Matches(v) {
		return nil, &kindError{want: kind}
	}
	return v, nil
}

type kindError struct {
	want distill.ShapeKind
}

func (e *kindError) Error() string {
	return "parsed value is not a JSON " + e.want.String()
}
