package stream

import (
	"errors"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/repair"
	"github.com/rivo/uniseg"
)

// Emit builds the final result for a finished buffer. Text shapes return the
// buffer as is. Otherwise a buffer that checks as complete is returned
// directly and anything else goes through the repair pipeline, since no more
// text will arrive.
func Emit(raw string, shape distill.Shape) distill.Result {
	if shape.Kind == distill.KindText {
		return distill.Result{Value: raw, Raw: raw}
	}
	if v, ok := repair.Check(raw, shape).(distill.CompleteValid); ok {
		return distill.Result{Value: v.Value, Raw: raw}
	}
	out, err := repair.Repair(raw, shape)
	if err != nil {
		res := distill.Result{Raw: raw, Err: err}
		var failure *distill.RepairFailure
		if errors.As(err, &failure) {
			res.Attempts = failure.Attempts
		}
		return res
	}
	return distill.Result{
		Value:      out.Value,
		Raw:        raw,
		RepairedBy: out.Strategy,
		Attempts:   out.Attempts,
	}
}

// EmitPartial builds a progressive view of a buffer that is still streaming.
// Value is set only when the buffer already parses, possibly after basic
// repair, to a value the shape accepts. Advanced repair is left to Emit.
func EmitPartial(raw string, shape distill.Shape) distill.PartialView {
	view := distill.PartialView{
		Text:   raw,
		Length: len(raw),
		Chars:  uniseg.GraphemeClusterCount(raw),
	}
	if shape.Kind == distill.KindText {
		return view
	}
	switch v := repair.Check(raw, shape).(type) {
	case distill.CompleteValid:
		view.Value = v.Value
	case distill.CompleteInvalid:
		if v, ok := repair.Quick(raw, shape); ok {
			view.Value = v
		}
	}
	return view
}
