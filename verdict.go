package distill

// Verdict is a sealed interface classifying an accumulated buffer.
// Verdicts are computed fresh from the buffer and never mutated.
type Verdict interface {
	verdict()
}

// Incomplete means the buffer is still streaming: no structural token yet,
// unbalanced brackets, or a parsed value that does not have the expected
// shape yet.
type Incomplete struct{}

func (Incomplete) verdict() {}

// CompleteValid means the buffer parses and has the expected shape.
type CompleteValid struct {
	Value any
}

func (CompleteValid) verdict() {}

// CompleteInvalid means the buffer is structurally finished but does not
// parse. Reason is the parser's message.
type CompleteInvalid struct {
	Reason string
}

func (CompleteInvalid) verdict() {}

// Interface compliance checks.
var (
	_ Verdict = Incomplete{}
	_ Verdict = CompleteValid{}
	_ Verdict = CompleteInvalid{}
)

// RepairAttempt records one repair strategy applied to a buffer. It exists
// for diagnostics only.
type RepairAttempt struct {
	Strategy   string
	Input      string
	Output     string
	ParseError string // empty when Output parsed
}

// Result is the caller-visible outcome of a session.
//
// On success Value holds the parsed document (or the raw text for Text
// shapes) and Err is nil. RepairedBy names the strategy that made the text
// parse; it is a non-fatal diagnostic meant for logs. On failure Err is a
// *RepairFailure, a *TransportError or a validation error wrapping
// ErrValidation. Raw always holds the accumulated text.
type Result struct {
	Value      any
	Raw        string
	RepairedBy string
	Attempts   []RepairAttempt
	Err        error
}

// OK reports whether the result carries a value.
func (r Result) OK() bool { return r.Err == nil }

// PartialView is a progressive snapshot of a buffer that is still streaming.
// It does not interpret the text beyond the optional early Value.
type PartialView struct {
	Text   string
	Length int // bytes
	Chars  int // user-perceived characters
	Value  any // non-nil when the buffer already parses to the expected shape
}
