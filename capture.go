package distill

import "time"

// Capture is a recorded session: the raw transport lines in arrival order
// together with the outcome they produced. Replaying Lines through a decoder
// of the same provider family reproduces Result.
type Capture struct {
	ID        string
	Provider  Provider
	Model     string
	Shape     string // shape name, see ParseShape
	CreatedAt time.Time
	Lines     []string
	Result    Result
}
