// Package stream turns a provider's raw response stream into a result.
//
// An [Aggregator] reads the transport, splits it into lines, decodes each
// line with a provider [distill.Decoder] and accumulates the text. While the
// stream runs it produces throttled progressive updates; when the stream
// ends it checks the buffer and repairs it if needed.
package stream

import (
	"time"

	"github.com/fwojciec/distill"
	"github.com/sirupsen/logrus"
)

// readSize is the size of a single transport read.
const readSize = 4096

// Aggregator drives sessions for one provider family. It holds no per-run
// state, so one Aggregator may run many sessions concurrently.
type Aggregator struct {
	decoder   distill.Decoder
	shape     distill.Shape
	config    distill.StreamConfig
	logger    logrus.FieldLogger
	onPartial func(distill.PartialView)
	now       func() time.Time
	capture   bool
}

// Option configures an [Aggregator].
type Option func(*Aggregator)

// WithShape sets the expected document shape. Default is [distill.AnyJSON].
func WithShape(shape distill.Shape) Option {
	return func(a *Aggregator) { a.shape = shape }
}

// WithConfig sets the retry, throttle and timeout tuning.
func WithConfig(cfg distill.StreamConfig) Option {
	return func(a *Aggregator) { a.config = cfg }
}

// WithLogger sets the logger. Default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithPartialHandler registers a callback for progressive updates. It runs
// on the aggregator's goroutine and must not block.
func WithPartialHandler(fn func(distill.PartialView)) Option {
	return func(a *Aggregator) { a.onPartial = fn }
}

// WithClock replaces time.Now. Useful for testing the throttle.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithCapture keeps every raw transport line on the session.
func WithCapture() Option {
	return func(a *Aggregator) { a.capture = true }
}

// New creates an [Aggregator] that decodes lines with decoder.
func New(decoder distill.Decoder, opts ...Option) *Aggregator {
	a := &Aggregator{
		decoder: decoder,
		shape:   distill.AnyJSON(),
		config:  distill.DefaultStreamConfig(),
		logger:  logrus.StandardLogger(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}
