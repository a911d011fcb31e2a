// Package mock provides test doubles for distill interfaces using function
// fields.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/distill"
)

// Interface compliance checks.
var (
	_ distill.Opener  = (*Opener)(nil)
	_ distill.Decoder = (*Decoder)(nil)
	_ io.ReadCloser   = (*Body)(nil)
)

// Opener is a test double for distill.Opener.
// Set OpenFn before calling Open.
type Opener struct {
	OpenFn func(ctx context.Context, req distill.Request) (io.ReadCloser, error)
}

// Open delegates to OpenFn.
func (o *Opener) Open(ctx context.Context, req distill.Request) (io.ReadCloser, error) {
	return o.OpenFn(ctx, req)
}

// Decoder is a test double for distill.Decoder.
// Set DecodeFn before calling Decode.
type Decoder struct {
	DecodeFn func(line string) distill.Frame
}

// Decode delegates to DecodeFn.
func (d *Decoder) Decode(line string) distill.Frame {
	return d.DecodeFn(line)
}

// Body is a test double for a response body.
// Set the function fields for the methods you need.
type Body struct {
	ReadFn  func(p []byte) (int, error)
	CloseFn func() error
}

// Read delegates to ReadFn.
func (b *Body) Read(p []byte) (int, error) {
	return b.ReadFn(p)
}

// Close delegates to CloseFn, or does nothing when it is not set.
func (b *Body) Close() error {
	if b.CloseFn == nil {
		return nil
	}
	return b.CloseFn()
}
