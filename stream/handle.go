package stream

import (
	"context"
	"errors"
	"sync"

	"github.com/fwojciec/distill"
)

// Handle is a session running in the background, started by
// [Aggregator.Start].
type Handle struct {
	session *Session
	cancel  context.CancelFunc
	done    chan struct{}

	mu     sync.Mutex
	result distill.Result
	ok     bool
	err    error
}

// Start opens the request with opener and runs the session on a new
// goroutine. onResult, when not nil, is called exactly once with the final
// result, unless the session is cancelled first, in which case it is never
// called.
func (a *Aggregator) Start(ctx context.Context, opener distill.Opener, s *Session, req distill.Request, onResult func(distill.Result)) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		session: s,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		defer cancel()
		res, err := a.open(ctx, opener, s, req)
		if err == nil && ctx.Err() != nil {
			// Cancelled after the body was drained but before the result
			// was handed out.
			s.setState(distill.SessionCancelled)
			res, err = distill.Result{}, distill.ErrCancelled
		}
		h.mu.Lock()
		h.result, h.ok, h.err = res, err == nil, err
		h.mu.Unlock()
		if err != nil {
			return
		}
		if onResult != nil {
			onResult(res)
		}
	}()
	return h
}

func (a *Aggregator) open(ctx context.Context, opener distill.Opener, s *Session, req distill.Request) (distill.Result, error) {
	log := a.logger.WithField("session", s.ID)
	body, err := opener.Open(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			s.setState(distill.SessionCancelled)
			return distill.Result{}, distill.ErrCancelled
		}
		s.setState(distill.SessionFailed)
		var terr *distill.TransportError
		if errors.As(err, &terr) {
			log.WithError(err).WithField("status", terr.StatusCode).Error("opening stream failed")
		} else {
			log.WithError(err).Error("request rejected")
		}
		return distill.Result{Err: err}, nil
	}
	defer body.Close()
	res, err := a.Run(ctx, s, body)
	if err != nil && !errors.Is(err, distill.ErrCancelled) {
		log.WithError(err).Error("session did not run")
	}
	return res, err
}

// Session returns the session the handle drives.
func (h *Handle) Session() *Session { return h.session }

// Cancel stops the session. It is safe to call more than once and after the
// session has finished.
func (h *Handle) Cancel() { h.cancel() }

// Done is closed when the session has finished or been cancelled.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Result returns the final result once Done is closed. ok is false while the
// session runs and after cancellation.
func (h *Handle) Result() (res distill.Result, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.ok
}

// Wait blocks until the session finishes or ctx is done and returns the
// result. It returns distill.ErrCancelled for a cancelled session.
func (h *Handle) Wait(ctx context.Context) (distill.Result, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		return distill.Result{}, ctx.Err()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.ok {
		return distill.Result{}, h.err
	}
	return h.result, nil
}
