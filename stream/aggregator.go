package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"github.com/sirupsen/logrus"
)

// maxLoggedFragment caps how much of a dropped fragment is logged.
const maxLoggedFragment = 200

// chunk is one transport read handed from the pump goroutine to the run
// loop. Exactly one of data and err is set.
type chunk struct {
	data []byte
	err  error
}

// run is the per-call state of [Aggregator.Run].
type run struct {
	*Aggregator
	ctx     context.Context
	session *Session
	log     logrus.FieldLogger

	carry   strings.Builder // trailing partial line
	pending []string        // lines of a frame that has not decoded yet
}

// Run reads r until a terminal frame, end of stream, a read failure or
// cancellation, and returns the session's result.
//
// Transport and repair failures are reported in Result.Err with a nil error.
// The error is non-nil only when there is no result: distill.ErrCancelled
// when ctx is cancelled, or a usage error for an invalid configuration or a
// session that is not idle. The caller owns r and should close it on
// cancellation so the background read returns.
func (a *Aggregator) Run(ctx context.Context, s *Session, r io.Reader) (distill.Result, error) {
	if err := a.config.Validate(); err != nil {
		return distill.Result{}, fmt.Errorf("stream: %w", err)
	}
	if st := s.State(); st != distill.SessionIdle {
		return distill.Result{}, fmt.Errorf("stream: session %s is %s", s.ID, st)
	}
	s.setState(distill.SessionStreaming)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rn := &run{
		Aggregator: a,
		ctx:        ctx,
		session:    s,
		log: a.logger.WithFields(logrus.Fields{
			"session":  s.ID,
			"provider": s.Provider,
			"model":    s.Model,
		}),
	}
	return rn.loop(pump(ctx, r))
}

// pump reads r on its own goroutine so the run loop can also wait for
// cancellation and the inactivity timer. The channel is closed after an
// error has been delivered or ctx is done.
func pump(ctx context.Context, r io.Reader) <-chan chunk {
	ch := make(chan chunk)
	go func() {
		defer close(ch)
		for {
			buf := make([]byte, readSize)
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case ch <- chunk{data: buf[:n]}:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				select {
				case ch <- chunk{err: err}:
				case <-ctx.Done():
				}
				return
			}
		}
	}()
	return ch
}

func (r *run) loop(chunks <-chan chunk) (distill.Result, error) {
	idle := r.config.InactivityTimeout
	var (
		timer   *time.Timer
		timeout <-chan time.Time
	)
	if idle > 0 {
		timer = time.NewTimer(idle)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-r.ctx.Done():
			return r.cancelled()
		case <-timeout:
			return r.inactive(), nil
		case c, ok := <-chunks:
			if r.ctx.Err() != nil {
				return r.cancelled()
			}
			if !ok || c.err != nil {
				return r.end(c.err)
			}
			if timer != nil {
				timer.Reset(idle)
			}
			if r.consume(string(c.data)) {
				return r.finish()
			}
		}
	}
}

// consume splits data into lines, carrying a trailing partial line over to
// the next chunk. It reports whether a terminal frame was seen.
func (r *run) consume(data string) bool {
	for {
		i := strings.IndexByte(data, '\n')
		if i < 0 {
			r.carry.WriteString(data)
			return false
		}
		r.carry.WriteString(data[:i])
		line := r.carry.String()
		r.carry.Reset()
		data = data[i+1:]
		if r.line(line) {
			return true
		}
	}
}

// line handles one raw line and reports whether it was terminal.
func (r *run) line(line string) bool {
	if r.capture {
		r.session.recordLine(line)
	}
	if distill.Ignorable(line) {
		return false
	}
	switch f := r.decode(line).(type) {
	case distill.FrameDelta:
		n := r.session.appendText(f.Text)
		r.tick(n)
	case distill.FrameTerminal:
		return true
	}
	return false
}

// decode decodes line, joining it with a held fragment first. A line that
// does not decode on its own or joined is held and reported as a skip.
func (r *run) decode(line string) distill.Frame {
	if len(r.pending) == 0 {
		f := r.decoder.Decode(line)
		if isParseError(f) {
			return r.hold(line)
		}
		r.session.resetRetries()
		return f
	}

	joined := r.decoder.Decode(strings.Join(r.pending, "") + line)
	if !isParseError(joined) {
		r.pending = nil
		r.session.resetRetries()
		return joined
	}
	alone := r.decoder.Decode(line)
	if !isParseError(alone) {
		r.drop("superseded by a decodable line")
		return alone
	}
	return r.hold(line)
}

// hold keeps line as part of the pending fragment. Once the retry budget is
// spent the whole fragment gets one last decode before it is dropped.
func (r *run) hold(line string) distill.Frame {
	r.pending = append(r.pending, line)
	if r.session.failDecode() <= r.config.MaxRetries {
		return distill.FrameSkip{}
	}
	f := r.decoder.Decode(strings.Join(r.pending, "\n"))
	if isParseError(f) {
		r.drop("retries exhausted")
		return distill.FrameSkip{}
	}
	r.pending = nil
	r.session.resetRetries()
	return f
}

func (r *run) drop(reason string) {
	fragment := strings.Join(r.pending, "\n")
	if len(fragment) > maxLoggedFragment {
		fragment = fragment[:maxLoggedFragment] + "..."
	}
	r.log.WithFields(logrus.Fields{
		"retries":  r.session.RetryCount(),
		"lines":    len(r.pending),
		"fragment": fragment,
	}).Warn("dropping undecodable frame: " + reason)
	r.pending = nil
	r.session.resetRetries()
}

// tick produces a progressive update when the last one is older than the
// throttle interval or the buffer is still short.
func (r *run) tick(length int) {
	now := r.now()
	if !(now.Sub(r.session.LastEmit()) > r.config.Throttle || length < r.config.MinEagerChars) {
		return
	}
	r.session.setLastEmit(now)
	if r.onPartial == nil || r.ctx.Err() != nil {
		return
	}
	r.onPartial(EmitPartial(r.session.Buffer(), r.shape))
}

// end handles the reader finishing. End of stream is terminal for every
// provider; any other error is a transport failure.
func (r *run) end(err error) (distill.Result, error) {
	if err != nil && !errors.Is(err, io.EOF) {
		r.session.setState(distill.SessionFailed)
		terr := &distill.TransportError{Provider: r.session.Provider, Err: err}
		r.log.WithError(err).Error("stream read failed")
		return distill.Result{Raw: r.session.Buffer(), Err: terr}, nil
	}
	if r.carry.Len() > 0 {
		line := r.carry.String()
		r.carry.Reset()
		r.line(line)
	}
	return r.finish()
}

func (r *run) finish() (distill.Result, error) {
	if r.ctx.Err() != nil {
		return r.cancelled()
	}
	if len(r.pending) > 0 {
		r.drop("stream ended")
	}
	res := Emit(r.session.Buffer(), r.shape)
	switch {
	case res.Err != nil:
		r.session.setState(distill.SessionFailed)
		r.log.WithError(res.Err).Warn("model output could not be parsed")
	case res.RepairedBy != "":
		r.session.setState(distill.SessionDone)
		r.log.WithField("strategy", res.RepairedBy).Debug("model output repaired")
	default:
		r.session.setState(distill.SessionDone)
	}
	return res, nil
}

func (r *run) inactive() distill.Result {
	r.session.setState(distill.SessionFailed)
	r.log.WithField("timeout", r.config.InactivityTimeout).Warn("stream inactive")
	return distill.Result{
		Raw: r.session.Buffer(),
		Err: &distill.TransportError{Provider: r.session.Provider, Err: distill.ErrInactive},
	}
}

func (r *run) cancelled() (distill.Result, error) {
	r.session.setState(distill.SessionCancelled)
	r.log.Debug("session cancelled")
	return distill.Result{}, distill.ErrCancelled
}

func isParseError(f distill.Frame) bool {
	_, ok := f.(distill.FrameParseError)
	return ok
}
