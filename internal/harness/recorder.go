package harness

import (
	"context"
	"sync"

	"github.com/roach88/pubtest/internal/ir"
	"github.com/roach88/pubtest/internal/publisher"
)

// recorder decorates a publisher and records each call and return.
// Requests, results and errors pass through unchanged.
type recorder struct {
	inner publisher.Publisher
	clock *Clock

	mu    sync.Mutex
	trace []TraceEvent
}

func newRecorder(inner publisher.Publisher) *recorder {
	return &recorder{inner: inner, clock: NewClock()}
}

func (r *recorder) Configure(ctx context.Context, req *publisher.ConfigureRequest) error {
	// Fingerprint fails only for Null values, which the harness never stores.
	fp, _ := req.Fingerprint()
	r.call(OpConfigure, req.Object(), fp)

	err := r.inner.Configure(ctx, req)
	r.ret(OpConfigure, nil, err)
	return err
}

func (r *recorder) Read(ctx context.Context, req *publisher.ReadRequest) (*publisher.ReadResult, error) {
	fp, _ := req.Fingerprint()
	r.call(OpRead, req.Object(), fp)

	res, err := r.inner.Read(ctx, req)
	if err != nil {
		r.ret(OpRead, nil, err)
		return res, err
	}
	r.ret(OpRead, res.Object(), nil)
	return res, nil
}

func (r *recorder) call(op string, args ir.Object, fingerprint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, TraceEvent{
		Type:        EventCall,
		Op:          op,
		Args:        args,
		Fingerprint: fingerprint,
		Seq:         r.clock.Next(),
	})
}

func (r *recorder) ret(op string, result ir.Object, err error) {
	event := TraceEvent{Type: EventReturn, Op: op, Result: result}
	if err != nil {
		event.Error = err.Error()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	event.Seq = r.clock.Next()
	r.trace = append(r.trace, event)
}

// Trace returns a copy of the recorded events.
func (r *recorder) Trace() []TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TraceEvent{}, r.trace...)
}
