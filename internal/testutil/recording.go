package testutil

import (
	"context"
	"sync"

	"github.com/roach88/pubtest/internal/ir"
	"github.com/roach88/pubtest/internal/publisher"
)

// Call is one recorded publisher invocation.
type Call struct {
	// Op is "configure" or "read".
	Op string

	// Values is a copy of the request contents as received.
	Values ir.Object
}

// RecordingPublisher records every Configure and Read call in order.
//
// ConfigureErr and ReadErr, when set, are returned from the matching call
// after it has been recorded. Result is returned from Read on success; a
// nil Result yields an empty ReadResult.
//
// Thread-safety: guarded by a mutex so tests may inspect calls from any
// goroutine.
type RecordingPublisher struct {
	ConfigureErr error
	ReadErr      error
	Result       *publisher.ReadResult

	mu    sync.Mutex
	calls []Call
}

// NewRecordingPublisher returns a publisher that always succeeds.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Configure records the options.
func (p *RecordingPublisher) Configure(_ context.Context, req *publisher.ConfigureRequest) error {
	p.record("configure", req.Object())
	return p.ConfigureErr
}

// Read records the parameters.
func (p *RecordingPublisher) Read(_ context.Context, req *publisher.ReadRequest) (*publisher.ReadResult, error) {
	p.record("read", req.Object())
	if p.ReadErr != nil {
		return nil, p.ReadErr
	}
	if p.Result == nil {
		return &publisher.ReadResult{}, nil
	}
	return p.Result, nil
}

func (p *RecordingPublisher) record(op string, values ir.Object) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{Op: op, Values: values})
}

// Calls returns a copy of the recorded calls.
func (p *RecordingPublisher) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Ops returns just the operation names, in call order.
func (p *RecordingPublisher) Ops() []string {
	calls := p.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// CountingFactory wraps a factory and counts invocations.
type CountingFactory[P publisher.Publisher] struct {
	New   func() (P, error)
	Calls int
}

// Build calls New and increments Calls.
func (f *CountingFactory[P]) Build() (P, error) {
	f.Calls++
	return f.New()
}
