package harness

import "github.com/roach88/pubtest/internal/ir"

// Trace event types.
const (
	EventCall   = "call"
	EventReturn = "return"
)

// TraceEvent records one side of a publisher call.
//
// A call event carries the request contents and their fingerprint. The
// matching return event carries either the result document (read only) or
// the error message.
type TraceEvent struct {
	Type        string    `json:"type"` // "call" or "return"
	Op          string    `json:"op"`   // "configure" or "read"
	Args        ir.Object `json:"args,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Result      ir.Object `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
	Seq         int64     `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the expect block and every assertion hold.
	Pass bool `json:"pass"`

	// RunID identifies this execution.
	RunID string `json:"run_id"`

	// Trace contains every publisher call and return in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Output is the read result document, nil when the run failed.
	Output ir.Object `json:"output,omitempty"`

	// Err is the publisher failure, returned unmodified by the scenario.
	Err error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// ErrorMessage returns the publisher failure text, or "" on success.
func (r *Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Calls returns only the call events, in order.
func (r *Result) Calls() []TraceEvent {
	var calls []TraceEvent
	for _, e := range r.Trace {
		if e.Type == EventCall {
			calls = append(calls, e)
		}
	}
	return calls
}
