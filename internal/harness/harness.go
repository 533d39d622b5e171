package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/pubtest/internal/ir"
	"github.com/roach88/pubtest/internal/publisher"
	"github.com/roach88/pubtest/internal/scenario"
)

// Harness runs scenarios against registered publishers.
type Harness struct {
	registry *publisher.Registry
	logger   *slog.Logger
	ids      RunIDGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry resolves publishers from r instead of the default registry.
func WithRegistry(r *publisher.Registry) Option {
	return func(h *Harness) { h.registry = r }
}

// WithLogger sets the logger. By default logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithRunIDGenerator sets the generator used when a scenario has no run_id.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(h *Harness) { h.ids = g }
}

// New creates a harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		registry: publisher.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a harness built from opts.
func Run(ctx context.Context, sc *Scenario, opts ...Option) (*Result, error) {
	return New(opts...).Run(ctx, sc)
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Resolve the publisher factory and convert the request values
//  2. Build the read scenario through scenario.Builder
//  3. Run it, recording every publisher call
//  4. Close the publisher if it implements io.Closer
//  5. Evaluate the expect block and the assertions
//
// A publisher failure is part of the outcome, not an error. Run returns an
// error only when the scenario cannot be executed at all.
func (h *Harness) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	factory, err := h.registry.Lookup(sc.Publisher)
	if err != nil {
		return nil, err
	}

	options, err := ir.ObjectFromMap(sc.Configure)
	if err != nil {
		return nil, fmt.Errorf("configure: %w", err)
	}
	params, err := ir.ObjectFromMap(sc.Read)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	runID := sc.RunID
	if runID == "" {
		runID = h.ids.Generate()
	}
	logger := h.logger.With("scenario", sc.Name, "run_id", runID, "publisher", sc.Publisher)

	var rec *recorder
	b, err := scenario.NewBuilder(func() (*recorder, error) {
		p, err := factory()
		if err != nil {
			return nil, err
		}
		rec = newRecorder(p)
		return rec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("construct publisher %q: %w", sc.Publisher, err)
	}

	job, err := b.
		Configure(func(c *publisher.ConfigureRequest) error {
			copyInto(&c.Values, options)
			return nil
		}).
		Read(func(r *publisher.ReadRequest) error {
			copyInto(&r.Values, params)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("build scenario: %w", err)
	}

	res, runErr := job.Run(ctx)
	if closer, ok := rec.inner.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to close publisher", "error", err)
		}
	}

	result := NewResult(runID)
	result.Trace = rec.Trace()
	result.Err = runErr
	if runErr == nil {
		result.Output = res.Object()
	}

	evaluateExpect(result, sc.Expect)
	for _, msg := range EvaluateAssertions(result, sc.Assertions) {
		result.AddError(msg)
	}

	logger.Info("scenario completed",
		"pass", result.Pass,
		"events", len(result.Trace),
		"failures", len(result.Errors),
	)
	if runErr != nil {
		logger.Debug("publisher returned error", "error", runErr)
	}
	return result, nil
}

// copyInto stores every entry of obj in v, in canonical key order.
func copyInto(v *publisher.Values, obj ir.Object) {
	for _, k := range obj.SortedKeys() {
		v.SetValue(k, obj[k])
	}
}

// evaluateExpect checks the outcome against the expect block.
func evaluateExpect(result *Result, expect *Expect) {
	if expect != nil && expect.Error != "" {
		if result.Err == nil {
			result.AddError(fmt.Sprintf("expected error containing %q, got success", expect.Error))
			return
		}
		if !strings.Contains(result.Err.Error(), expect.Error) {
			result.AddError(fmt.Sprintf("expected error containing %q, got %q", expect.Error, result.Err.Error()))
		}
		return
	}

	if result.Err != nil {
		result.AddError(fmt.Sprintf("unexpected error: %v", result.Err))
		return
	}
	if expect == nil {
		return
	}

	if expect.Rows != nil {
		rows, _ := result.Output["rows"].(ir.Array)
		got := len(rows)
		if got != *expect.Rows {
			result.AddError(fmt.Sprintf("expected %d rows, got %d", *expect.Rows, got))
		}
	}

	paths := make([]string, 0, len(expect.Fields))
	for p := range expect.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if err := checkField(result.Output, p, expect.Fields[p]); err != nil {
			result.AddError(err.Error())
		}
	}
}

// checkField compares the value at path in doc with want.
func checkField(doc ir.Object, path string, want any) error {
	expected, err := ir.FromGo(want)
	if err != nil {
		return fmt.Errorf("field %s: invalid expected value: %w", path, err)
	}
	actual, err := LookupPath(doc, path)
	if err != nil {
		return fmt.Errorf("field %s: %w", path, err)
	}
	if !ir.Equal(expected, actual) {
		return fmt.Errorf("field %s: expected %s, got %s", path, describe(expected), describe(actual))
	}
	return nil
}
