package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/pubtest/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			switch {
			case event.Type == EventCall:
				fmt.Fprintf(&buf, "  [%d] call %s %s\n", event.Seq, event.Op, describe(event.Args))
			case event.Error != "":
				fmt.Fprintf(&buf, "  [%d] return %s error: %s\n", event.Seq, event.Op, event.Error)
			default:
				fmt.Fprintf(&buf, "  [%d] return %s\n", event.Seq, event.Op)
			}
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertResultField:
			err = assertResultField(result, assertion)
		case AssertErrorContains:
			err = assertErrorContains(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertTraceContains checks that a call to assertion.Op was recorded whose
// request contains assertion.Args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	expected, err := ir.ObjectFromMap(assertion.Args)
	if err != nil {
		return fmt.Errorf("trace_contains: invalid args: %w", err)
	}

	for _, event := range trace {
		if event.Type == EventCall && event.Op == assertion.Op && matchArgs(event.Args, expected) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s call with args %s", assertion.Op, describe(expected)),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that ops were called in the specified order.
// Calls don't need to be consecutive.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(assertion.Ops) {
			break
		}
		if event.Type == EventCall && event.Op == assertion.Ops[next] {
			next++
		}
	}

	if next < len(assertion.Ops) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("calls in order: %v", assertion.Ops),
			Actual:   fmt.Sprintf("no %s call after %v", assertion.Ops[next], assertion.Ops[:next]),
			Trace:    trace,
		}
	}
	return nil
}

// assertResultField checks a single value in the result document.
func assertResultField(result *Result, assertion Assertion) error {
	if result.Err != nil {
		return &AssertionError{
			Type:     AssertResultField,
			Expected: fmt.Sprintf("result with %s", assertion.Path),
			Actual:   fmt.Sprintf("run failed: %v", result.Err),
			Trace:    result.Trace,
		}
	}
	if err := checkField(result.Output, assertion.Path, assertion.Value); err != nil {
		return &AssertionError{
			Type:     AssertResultField,
			Expected: fmt.Sprintf("%s = %v", assertion.Path, assertion.Value),
			Actual:   err.Error(),
		}
	}
	return nil
}

// assertErrorContains checks the publisher failure message.
func assertErrorContains(result *Result, assertion Assertion) error {
	if result.Err == nil {
		return &AssertionError{
			Type:     AssertErrorContains,
			Expected: fmt.Sprintf("error containing %q", assertion.Contains),
			Actual:   "run succeeded",
			Trace:    result.Trace,
		}
	}
	if !strings.Contains(result.Err.Error(), assertion.Contains) {
		return &AssertionError{
			Type:     AssertErrorContains,
			Expected: fmt.Sprintf("error containing %q", assertion.Contains),
			Actual:   fmt.Sprintf("error %q", result.Err.Error()),
			Trace:    result.Trace,
		}
	}
	return nil
}

// matchArgs checks if actual contains all expected entries (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual, expected ir.Object) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok || !ir.Equal(got, want) {
			return false
		}
	}
	return true
}

// LookupPath resolves a dotted path such as "rows.0.name" in doc.
// Numeric segments index arrays.
func LookupPath(doc ir.Object, path string) (ir.Value, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}

	var cur ir.Value = doc
	for _, seg := range strings.Split(path, ".") {
		switch v := cur.(type) {
		case ir.Object:
			next, ok := v[seg]
			if !ok {
				return nil, fmt.Errorf("no field %q", seg)
			}
			cur = next
		case ir.Array:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil, fmt.Errorf("segment %q is not an array index", seg)
			}
			if i < 0 || i >= len(v) {
				return nil, fmt.Errorf("index %d out of range (len %d)", i, len(v))
			}
			cur = v[i]
		default:
			return nil, fmt.Errorf("cannot descend into %s at %q", describe(cur), seg)
		}
	}
	return cur, nil
}

// describe renders a value as compact canonical JSON for messages.
func describe(v ir.Value) string {
	if v == nil {
		return "<nil>"
	}
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
