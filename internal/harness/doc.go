// Package harness runs declarative publisher test scenarios.
//
// A scenario names a registered publisher, the configuration options and
// read parameters to hand it, and what the outcome should look like. The
// harness drives the publisher through scenario.Builder exactly as a Go test
// would, records every call in a deterministic trace, and checks the result.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: orders_by_status
//	description: "Pending orders are returned oldest first"
//	publisher: sqlite
//	configure:
//	  dsn: ":memory:"
//	  setup:
//	    - CREATE TABLE orders (id INTEGER, status TEXT)
//	    - INSERT INTO orders VALUES (1, 'pending'), (2, 'shipped')
//	read:
//	  query: SELECT id FROM orders WHERE status = ?
//	  args: [pending]
//	expect:
//	  rows: 1
//	  fields:
//	    rows.0.id: 1
//	assertions:
//	  - type: trace_order
//	    ops: [configure, read]
//
// Unknown fields are rejected, and every document is checked against an
// embedded CUE schema before the Go-level validation runs.
//
// # Expectations
//
// The expect block describes the outcome:
//
//   - error: the run must fail and the message must contain this text
//   - rows: exact number of rows returned
//   - fields: path/value pairs checked against the result document
//
// Without an expect block the run must simply succeed.
//
// # Assertion Types
//
//   - trace_contains: a call to op was made with args as a subset of its request
//   - trace_order: the listed ops were called in this order
//   - result_field: the value at path in the result document equals value
//   - error_contains: the run failed with a message containing the text
//
// # Deterministic Testing
//
// Trace events are stamped by a logical clock, and request contents carry a
// content-addressed fingerprint, so two runs of the same scenario produce
// byte-identical traces. Run IDs come from the scenario's run_id when set,
// otherwise from a UUIDv7 generator; golden snapshots only include the run ID
// when the scenario pins it.
//
// # Usage
//
//	sc, err := harness.LoadScenario("testdata/scenarios/orders.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, sc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
