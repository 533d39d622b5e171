package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pubtest/internal/publisher"
	"github.com/roach88/pubtest/internal/publisher/sqlread"
	"github.com/roach88/pubtest/internal/publisher/static"
)

const passingScenario = `name: static_pass
description: "Serves two rows and reads one"
publisher: static
configure:
  rows:
    - {id: 1, name: alpha}
    - {id: 2, name: beta}
read:
  limit: 1
expect:
  rows: 1
  fields:
    rows.0.name: alpha
assertions:
  - type: trace_order
    ops: [configure, read]
run_id: run-static-pass
`

const failingScenario = `name: static_fail
description: "Expects the wrong row count"
publisher: static
configure:
  rows:
    - {id: 1}
expect:
  rows: 3
run_id: run-static-fail
`

const sqliteScenario = `name: sqlite_pending
description: "Reads pending orders from an in-memory database"
publisher: sqlite
configure:
  dsn: ":memory:"
  setup:
    - CREATE TABLE orders (id INTEGER, status TEXT)
    - INSERT INTO orders VALUES (1, 'pending'), (2, 'shipped')
read:
  query: SELECT id FROM orders WHERE status = ?
  args: [pending]
expect:
  rows: 1
run_id: run-sqlite-pending
`

// newTestRegistry returns an isolated registry holding the built-in publishers.
func newTestRegistry() *publisher.Registry {
	reg := publisher.NewRegistry()
	reg.Register(static.Name, static.New)
	reg.Register(sqlread.Name, sqlread.New)
	return reg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with an isolated registry and returns
// stdout, stderr and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := NewRootCommandWithOptions(&RootOptions{Registry: newTestRegistry()})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
