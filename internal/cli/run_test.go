package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "static_pass.yaml", passingScenario)

	stdout, _, err := execute(t, "run", path)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"Scenario: static_pass",
		"Publisher: static",
		"Run ID: run-static-pass",
		"",
		"=== Timeline ===",
		"  [1] CALL configure",
		"  [2] RET  configure",
		"  [3] CALL read",
		"  [4] RET  read",
		"",
		"Rows: 1",
		"✓ static_pass",
		"",
	}, "\n")
	assert.Equal(t, expected, stdout)
}

func TestRunCommandVerbose(t *testing.T) {
	path := writeFile(t, t.TempDir(), "static_pass.yaml", passingScenario)

	stdout, stderr, err := execute(t, "run", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, `       Args: {"limit":1}`)
	assert.Contains(t, stdout, "       Fingerprint: ")
	assert.Contains(t, stdout, `       Result: {"metadata":{"source":"static","total":2}`)
	assert.Contains(t, stderr, "Running static_pass with publisher static")
	assert.Contains(t, stderr, "scenario completed")
}

func TestRunCommandRunIDFlag(t *testing.T) {
	path := writeFile(t, t.TempDir(), "static_pass.yaml", passingScenario)

	stdout, _, err := execute(t, "run", path, "--run-id", "debug-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Run ID: debug-1")
}

func TestRunCommandFailingScenario(t *testing.T) {
	path := writeFile(t, t.TempDir(), "static_fail.yaml", failingScenario)

	stdout, _, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ static_fail")
	assert.Contains(t, stdout, "expected 3 rows, got 1")
}

func TestRunCommandPublisherError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "static_failure.yaml", `name: static_failure
description: "Injected failure"
publisher: static
configure:
  fail: upstream unavailable
expect:
  error: upstream unavailable
`)

	stdout, _, err := execute(t, "run", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "  [4] FAIL read: static: injected failure: upstream unavailable")
	assert.Contains(t, stdout, "Publisher error: static: injected failure: upstream unavailable")
}

func TestRunCommandJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sqlite_pending.yaml", sqliteScenario)

	stdout, _, err := execute(t, "--format", "json", "run", path)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		RunID  string    `json:"run_id"`
		Data   RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-sqlite-pending", resp.RunID)
	assert.Equal(t, "sqlite_pending", resp.Data.Scenario)
	assert.True(t, resp.Data.Pass)
	assert.Len(t, resp.Data.Trace, 4)
	assert.Empty(t, resp.Data.Error)
}

func TestRunCommandJSONFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "static_fail.yaml", failingScenario)

	stdout, _, err := execute(t, "--format", "json", "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string    `json:"status"`
		Data   RunOutput `json:"data"`
		Error  *CLIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Pass)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestRunCommandLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml"), ErrCodeNotFound},
		{"invalid scenario", writeFile(t, dir, "bad.yaml", "name: x\ndescription: d\n"), ErrCodeInvalidScenario},
		{"unknown publisher", writeFile(t, dir, "kafka.yaml", "name: x\ndescription: d\npublisher: kafka\n"), ErrCodeUnknownPublisher},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "run", tt.path)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, stdout, "Error ["+tt.code+"]")
		})
	}
}

func TestRunCommandRunFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "null.yaml", `name: null_limit
description: "Null values cannot enter a request"
publisher: static
read:
  limit: null
`)

	stdout, _, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E008]")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", truncateID("abc"))
	assert.Equal(t, "0123456789abcdef...", truncateID("0123456789abcdef0123"))
}
