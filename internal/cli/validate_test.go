package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidScenarios(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "static_pass.yaml", passingScenario)
	writeFile(t, dir, "nested/sqlite_pending.yml", sqliteScenario)

	stdout, _, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ All 2 scenario(s) valid")
}

func TestValidateValidScenariosJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "static_pass.yaml", passingScenario)

	stdout, _, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 1, resp.Data.Scenarios)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	stdout, _, err := execute(t, "validate", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E005]")
}

func TestValidateEmptyDirectory(t *testing.T) {
	stdout, _, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, ErrCodeNoFiles)
	assert.Contains(t, err.Error(), "no scenario files found")
}

func TestValidateSkipsGoldenDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "static_pass.yaml", passingScenario)
	writeFile(t, dir, "golden/ignored.yaml", "not: [a scenario")

	stdout, _, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "All 1 scenario(s) valid")
}

func TestValidateInvalidScenarios(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    string
		field   string
	}{
		{
			name:    "malformed yaml",
			content: "name: [unclosed\n",
			code:    ErrCodeParseFailed,
		},
		{
			name:    "missing publisher",
			content: "name: x\ndescription: d\n",
			code:    ErrCodeInvalidScenario,
			field:   "publisher",
		},
		{
			name:    "unknown publisher",
			content: "name: x\ndescription: d\npublisher: kafka\n",
			code:    ErrCodeUnknownPublisher,
			field:   "publisher",
		},
		{
			name:    "assertion missing ops",
			content: "name: x\ndescription: d\npublisher: static\nassertions:\n  - type: trace_order\n",
			code:    ErrCodeInvalidScenario,
			field:   "assertions.0.ops",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "broken.yaml", tt.content)

			stdout, _, err := execute(t, "--format", "json", "validate", dir)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			var resp struct {
				Status string           `json:"status"`
				Data   ValidationResult `json:"data"`
				Error  *CLIError        `json:"error"`
			}
			require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
			assert.Equal(t, "error", resp.Status)
			assert.False(t, resp.Data.Valid)
			require.Len(t, resp.Data.Errors, 1)

			issue := resp.Data.Errors[0]
			assert.Equal(t, tt.code, issue.Code)
			assert.Equal(t, path, issue.File)
			if tt.field != "" {
				assert.Contains(t, issue.Field, tt.field)
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestValidateMultipleErrorsText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: a\ndescription: d\npublisher: nope\n")
	writeFile(t, dir, "b.yaml", "name: b\ndescription: d\npublisher: static\nexpect:\n  error: x\n  rows: 1\n")
	writeFile(t, dir, "c.yaml", passingScenario)

	stdout, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")

	assert.Contains(t, stdout, "✗ Validation failed")
	assert.Contains(t, stdout, "a.yaml")
	assert.Contains(t, stdout, "E007: publisher:")
	assert.Contains(t, stdout, "b.yaml")
	assert.Contains(t, stdout, "E006: expect:")
	assert.NotContains(t, stdout, "c.yaml")
}

func TestValidateVerboseOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "static_pass.yaml", passingScenario)

	stdout, stderr, err := execute(t, "--verbose", "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "All 1 scenario(s) valid")
	assert.Contains(t, stderr, "Found 1 scenario file(s)")
	assert.Contains(t, stderr, "Valid: static_pass")
}

func TestFindScenarioFiles_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sqlite_a.yaml", sqliteScenario)
	writeFile(t, dir, "sqlite_b.yml", sqliteScenario)
	writeFile(t, dir, "static_a.yaml", passingScenario)
	writeFile(t, dir, "notes.txt", "ignored")

	files, err := FindScenarioFiles(dir, "sqlite_*")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "sqlite_a.yaml"),
		filepath.Join(dir, "sqlite_b.yml"),
	}, files)

	_, err = FindScenarioFiles(dir, "[")
	assert.ErrorContains(t, err, "invalid filter pattern")
}

func TestLoadScenarios_FailFast(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: a\ndescription: d\npublisher: nope\n")
	writeFile(t, dir, "b.yaml", "name: b\ndescription: d\npublisher: nope\n")

	loaded, errs := LoadScenarios(dir, "", newTestRegistry(), LoadModeFailFast)
	assert.Empty(t, loaded)
	assert.Len(t, errs, 1)

	loaded, errs = LoadScenarios(dir, "", newTestRegistry(), LoadModeCollectAll)
	assert.Empty(t, loaded)
	assert.Len(t, errs, 2)
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeInvalidScenario, File: "a.yaml", Field: "name", Message: "name is required"}
	assert.Equal(t, "a.yaml: E006: name: name is required", err.Error())

	err = &LoadError{Code: ErrCodeNoFiles, Message: "no scenario files found in x"}
	assert.Equal(t, "E003: no scenario files found in x", err.Error())
}
