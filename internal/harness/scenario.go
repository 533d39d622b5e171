package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a single publisher test.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Publisher is the registry name of the publisher under test.
	Publisher string `yaml:"publisher"`

	// Configure holds the configuration options.
	// Values are converted to ir values when the scenario runs.
	Configure map[string]any `yaml:"configure,omitempty"`

	// Read holds the read job parameters.
	Read map[string]any `yaml:"read,omitempty"`

	// Expect describes the outcome. If nil, the run must succeed.
	Expect *Expect `yaml:"expect,omitempty"`

	// Assertions validate the trace and the result.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// RunID pins the run identifier for golden comparison.
	// If empty, the harness generates one and leaves it out of snapshots.
	RunID string `yaml:"run_id,omitempty"`
}

// Expect describes the expected outcome of the read job.
type Expect struct {
	// Error, when set, requires the run to fail with a message containing it.
	Error string `yaml:"error,omitempty"`

	// Rows is the exact number of rows the read must return.
	Rows *int `yaml:"rows,omitempty"`

	// Fields maps result paths to expected values (subset match).
	Fields map[string]any `yaml:"fields,omitempty"`
}

// Assertion validates the trace or the result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": a call to Op was recorded with Args
	// - "trace_order": Ops were called in order
	// - "result_field": the value at Path equals Value
	// - "error_contains": the run failed with a message containing Contains
	Type string `yaml:"type"`

	// Op is "configure" or "read" (used by trace_contains).
	Op string `yaml:"op,omitempty"`

	// Args are the expected request values (used by trace_contains).
	// Subset match - only specified names are validated.
	Args map[string]any `yaml:"args,omitempty"`

	// Ops is the expected call order (used by trace_order).
	Ops []string `yaml:"ops,omitempty"`

	// Path addresses the result document, e.g. "rows.0.name" (used by result_field).
	Path string `yaml:"path,omitempty"`

	// Value is the expected value at Path (used by result_field).
	Value any `yaml:"value,omitempty"`

	// Contains is the expected error substring (used by error_contains).
	Contains string `yaml:"contains,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertResultField   = "result_field"
	AssertErrorContains = "error_contains"
)

// Publisher operation names as they appear in traces.
const (
	OpConfigure = "configure"
	OpRead      = "read"
)

// LoadError reports a scenario file that failed schema or field validation.
type LoadError struct {
	// Path is the scenario file.
	Path string

	// Field is the offending field path, e.g. "assertions.0.ops".
	Field string

	// Message describes the problem.
	Message string
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Path != "" {
		msg = e.Path + ": " + msg
	}
	return msg
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields, fails the schema, or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	sc, err := ParseScenario(data)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
		}
		return nil, err
	}
	return sc, nil
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decode catches typos like "assertion:" vs "assertions:".
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	if err := validateScenario(&sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ScenarioName returns the file name of path without its extension.
func ScenarioName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

// validateScenario checks the constraints the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return &LoadError{Field: "name", Message: "name is required"}
	}
	if s.Description == "" {
		return &LoadError{Field: "description", Message: "description is required"}
	}
	if s.Publisher == "" {
		return &LoadError{Field: "publisher", Message: "publisher is required"}
	}

	if s.Expect != nil {
		if s.Expect.Error != "" && (s.Expect.Rows != nil || len(s.Expect.Fields) > 0) {
			return &LoadError{Field: "expect", Message: "error cannot be combined with rows or fields"}
		}
		if s.Expect.Rows != nil && *s.Expect.Rows < 0 {
			return &LoadError{Field: "expect.rows", Message: "rows must be non-negative"}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	field := func(name string) string {
		return fmt.Sprintf("assertions.%d.%s", index, name)
	}

	switch a.Type {
	case "":
		return &LoadError{Field: field("type"), Message: "type is required"}
	case AssertTraceContains:
		if !validOp(a.Op) {
			return &LoadError{Field: field("op"), Message: fmt.Sprintf("op must be %q or %q for trace_contains", OpConfigure, OpRead)}
		}
	case AssertTraceOrder:
		if len(a.Ops) == 0 {
			return &LoadError{Field: field("ops"), Message: "ops list is required for trace_order"}
		}
		for _, op := range a.Ops {
			if !validOp(op) {
				return &LoadError{Field: field("ops"), Message: fmt.Sprintf("unknown op %q", op)}
			}
		}
	case AssertResultField:
		if a.Path == "" {
			return &LoadError{Field: field("path"), Message: "path is required for result_field"}
		}
		if a.Value == nil {
			return &LoadError{Field: field("value"), Message: "value is required for result_field"}
		}
	case AssertErrorContains:
		if a.Contains == "" {
			return &LoadError{Field: field("contains"), Message: "contains is required for error_contains"}
		}
	default:
		return &LoadError{Field: field("type"), Message: fmt.Sprintf("unknown assertion type %q", a.Type)}
	}
	return nil
}

func validOp(op string) bool {
	return op == OpConfigure || op == OpRead
}
