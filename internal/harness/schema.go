package harness

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema/scenario.cue
var scenarioSchemaSource string

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaVal  cue.Value
	schemaErr  error
)

// scenarioSchema compiles the embedded schema once and returns #Scenario.
func scenarioSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(scenarioSchemaSource, cue.Filename("scenario.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaVal = v.LookupPath(cue.ParsePath("#Scenario"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("lookup #Scenario: %w", err)
		}
	})
	return schemaCtx, schemaVal, schemaErr
}

// validateSchema checks a decoded YAML document against #Scenario.
// The first CUE error is returned as a LoadError.
func validateSchema(doc map[string]any) error {
	ctx, schema, err := scenarioSchema()
	if err != nil {
		return err
	}

	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return &LoadError{Message: fmt.Sprintf("encode document: %v", err)}
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

// formatSchemaError converts the first CUE error to a LoadError.
func formatSchemaError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Message: err.Error()}
	}

	first := errs[0]
	path := first.Path()
	if len(path) > 0 && path[0] == "#Scenario" {
		path = path[1:]
	}
	format, args := first.Msg()
	return &LoadError{
		Field:   strings.Join(path, "."),
		Message: fmt.Sprintf(format, args...),
	}
}
