package publisher

import (
	"fmt"

	"github.com/roach88/pubtest/internal/ir"
)

// Values is a mutable bag of named values shared by ConfigureRequest and
// ReadRequest. The zero value is ready to use.
type Values struct {
	fields ir.Object
}

// Set converts value with ir.FromGo and stores it under name.
// Returns an error only when value has no ir representation (nil, fractional
// floats, unsupported types); nothing is stored in that case.
func (v *Values) Set(name string, value any) error {
	val, err := ir.FromGo(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	v.SetValue(name, val)
	return nil
}

// SetValue stores an ir value under name.
func (v *Values) SetValue(name string, value ir.Value) {
	if v.fields == nil {
		v.fields = make(ir.Object)
	}
	v.fields[name] = value
}

// SetString stores a string under name.
func (v *Values) SetString(name, s string) { v.SetValue(name, ir.String(s)) }

// SetInt stores an integer under name.
func (v *Values) SetInt(name string, n int64) { v.SetValue(name, ir.Int(n)) }

// SetBool stores a boolean under name.
func (v *Values) SetBool(name string, b bool) { v.SetValue(name, ir.Bool(b)) }

// Delete removes name. Deleting an unset name is a no-op.
func (v *Values) Delete(name string) {
	delete(v.fields, name)
}

// Get returns the raw value stored under name.
func (v *Values) Get(name string) (ir.Value, bool) {
	val, ok := v.fields[name]
	return val, ok
}

// Has reports whether name is set.
func (v *Values) Has(name string) bool {
	_, ok := v.fields[name]
	return ok
}

// Len returns the number of set names.
func (v *Values) Len() int {
	return len(v.fields)
}

// Names returns the set names in canonical order.
func (v *Values) Names() []string {
	return v.fields.SortedKeys()
}

// Object returns a deep copy of the contents. Never nil.
func (v *Values) Object() ir.Object {
	return v.fields.Clone()
}

// GetString returns the string stored under name.
func (v *Values) GetString(name string) (string, error) {
	val, err := v.require(name)
	if err != nil {
		return "", err
	}
	s, ok := val.(ir.String)
	if !ok {
		return "", typeError(name, "string", val)
	}
	return string(s), nil
}

// GetInt returns the integer stored under name.
func (v *Values) GetInt(name string) (int64, error) {
	val, err := v.require(name)
	if err != nil {
		return 0, err
	}
	n, ok := val.(ir.Int)
	if !ok {
		return 0, typeError(name, "int", val)
	}
	return int64(n), nil
}

// GetBool returns the boolean stored under name.
func (v *Values) GetBool(name string) (bool, error) {
	val, err := v.require(name)
	if err != nil {
		return false, err
	}
	b, ok := val.(ir.Bool)
	if !ok {
		return false, typeError(name, "bool", val)
	}
	return bool(b), nil
}

// GetArray returns the array stored under name.
func (v *Values) GetArray(name string) (ir.Array, error) {
	val, err := v.require(name)
	if err != nil {
		return nil, err
	}
	arr, ok := val.(ir.Array)
	if !ok {
		return nil, typeError(name, "array", val)
	}
	return arr, nil
}

// IntOr returns the integer under name, or def when name is unset.
// A value of the wrong kind is still an error.
func (v *Values) IntOr(name string, def int64) (int64, error) {
	if !v.Has(name) {
		return def, nil
	}
	return v.GetInt(name)
}

// StringOr returns the string under name, or def when name is unset.
func (v *Values) StringOr(name, def string) (string, error) {
	if !v.Has(name) {
		return def, nil
	}
	return v.GetString(name)
}

func (v *Values) require(name string) (ir.Value, error) {
	val, ok := v.fields[name]
	if !ok {
		return nil, &OptionError{Name: name, Err: ErrMissingOption}
	}
	return val, nil
}

func typeError(name, want string, got ir.Value) *OptionError {
	return &OptionError{
		Name:   name,
		Reason: fmt.Sprintf("expected %s, got %s", want, kindOf(got)),
		Err:    ErrOptionType,
	}
}

func kindOf(v ir.Value) string {
	switch v.(type) {
	case ir.String:
		return "string"
	case ir.Int:
		return "int"
	case ir.Bool:
		return "bool"
	case ir.Array:
		return "array"
	case ir.Object:
		return "object"
	case ir.Null:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ConfigureRequest carries the configuration options applied to a publisher
// before any operation runs.
type ConfigureRequest struct {
	Values
}

// NewConfigureRequest returns an empty request.
func NewConfigureRequest() *ConfigureRequest {
	return &ConfigureRequest{}
}

// Clone returns a deep copy.
func (r *ConfigureRequest) Clone() *ConfigureRequest {
	return &ConfigureRequest{Values: Values{fields: r.fields.Clone()}}
}

// Fingerprint returns the content-addressed identity of the options.
func (r *ConfigureRequest) Fingerprint() (string, error) {
	return ir.Fingerprint(ir.DomainConfigure, r.fields)
}

// ReadRequest carries the parameters of a single read job.
type ReadRequest struct {
	Values
}

// NewReadRequest returns an empty request.
func NewReadRequest() *ReadRequest {
	return &ReadRequest{}
}

// Clone returns a deep copy.
func (r *ReadRequest) Clone() *ReadRequest {
	return &ReadRequest{Values: Values{fields: r.fields.Clone()}}
}

// Fingerprint returns the content-addressed identity of the parameters.
func (r *ReadRequest) Fingerprint() (string, error) {
	return ir.Fingerprint(ir.DomainRead, r.fields)
}
