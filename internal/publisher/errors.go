package publisher

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOption is wrapped by OptionError when a required name is unset.
	ErrMissingOption = errors.New("missing option")

	// ErrOptionType is wrapped by OptionError when a value has the wrong kind.
	ErrOptionType = errors.New("wrong option type")

	// ErrInvalidOption is wrapped by OptionError for any other rejected value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrUnknownPublisher is returned by Lookup for unregistered names.
	ErrUnknownPublisher = errors.New("unknown publisher")
)

// OptionError reports a rejected configuration option or read parameter.
// Publishers return it from Configure or Read.
type OptionError struct {
	// Name is the option or parameter name.
	Name string

	// Reason is a human-readable description.
	Reason string

	// Err is one of ErrMissingOption, ErrOptionType or ErrInvalidOption.
	Err error
}

// Error implements the error interface.
func (e *OptionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("option %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("option %q: %v: %s", e.Name, e.Err, e.Reason)
}

// Unwrap returns the category sentinel.
func (e *OptionError) Unwrap() error {
	return e.Err
}

// InvalidOption builds an OptionError wrapping ErrInvalidOption.
func InvalidOption(name, format string, args ...any) *OptionError {
	return &OptionError{Name: name, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidOption}
}

// IsMissingOption reports whether err is (or wraps) a missing-option error.
func IsMissingOption(err error) bool {
	return errors.Is(err, ErrMissingOption)
}
