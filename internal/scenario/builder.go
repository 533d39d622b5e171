package scenario

import (
	"errors"

	"github.com/roach88/pubtest/internal/publisher"
)

// ErrBuilderConsumed is returned by Read once the builder has already
// produced a scenario. The publisher instance belongs to that scenario.
var ErrBuilderConsumed = errors.New("scenario: builder already produced a scenario")

// Builder stages configuration and read parameters for a publisher of
// type P, then materializes a scenario.
//
// A Builder produces at most one scenario. It is not safe for concurrent use.
type Builder[P publisher.Publisher] struct {
	publisher P
	configure *publisher.ConfigureRequest
	err       error
	consumed  bool
}

// NewBuilder calls factory exactly once to construct the publisher.
// A factory error is returned as is and no builder is produced.
func NewBuilder[P publisher.Publisher](factory func() (P, error)) (*Builder[P], error) {
	p, err := factory()
	if err != nil {
		return nil, err
	}
	return &Builder[P]{publisher: p}, nil
}

// NewBuilderFrom wraps an already constructed publisher.
func NewBuilderFrom[P publisher.Publisher](p P) *Builder[P] {
	return &Builder[P]{publisher: p}
}

// Publisher returns the instance the produced scenario will run against.
func (b *Builder[P]) Publisher() P {
	return b.publisher
}

// Err returns the first callback error, if any.
func (b *Builder[P]) Err() error {
	return b.err
}

// Configure builds a new, empty ConfigureRequest, hands it to mutate exactly
// once, and stages the result. A second call replaces the staged request
// entirely; options are not merged.
//
// If mutate fails, the error is latched: later Configure calls are ignored
// and Read returns it. Configure is a no-op on a consumed builder.
func (b *Builder[P]) Configure(mutate func(*publisher.ConfigureRequest) error) *Builder[P] {
	if b.err != nil || b.consumed {
		return b
	}
	req := publisher.NewConfigureRequest()
	if mutate != nil {
		if err := mutate(req); err != nil {
			b.err = err
			return b
		}
	}
	b.configure = req
	return b
}

// Read builds a new, empty ReadRequest, hands it to mutate exactly once,
// and returns a ReadJob bound to the publisher, the staged configuration
// and the read request. Without a prior Configure the publisher is
// configured with an empty request.
//
// Read is terminal. It returns the latched Configure error without calling
// mutate, the mutate error itself, or ErrBuilderConsumed on reuse.
func (b *Builder[P]) Read(mutate func(*publisher.ReadRequest) error) (ReadScenario, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	if b.err != nil {
		return nil, b.err
	}
	req := publisher.NewReadRequest()
	if mutate != nil {
		if err := mutate(req); err != nil {
			b.err = err
			return nil, err
		}
	}
	b.consumed = true
	return NewReadJob(b.publisher, b.configure, req), nil
}
