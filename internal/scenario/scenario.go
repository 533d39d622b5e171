package scenario

import (
	"context"

	"github.com/roach88/pubtest/internal/publisher"
)

// Scenario is an executable test scenario producing an outcome of type R.
// Each operation kind is a variant; ReadJob is the read variant.
type Scenario[R any] interface {
	// Run executes the captured publisher against the captured requests.
	// Publisher failures are returned unmodified.
	Run(ctx context.Context) (R, error)
}

// ReadScenario is the scenario returned by Builder.Read.
type ReadScenario = Scenario[*publisher.ReadResult]

// Func adapts an ordinary function to the Scenario interface.
type Func[R any] func(ctx context.Context) (R, error)

// Run calls f(ctx).
func (f Func[R]) Run(ctx context.Context) (R, error) {
	return f(ctx)
}
