// Package static is an in-memory reference publisher. It serves the rows it
// was configured with and can be told to fail, which makes it the fixture of
// choice for harness scenarios that need no external resources.
//
// Configure options:
//
//	rows   array   optional  objects to serve, default empty
//	fail   string  optional  when set, Read fails with this message
//
// Read parameters:
//
//	limit  int     optional  maximum rows to return, must be >= 0
package static

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/pubtest/internal/ir"
	"github.com/roach88/pubtest/internal/publisher"
)

// Name is the registry name.
const Name = "static"

// ErrInjectedFailure is wrapped by Read when the fail option is set.
var ErrInjectedFailure = errors.New("static: injected failure")

func init() {
	publisher.Register(Name, New)
}

// Publisher serves a fixed row set.
type Publisher struct {
	rows ir.Array
	fail string
}

// New returns an unconfigured publisher. Reading from it yields no rows.
func New() (publisher.Publisher, error) {
	return &Publisher{}, nil
}

// Configure replaces the row set and the failure message.
func (p *Publisher) Configure(_ context.Context, req *publisher.ConfigureRequest) error {
	rows := ir.Array{}
	if req.Has("rows") {
		arr, err := req.GetArray("rows")
		if err != nil {
			return err
		}
		for i, row := range arr {
			if _, ok := row.(ir.Object); !ok {
				return publisher.InvalidOption("rows", "element %d is not an object", i)
			}
		}
		rows = arr.Clone()
	}

	fail, err := req.StringOr("fail", "")
	if err != nil {
		return err
	}

	p.rows = rows
	p.fail = fail
	return nil
}

// Read returns up to limit rows, or all of them when limit is unset.
func (p *Publisher) Read(_ context.Context, req *publisher.ReadRequest) (*publisher.ReadResult, error) {
	limit, err := req.IntOr("limit", -1)
	if err != nil {
		return nil, err
	}
	if req.Has("limit") && limit < 0 {
		return nil, publisher.InvalidOption("limit", "must be >= 0, got %d", limit)
	}

	if p.fail != "" {
		return nil, fmt.Errorf("%w: %s", ErrInjectedFailure, p.fail)
	}

	rows := p.rows.Clone()
	if rows == nil {
		rows = ir.Array{}
	}
	if limit >= 0 && int64(len(rows)) > limit {
		rows = rows[:limit]
	}

	return &publisher.ReadResult{
		Rows: rows,
		Metadata: ir.Object{
			"source": ir.String(Name),
			"total":  ir.Int(len(p.rows)),
		},
	}, nil
}
