package publisher

import (
	"context"

	"github.com/roach88/pubtest/internal/ir"
)

// Publisher is the plugin-under-test.
//
// Configure is always called before Read. Implementations may do
// asynchronous work internally but must return only when the call has
// completed.
type Publisher interface {
	// Configure applies the configuration options.
	Configure(ctx context.Context, req *ConfigureRequest) error

	// Read performs a single read job.
	Read(ctx context.Context, req *ReadRequest) (*ReadResult, error)
}

// Factory constructs a fresh, unconfigured publisher instance.
type Factory func() (Publisher, error)

// ReadResult is the outcome of a successful read job.
type ReadResult struct {
	// Rows holds the records produced by the job, usually ir.Object values.
	Rows ir.Array `json:"rows"`

	// Metadata carries publisher-defined fields (cursor, source, ...).
	Metadata ir.Object `json:"metadata,omitempty"`
}

// RowCount returns the number of rows. Safe on a nil result.
func (r *ReadResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Object returns the result as a single ir.Object:
//
//	{"rows": [...], "row_count": N, "metadata": {...}}
//
// This is the document that result assertions address by path.
func (r *ReadResult) Object() ir.Object {
	if r == nil {
		return ir.Object{"rows": ir.Array{}, "row_count": ir.Int(0), "metadata": ir.Object{}}
	}
	rows := r.Rows.Clone()
	if rows == nil {
		rows = ir.Array{}
	}
	return ir.Object{
		"rows":      rows,
		"row_count": ir.Int(len(r.Rows)),
		"metadata":  r.Metadata.Clone(),
	}
}
