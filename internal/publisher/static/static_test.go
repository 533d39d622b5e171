package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pubtest/internal/ir"
	"github.com/roach88/pubtest/internal/publisher"
	"github.com/roach88/pubtest/internal/scenario"
)

var fixtureRows = ir.Array{
	ir.Object{"id": ir.Int(1), "name": ir.String("alpha")},
	ir.Object{"id": ir.Int(2), "name": ir.String("beta")},
	ir.Object{"id": ir.Int(3), "name": ir.String("gamma")},
}

func TestRegistered(t *testing.T) {
	f, err := publisher.Lookup(Name)
	require.NoError(t, err)
	p, err := f()
	require.NoError(t, err)
	assert.IsType(t, &Publisher{}, p)
}

func TestReadAllRows(t *testing.T) {
	p := &Publisher{}
	cfg := publisher.NewConfigureRequest()
	cfg.SetValue("rows", fixtureRows)
	require.NoError(t, p.Configure(context.Background(), cfg))

	res, err := p.Read(context.Background(), publisher.NewReadRequest())
	require.NoError(t, err)
	assert.Equal(t, fixtureRows, res.Rows)
	assert.Equal(t, ir.Object{"source": ir.String("static"), "total": ir.Int(3)}, res.Metadata)
}

func TestReadLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int64
		want  int
	}{
		{"zero", 0, 0},
		{"fewer", 2, 2},
		{"exact", 3, 3},
		{"more", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Publisher{}
			cfg := publisher.NewConfigureRequest()
			cfg.SetValue("rows", fixtureRows)
			require.NoError(t, p.Configure(context.Background(), cfg))

			rd := publisher.NewReadRequest()
			rd.SetInt("limit", tt.limit)
			res, err := p.Read(context.Background(), rd)
			require.NoError(t, err)
			assert.Len(t, res.Rows, tt.want)
			assert.Equal(t, ir.Int(3), res.Metadata["total"])
		})
	}
}

func TestReadNegativeLimit(t *testing.T) {
	p := &Publisher{}
	require.NoError(t, p.Configure(context.Background(), publisher.NewConfigureRequest()))

	rd := publisher.NewReadRequest()
	rd.SetInt("limit", -1)
	_, err := p.Read(context.Background(), rd)
	assert.ErrorIs(t, err, publisher.ErrInvalidOption)
}

func TestReadUnconfiguredIsEmpty(t *testing.T) {
	p := &Publisher{}
	res, err := p.Read(context.Background(), publisher.NewReadRequest())
	require.NoError(t, err)
	assert.NotNil(t, res.Rows)
	assert.Empty(t, res.Rows)
}

func TestInjectedFailure(t *testing.T) {
	p := &Publisher{}
	cfg := publisher.NewConfigureRequest()
	cfg.SetString("fail", "upstream unavailable")
	require.NoError(t, p.Configure(context.Background(), cfg))

	_, err := p.Read(context.Background(), publisher.NewReadRequest())
	require.ErrorIs(t, err, ErrInjectedFailure)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestConfigureRejectsBadRows(t *testing.T) {
	p := &Publisher{}

	cfg := publisher.NewConfigureRequest()
	cfg.SetString("rows", "nope")
	assert.ErrorIs(t, p.Configure(context.Background(), cfg), publisher.ErrOptionType)

	cfg = publisher.NewConfigureRequest()
	cfg.SetValue("rows", ir.Array{ir.Int(1)})
	assert.ErrorIs(t, p.Configure(context.Background(), cfg), publisher.ErrInvalidOption)
}

func TestServedRowsAreCopies(t *testing.T) {
	p := &Publisher{}
	cfg := publisher.NewConfigureRequest()
	cfg.SetValue("rows", fixtureRows.Clone())
	require.NoError(t, p.Configure(context.Background(), cfg))

	res, err := p.Read(context.Background(), publisher.NewReadRequest())
	require.NoError(t, err)
	res.Rows[0].(ir.Object)["name"] = ir.String("mutated")

	again, err := p.Read(context.Background(), publisher.NewReadRequest())
	require.NoError(t, err)
	assert.Equal(t, ir.String("alpha"), again.Rows[0].(ir.Object)["name"])
}

func TestThroughScenarioBuilder(t *testing.T) {
	b, err := scenario.NewBuilder(New)
	require.NoError(t, err)

	s, err := b.
		Configure(func(c *publisher.ConfigureRequest) error {
			return c.Set("rows", []any{
				map[string]any{"id": 1},
				map[string]any{"id": 2},
			})
		}).
		Read(func(r *publisher.ReadRequest) error {
			r.SetInt("limit", 1)
			return nil
		})
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowCount())
	assert.Equal(t, ir.Object{"id": ir.Int(1)}, res.Rows[0])
}
