package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pubtest/internal/ir"
	"github.com/roach88/pubtest/internal/publisher"
	"github.com/roach88/pubtest/internal/testutil"
)

func newRecorder() (*testutil.RecordingPublisher, error) {
	return testutil.NewRecordingPublisher(), nil
}

func TestNewBuilder_ConstructsExactlyOneInstance(t *testing.T) {
	factory := &testutil.CountingFactory[*testutil.RecordingPublisher]{New: newRecorder}

	b, err := NewBuilder(factory.Build)
	require.NoError(t, err)
	assert.Equal(t, 1, factory.Calls)

	s, err := b.
		Configure(func(c *publisher.ConfigureRequest) error { return nil }).
		Read(func(r *publisher.ReadRequest) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, factory.Calls, "Configure and Read must not construct publishers")

	job, ok := s.(*ReadJob)
	require.True(t, ok)
	assert.Same(t, b.Publisher(), job.Publisher(), "scenario runs against the builder's instance")
}

func TestNewBuilder_FactoryErrorPropagates(t *testing.T) {
	boom := errors.New("cannot construct")

	b, err := NewBuilder(func() (*testutil.RecordingPublisher, error) { return nil, boom })
	assert.Nil(t, b)
	assert.Same(t, boom, err)
}

func TestNewBuilderFrom(t *testing.T) {
	p := testutil.NewRecordingPublisher()
	b := NewBuilderFrom(p)
	assert.Same(t, p, b.Publisher())
}

func TestConfigure_LastWriteWins(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	s, err := b.
		Configure(func(c *publisher.ConfigureRequest) error {
			c.SetInt("timeout", 5)
			c.SetString("region", "eu")
			return nil
		}).
		Configure(func(c *publisher.ConfigureRequest) error {
			c.SetString("dsn", ":memory:")
			return nil
		}).
		Read(func(r *publisher.ReadRequest) error { return nil })
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	calls := b.Publisher().Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, ir.Object{"dsn": ir.String(":memory:")}, calls[0].Values,
		"options from the first Configure must not survive")
}

func TestConfigure_CallbackInvokedOnceSynchronously(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	calls := 0
	var got *publisher.ConfigureRequest
	b.Configure(func(c *publisher.ConfigureRequest) error {
		calls++
		got = c
		assert.Equal(t, 0, c.Len(), "request starts empty")
		return nil
	})

	assert.Equal(t, 1, calls)
	require.NotNil(t, got)
}

func TestConfigure_ReturnsSameBuilder(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)
	assert.Same(t, b, b.Configure(nil))
}

func TestRead_IsTerminal(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	var s ReadScenario
	s, err = b.Read(func(r *publisher.ReadRequest) error { return nil })
	require.NoError(t, err)
	require.NotNil(t, s)

	// The returned value exposes Run and nothing else of the builder.
	_, isBuilder := any(s).(interface {
		Configure(func(*publisher.ConfigureRequest) error) *Builder[*testutil.RecordingPublisher]
	})
	assert.False(t, isBuilder)
}

func TestRead_WithoutConfigureUsesEmptyConfiguration(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	s, err := b.Read(func(r *publisher.ReadRequest) error {
		r.SetString("query", "X")
		return nil
	})
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	calls := b.Publisher().Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "configure", calls[0].Op, "Configure still runs, with no options")
	assert.Empty(t, calls[0].Values)
}

func TestConfigure_CallbackErrorPropagates(t *testing.T) {
	boom := errors.New("bad option")
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	readCalled := false
	s, err := b.
		Configure(func(c *publisher.ConfigureRequest) error { return boom }).
		Read(func(r *publisher.ReadRequest) error {
			readCalled = true
			return nil
		})

	assert.Nil(t, s)
	assert.Same(t, boom, err)
	assert.Same(t, boom, b.Err())
	assert.False(t, readCalled, "Read callback must not run after a failed Configure")
	assert.Empty(t, b.Publisher().Calls(), "no publisher interaction during construction")
}

func TestConfigure_ErrorIsLatched(t *testing.T) {
	boom := errors.New("first failure")
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	secondCalled := false
	b.Configure(func(c *publisher.ConfigureRequest) error { return boom }).
		Configure(func(c *publisher.ConfigureRequest) error {
			secondCalled = true
			return nil
		})

	assert.False(t, secondCalled)
	assert.Same(t, boom, b.Err())
}

func TestRead_CallbackErrorPropagates(t *testing.T) {
	boom := errors.New("bad param")
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	s, err := b.Read(func(r *publisher.ReadRequest) error { return boom })
	assert.Nil(t, s)
	assert.Same(t, boom, err)
}

func TestRead_CallbackPanicPropagates(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = b.Read(func(r *publisher.ReadRequest) error { panic("kaboom") })
	})
}

func TestRead_ReuseReturnsErrBuilderConsumed(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	_, err = b.Read(nil)
	require.NoError(t, err)

	configureCalled := false
	b.Configure(func(c *publisher.ConfigureRequest) error {
		configureCalled = true
		return nil
	})
	assert.False(t, configureCalled)

	s, err := b.Read(nil)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrBuilderConsumed)
}

func TestEndToEnd_RecordsConfigureThenRead(t *testing.T) {
	b, err := NewBuilder(newRecorder)
	require.NoError(t, err)

	s, err := b.
		Configure(func(c *publisher.ConfigureRequest) error { return c.Set("timeout", 5) }).
		Read(func(r *publisher.ReadRequest) error { return r.Set("query", "X") })
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []testutil.Call{
		{Op: "configure", Values: ir.Object{"timeout": ir.Int(5)}},
		{Op: "read", Values: ir.Object{"query": ir.String("X")}},
	}, b.Publisher().Calls())
}

func TestEndToEnd_ReadFailureSurfacesUnchanged(t *testing.T) {
	readErr := errors.New("upstream unavailable")
	b, err := NewBuilder(func() (*testutil.RecordingPublisher, error) {
		return &testutil.RecordingPublisher{ReadErr: readErr}, nil
	})
	require.NoError(t, err)

	s, err := b.
		Configure(func(c *publisher.ConfigureRequest) error { return nil }).
		Read(func(r *publisher.ReadRequest) error { return nil })
	require.NoError(t, err)

	res, err := s.Run(context.Background())
	assert.Nil(t, res)
	assert.Same(t, readErr, err, "the publisher's error must not be wrapped")
}

func TestBuilder_WithRegistryFactory(t *testing.T) {
	reg := publisher.NewRegistry()
	reg.Register("recorder", func() (publisher.Publisher, error) {
		return testutil.NewRecordingPublisher(), nil
	})

	factory, err := reg.Lookup("recorder")
	require.NoError(t, err)

	b, err := NewBuilder(factory)
	require.NoError(t, err)

	s, err := b.Read(nil)
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)

	rec, ok := b.Publisher().(*testutil.RecordingPublisher)
	require.True(t, ok)
	assert.Equal(t, []string{"configure", "read"}, rec.Ops())
}
