package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunnerCancelsOnError(t *testing.T) {
	failure := errors.New("failure")
	r := NewRunner()
	r.Go(
		NamedRun("waiter", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(ctx context.Context) error {
			return failure
		}),
	)
	err := r.Wait()
	require.ErrorIs(t, err, failure)
	require.EqualError(t, err, "1: failure")
}

func TestRunnerAggregatesNamedErrors(t *testing.T) {
	r := NewRunner()
	r.Go(
		NamedRun("motion", RunFunc(func(ctx context.Context) error {
			return ErrRestart
		})),
		NamedRun("eyes", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return errors.New("drain failed")
		})),
	)
	err := r.Wait()
	errs, ok := err.(*AggregatedError)
	require.True(t, ok)
	require.True(t, errs.Has(ErrRestart))
	require.Len(t, errs.Errors, 2)
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.Stop()
	require.NoError(t, r.Wait())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())

	e1, e2 := errors.New("e1"), errors.New("e2")
	require.Equal(t, e1, errs.Add(e1).Aggregate())
	err := errs.Add(e2).Aggregate()
	require.EqualError(t, err, "Multiple errors:\ne1\ne2")
	require.True(t, errs.Has(e2))
	require.False(t, errs.Has(ErrRestart))
}

func TestRunWithContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	var canceled bool
	cancel()
	err := RunWithContextCancel(ctx, func() {
		canceled = true
		close(unblock)
	}, func() error {
		<-unblock
		return nil
	})
	require.Equal(t, context.Canceled, err)
	require.True(t, canceled)
}

func TestRunWithContextCloser(t *testing.T) {
	closer := &countingCloser{}
	require.NoError(t, RunWithContextCloser(context.Background(), closer, func() error { return nil }))
	require.Equal(t, 1, closer.closed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	closer = &countingCloser{unblock: make(chan struct{})}
	err := RunWithContextCloser(ctx, closer, func() error {
		<-closer.unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, closer.closed)
}

type countingCloser struct {
	closed  int
	unblock chan struct{}
}

func (c *countingCloser) Close() error {
	c.closed++
	if c.unblock != nil {
		close(c.unblock)
	}
	return nil
}
