package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Wait when a second stop signal arrives
// before every Runnable stopped.
var ErrForcedExit = errors.New("forced exit")

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun wraps a Runnable with a name.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{name: name, Runnable: runnable}
}

// NameOf returns the name of a Named, or fallback.
func NameOf(v interface{}, fallback string) string {
	if named, ok := v.(Named); ok {
		return named.Name()
	}
	return fallback
}

// Runner runs the long-lived parts of a process side by side.
// The first Runnable stopping with an error other than
// context.Canceled cancels the rest; errors are reported by Wait
// prefixed with the name of the Runnable.
type Runner struct {
	Context context.Context

	cancel context.CancelFunc
	wg     sync.WaitGroup
	exitCh chan struct{}

	lock  sync.Mutex
	count int
	errs  AggregatedError
}

// NewRunner creates a runner with a default background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a runner with a specified context.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{exitCh: make(chan struct{})}
	r.Context, r.cancel = context.WithCancel(ctx)
	return r
}

// HandleSignals stops the runner on SIGINT or SIGTERM.
// A second signal makes Wait return immediately.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		glog.Infof("%v: stop requested", sig)
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		close(r.exitCh)
	}()
	return r
}

// Go spawns Runnables with the runner context.
func (r *Runner) Go(runners ...Runnable) *Runner {
	for _, runner := range runners {
		r.lock.Lock()
		name := NameOf(runner, strconv.Itoa(r.count))
		r.count++
		r.lock.Unlock()
		r.wg.Add(1)
		go r.run(runner, name)
	}
	return r
}

func (r *Runner) run(runner Runnable, name string) {
	defer r.wg.Done()
	glog.V(4).Infof("Runner[%s] started", name)
	err := runner.Run(r.Context)
	if err == nil || errors.Is(err, context.Canceled) {
		glog.V(4).Infof("Runner[%s] stopped", name)
		return
	}
	glog.Errorf("Runner[%s] stopped: %v", name, err)
	r.lock.Lock()
	r.errs.Add(fmt.Errorf("%s: %w", name, err))
	r.lock.Unlock()
	r.cancel()
}

// Stop cancels all Runnables.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all Runnables stop and aggregates their errors.
func (r *Runner) Wait() error {
	doneCh := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(doneCh)
	}()
	select {
	case <-doneCh:
	case <-r.exitCh:
		return ErrForcedExit
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.errs.Aggregate()
}

// RunWithContextCancel runs a func which doesn't accept a context.
// onCancel is called only when the context is canceled, and must make
// fn return.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if onCancel != nil {
		onCancel()
	}
	<-errCh
	return context.Canceled
}

// RunWithContextCloser runs fn and closes closer when fn returns or the
// context is canceled, whichever happens first.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var once sync.Once
	closeOnce := func() { once.Do(func() { closer.Close() }) }
	defer closeOnce()
	return RunWithContextCancel(ctx, closeOnce, fn)
}
