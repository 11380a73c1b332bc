package motion

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/eyebot/pkg/framework"
	"github.com/robotalks/eyebot/pkg/hal"
)

// ProgressResetter resets the color decoder progress on EyeReset.
type ProgressResetter interface {
	ResetProgress() error
}

// Dispatcher reads command bytes from the primary channel and executes
// them one at a time. A maneuver blocks the Dispatcher until it
// completes, bytes arriving meanwhile wait in the channel.
type Dispatcher struct {
	Channel  io.ReadWriter
	Left     hal.Actuator
	Right    hal.Actuator
	Progress ProgressResetter
	// Platform enables SoftReset when set.
	Platform hal.Platform
	Clock    fx.Clock
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(ch io.ReadWriter, left, right hal.Actuator) *Dispatcher {
	return &Dispatcher{Channel: ch, Left: left, Right: right}
}

// Name implements Named.
func (d *Dispatcher) Name() string {
	return "motion"
}

// Dispatch handles one command byte. Unrecognized bytes are dropped.
// The returned error is fatal to the channel: failing to acknowledge,
// cancellation or fx.ErrRestart after SoftReset.
func (d *Dispatcher) Dispatch(ctx context.Context, b byte) error {
	cmd := Command(b)
	if m, ok := cmd.Lookup(); ok {
		return d.execute(ctx, cmd, m)
	}
	switch cmd {
	case EyeReset:
		if p := d.Progress; p != nil {
			if err := p.ResetProgress(); err != nil {
				glog.Warningf("motion: eye reset: %v", err)
			}
		}
		return nil
	case SoftReset:
		if d.Platform != nil {
			return d.restart()
		}
	}
	glog.V(2).Infof("motion: ignored byte %#02x", b)
	return nil
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command, m Maneuver) error {
	glog.V(2).Infof("motion: %s for %s", cmd, m.Duration)
	err := d.drive(m.Left, m.Right)
	if err == nil {
		select {
		case <-fx.ClockOrDefault(d.Clock).After(m.Duration):
		case <-ctx.Done():
			if stopErr := d.drive(Stop, Stop); stopErr != nil {
				glog.Errorf("motion: %s canceled, stop failed: %v", cmd, stopErr)
			}
			return ctx.Err()
		}
	}
	if stopErr := d.drive(Stop, Stop); err == nil {
		err = stopErr
	}
	if err != nil {
		glog.Errorf("motion: %s aborted: %v", cmd, err)
		return nil
	}
	if _, err = d.Channel.Write(Ack); err != nil {
		return fmt.Errorf("write ack: %v", err)
	}
	return nil
}

func (d *Dispatcher) drive(left, right int) error {
	var errs fx.AggregatedError
	errs.Add(d.Left.SetPosition(left), d.Right.SetPosition(right))
	return errs.Aggregate()
}

func (d *Dispatcher) restart() error {
	glog.Info("motion: soft reset")
	if closer, ok := d.Channel.(io.Closer); ok {
		closer.Close()
	}
	if err := d.Platform.Restart(); err != nil {
		return fmt.Errorf("soft reset: %v", err)
	}
	return fx.ErrRestart
}

// Run implements Runnable. The end of the command channel only ends
// motion, Run returns nil so the rest of the process keeps running.
func (d *Dispatcher) Run(ctx context.Context) error {
	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.readLoop(subCtx, chunkCh, errCh)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if errors.Is(err, io.EOF) {
				glog.Info("motion: command channel closed")
				return nil
			}
			return err
		case chunk := <-chunkCh:
			for _, b := range chunk {
				if err := d.Dispatch(ctx, b); err != nil {
					return err
				}
			}
		}
	}
}

func (d *Dispatcher) readLoop(ctx context.Context, chunkCh chan []byte, errCh chan error) {
	buf := make([]byte, 64)
	for {
		n, err := d.Channel.Read(buf)
		if n > 0 {
			select {
			case chunkCh <- append([]byte(nil), buf[:n]...):
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
