// Package stream feeds a raw byte stream into the color receiver.
package stream

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/eyebot/pkg/eyes"
	fx "github.com/robotalks/eyebot/pkg/framework"
	"github.com/robotalks/eyebot/pkg/link"
)

// Pump turns every Read from the stream into one receive event.
// Plain streams have no request direction, so queries are not served.
type Pump struct {
	Reader   io.Reader
	Receiver link.Receiver
	// BufferSize limits the bytes delivered per event.
	BufferSize int
}

// DefaultBufferSize is the default read size.
const DefaultBufferSize = 64

// NewPump creates a Pump.
func NewPump(r io.Reader, recv link.Receiver) *Pump {
	return &Pump{Reader: r, Receiver: recv, BufferSize: DefaultBufferSize}
}

// Name implements Named.
func (p *Pump) Name() string {
	return "color-stream"
}

// Run implements Runnable. The reader is closed on cancel when it is
// an io.Closer, so a blocking Read returns.
func (p *Pump) Run(ctx context.Context) error {
	if closer, ok := p.Reader.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, p.pump)
	}
	return fx.RunWithContextCancel(ctx, nil, p.pump)
}

func (p *Pump) pump() error {
	size := p.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]byte, size)
	for {
		n, err := p.Reader.Read(buf)
		if n > 0 {
			glog.V(4).Infof("color-stream: % x", buf[:n])
			if rerr := p.Receiver.Receive(buf[:n]); rerr != nil {
				if errors.Is(rerr, eyes.ErrStopped) {
					return context.Canceled
				}
				return rerr
			}
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			return err
		}
	}
}
