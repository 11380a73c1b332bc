package mqtt

import (
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/eyebot/pkg/framework"
	"github.com/robotalks/eyebot/pkg/hal"
	"github.com/robotalks/eyebot/pkg/link"
	"github.com/robotalks/eyebot/pkg/msgs"
)

// FramePublisher decorates a Strip and publishes every committed frame
// as msgs.StripFrame on <ref>/frame.
type FramePublisher struct {
	Strip hal.Strip
	Ref   link.BotRef
	Pub   Publisher
	Clock fx.Clock

	lock   sync.Mutex
	pixels []hal.Color
	seq    uint32
}

// NewFramePublisher creates a FramePublisher.
func NewFramePublisher(strip hal.Strip, ref link.BotRef, pub Publisher) *FramePublisher {
	return &FramePublisher{
		Strip:  strip,
		Ref:    ref,
		Pub:    pub,
		pixels: make([]hal.Color, strip.Len()),
	}
}

// Len implements hal.Strip.
func (p *FramePublisher) Len() int {
	return p.Strip.Len()
}

// SetColor implements hal.Strip.
func (p *FramePublisher) SetColor(index int, c hal.Color) error {
	if err := p.Strip.SetColor(index, c); err != nil {
		return err
	}
	p.lock.Lock()
	p.pixels[index] = c
	p.lock.Unlock()
	return nil
}

// Commit implements hal.Strip.
func (p *FramePublisher) Commit() error {
	if err := p.Strip.Commit(); err != nil {
		return err
	}
	p.lock.Lock()
	p.seq++
	frame := msgs.NewStripFrame(p.seq, p.pixels, fx.ClockOrDefault(p.Clock).Now().UnixNano()/1e6)
	p.lock.Unlock()
	data, err := msgs.Encode(frame)
	if err != nil {
		glog.Errorf("encode frame: %v", err)
		return nil
	}
	publish(p.Pub, p.Ref.Topic(FrameTopic), data)
	return nil
}
