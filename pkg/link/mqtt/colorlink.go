package mqtt

import (
	"context"
	"errors"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/eyebot/pkg/link"
)

// Leaf topics of the color channel.
const (
	ColorTopic    = "color"
	QueryTopic    = "query"
	ProgressTopic = "progress"
	FrameTopic    = "frame"
)

// ColorLink serves the color channel of a controller:
// each message on <ref>/color is one receive event, any message on
// <ref>/query is answered by a single byte on <ref>/progress.
type ColorLink struct {
	Ref    link.BotRef
	Target link.ReceiveResponder
	Pub    Publisher
}

// NewColorLink creates a ColorLink publishing through q.
func NewColorLink(q *Queue, ref link.BotRef, target link.ReceiveResponder) *ColorLink {
	return &ColorLink{Ref: ref, Target: target, Pub: q}
}

// Attach subscribes the link topics on q.
func (l *ColorLink) Attach(q *Queue) {
	q.Sub(l.Ref.Topic(ColorTopic), l.HandleColor)
	q.Sub(l.Ref.Topic(QueryTopic), l.HandleQuery)
}

// HandleColor delivers the payload to the receiver.
func (l *ColorLink) HandleColor(topic string, payload []byte) {
	if len(payload) == 0 {
		return
	}
	if err := l.Target.Receive(payload); err != nil {
		glog.Errorf("color %q: %v", topic, err)
	}
}

// HandleQuery publishes the current progress.
func (l *ColorLink) HandleQuery(topic string, payload []byte) {
	publish(l.Pub, l.Ref.Topic(ProgressTopic), []byte{l.Target.Query()})
}

// ErrEmptyReply indicates a progress message without payload.
var ErrEmptyReply = errors.New("empty progress reply")

// ColorClient sends the color stream to a controller over MQTT.
type ColorClient struct {
	Queue *Queue
	Ref   link.BotRef

	lock sync.Mutex
}

// NewColorClient creates a ColorClient.
func NewColorClient(q *Queue, ref link.BotRef) *ColorClient {
	return &ColorClient{Queue: q, Ref: ref}
}

// Send publishes raw bytes as one receive event.
func (c *ColorClient) Send(ctx context.Context, data []byte) error {
	return WaitToken(ctx, c.Queue.PubWith(c.Ref.Topic(ColorTopic), data, 1, false))
}

// Query requests the receiver progress and waits for the reply.
// Queries are serialized so replies can't be mixed up.
func (c *ColorClient) Query(ctx context.Context) (byte, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	replyCh := make(chan []byte, 1)
	sub := c.Queue.Sub(c.Ref.Topic(ProgressTopic), func(topic string, payload []byte) {
		select {
		case replyCh <- payload:
		default:
		}
	})
	defer sub.Close()
	if err := WaitToken(ctx, sub.Token); err != nil {
		return 0, err
	}
	if err := WaitToken(ctx, c.Queue.PubWith(c.Ref.Topic(QueryTopic), nil, 1, false)); err != nil {
		return 0, err
	}
	select {
	case payload := <-replyCh:
		if len(payload) == 0 {
			return 0, ErrEmptyReply
		}
		return payload[0], nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
