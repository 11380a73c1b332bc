// Package link connects byte transports to the color stream receiver.
package link

import "context"

// Receiver accepts receive events from a transport.
type Receiver interface {
	Receive(data []byte) error
}

// Responder answers a progress query with a single byte.
type Responder interface {
	Query() byte
}

// ReceiveResponder is implemented by eyes.Receiver.
type ReceiveResponder interface {
	Receiver
	Responder
}

// BotRef is a reference to a running controller.
type BotRef struct {
	// Type is the robot type.
	Type string
	// ID identifies the controller, by default the hex address of
	// the color channel.
	ID string
}

// Name retrieves the name from ref.
func (r BotRef) Name() string {
	return r.Type + "/" + r.ID
}

// Topic returns the name of a leaf under the ref.
func (r BotRef) Topic(leaf string) string {
	return r.Name() + "/" + leaf
}

// IsValid indicates BotRef is valid.
func (r BotRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// BotMeta provides metadata for a controller.
type BotMeta struct {
	Description string            `json:"description,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// BotInfo provides information of a controller.
type BotInfo struct {
	Ref  BotRef
	Meta BotMeta
}

// Sender sends the color stream to a remote receiver.
type Sender interface {
	// Send delivers data as one receive event.
	Send(ctx context.Context, data []byte) error
	// Query returns the receiver progress.
	Query(ctx context.Context) (byte, error)
}
