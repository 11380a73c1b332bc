// Package msgs defines the telemetry messages published by eyebot.
package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/eyebot/pkg/hal"
)

// StripFrame is the committed state of the LED strip, in physical order.
type StripFrame struct {
	// Seq increases by one on every commit.
	Seq uint32 `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	// Pixels holds 0xRRGGBB values.
	Pixels []uint32 `protobuf:"varint,2,rep,packed,name=pixels,proto3" json:"pixels,omitempty"`
	// UnixMillis is the commit time.
	UnixMillis int64 `protobuf:"varint,3,opt,name=unix_millis,proto3" json:"unix_millis,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *StripFrame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *StripFrame) Reset() { *m = StripFrame{} }

// String implements proto.Message.
func (m *StripFrame) String() string { return proto.CompactTextString(m) }

// Colors unpacks the pixels.
func (m *StripFrame) Colors() []hal.Color {
	colors := make([]hal.Color, len(m.Pixels))
	for n, v := range m.Pixels {
		colors[n] = hal.ColorFromRGB(v)
	}
	return colors
}

// NewStripFrame packs colors into a frame.
func NewStripFrame(seq uint32, colors []hal.Color, unixMillis int64) *StripFrame {
	m := &StripFrame{Seq: seq, Pixels: make([]uint32, len(colors)), UnixMillis: unixMillis}
	for n, c := range colors {
		m.Pixels[n] = c.RGB()
	}
	return m
}

// ReceiverStats mirrors eyes.Stats for publishing.
type ReceiverStats struct {
	Events    uint64 `protobuf:"varint,1,opt,name=events,proto3" json:"events,omitempty"`
	Bytes     uint64 `protobuf:"varint,2,opt,name=bytes,proto3" json:"bytes,omitempty"`
	Applied   uint64 `protobuf:"varint,3,opt,name=applied,proto3" json:"applied,omitempty"`
	Discarded uint64 `protobuf:"varint,4,opt,name=discarded,proto3" json:"discarded,omitempty"`
	Resyncs   uint64 `protobuf:"varint,5,opt,name=resyncs,proto3" json:"resyncs,omitempty"`
	Resets    uint64 `protobuf:"varint,6,opt,name=resets,proto3" json:"resets,omitempty"`
	Cursor    uint32 `protobuf:"varint,7,opt,name=cursor,proto3" json:"cursor,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ReceiverStats) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ReceiverStats) Reset() { *m = ReceiverStats{} }

// String implements proto.Message.
func (m *ReceiverStats) String() string { return proto.CompactTextString(m) }

// Encode marshals a message.
func Encode(m proto.Message) ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeStripFrame unmarshals a StripFrame.
func DecodeStripFrame(data []byte) (*StripFrame, error) {
	var m StripFrame
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeReceiverStats unmarshals a ReceiverStats.
func DecodeReceiverStats(data []byte) (*ReceiverStats, error) {
	var m ReceiverStats
	if err := proto.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
