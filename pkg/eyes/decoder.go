package eyes

import "time"

// Cursor is the decoder progress, the field of the current color
// command expected next. It equals the number of bytes consumed
// in the group being received.
type Cursor byte

// Cursor values.
const (
	CursorIndex Cursor = iota
	CursorRed
	CursorGreen
	CursorBlue
)

// IndexAll is the logical index addressing every LED.
const IndexAll byte = 255

// DefaultResyncTimeout is the silence after which a partial
// command is dropped.
const DefaultResyncTimeout = 1000 * time.Millisecond

// ColorCommand sets one LED, or all of them with IndexAll.
// Index is 1-based.
type ColorCommand struct {
	Index byte
	Red   byte
	Green byte
	Blue  byte
}

// Bytes encodes the command as sent on the wire.
func (c ColorCommand) Bytes() []byte {
	return []byte{c.Index, c.Red, c.Green, c.Blue}
}

// IsAll indicates the command addresses every LED.
func (c ColorCommand) IsAll() bool {
	return c.Index == IndexAll
}

// Decoder accumulates [index, red, green, blue] groups from a byte
// stream. There is no framing, alignment is recovered only by the
// resync rule: a receive event arriving after more than Timeout of
// silence always starts a new group.
// The zero value is ready to use with DefaultResyncTimeout.
type Decoder struct {
	Timeout time.Duration

	cursor   Cursor
	pending  ColorCommand
	lastByte time.Time
}

// FeedResult reports what one receive event produced.
type FeedResult struct {
	Commands []ColorCommand
	// Resynced is set when a partial command was dropped because of
	// the silence before this event.
	Resynced bool
}

// Cursor returns the current progress.
func (d *Decoder) Cursor() Cursor {
	return d.cursor
}

// LastByte returns when the latest receive event was accepted.
func (d *Decoder) LastByte() time.Time {
	return d.lastByte
}

// Reset drops any partial command.
func (d *Decoder) Reset() {
	d.cursor, d.pending = CursorIndex, ColorCommand{}
}

// Feed consumes one receive event carrying data at time now.
func (d *Decoder) Feed(now time.Time, data []byte) (fr FeedResult) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultResyncTimeout
	}
	if now.Sub(d.lastByte) > timeout {
		fr.Resynced = d.cursor != CursorIndex
		d.Reset()
	}
	d.lastByte = now
	for _, b := range data {
		if cmd, ok := d.Parse(b); ok {
			fr.Commands = append(fr.Commands, cmd)
		}
	}
	return
}

// Parse consumes one byte and returns the command it completes, if any.
// Parse ignores time, the resync rule is applied by Feed.
func (d *Decoder) Parse(b byte) (cmd ColorCommand, ok bool) {
	switch d.cursor {
	case CursorIndex:
		d.pending.Index, d.cursor = b, CursorRed
	case CursorRed:
		d.pending.Red, d.cursor = b, CursorGreen
	case CursorGreen:
		d.pending.Green, d.cursor = b, CursorBlue
	default:
		d.pending.Blue = b
		cmd, ok = d.pending, true
		d.Reset()
	}
	return
}
