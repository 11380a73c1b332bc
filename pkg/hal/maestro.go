package hal

import (
	"fmt"
	"io"
	"sync"
)

// Pololu Maestro serial commands.
const (
	maestroSetTarget byte = 0x84
	maestroGoHome    byte = 0xa2
	maestroPollo     byte = 0xaa
)

// Pulse widths, in quarter-microseconds, at both ends of the position range.
const (
	MaestroPulseMin uint16 = 4000
	MaestroPulseMax uint16 = 8000
)

// Maestro drives a Pololu Maestro servo controller over a serial link.
// Device 0 selects the compact protocol (single device on the bus),
// any other value uses the Pololu protocol addressed to that device.
type Maestro struct {
	w      io.Writer
	device uint8
	lock   sync.Mutex
}

// NewMaestro creates a Maestro writing commands to w.
func NewMaestro(w io.Writer, device uint8) *Maestro {
	return &Maestro{w: w, device: device}
}

func (m *Maestro) preamble(cmd byte) []byte {
	if m.device == 0 {
		return []byte{cmd}
	}
	return []byte{maestroPollo, m.device, cmd & 0x7f}
}

func (m *Maestro) write(p []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	_, err := m.w.Write(p)
	return err
}

// GoHome sends all servos to their home position.
func (m *Maestro) GoHome() error {
	return m.write(m.preamble(maestroGoHome))
}

// SetTarget sets the pulse width (quarter-microseconds) of a channel.
func (m *Maestro) SetTarget(channel uint8, target uint16) error {
	cmd := append(m.preamble(maestroSetTarget), channel, byte(target&0x7f), byte((target>>7)&0x7f))
	if err := m.write(cmd); err != nil {
		return fmt.Errorf("maestro channel %d: %v", channel, err)
	}
	return nil
}

// Servo returns the Actuator for a channel.
func (m *Maestro) Servo(channel uint8) *MaestroServo {
	return &MaestroServo{ctrl: m, channel: channel}
}

// MaestroServo is one Maestro channel as an Actuator.
type MaestroServo struct {
	ctrl    *Maestro
	channel uint8
}

// PulseFor converts a position into a Maestro target.
func PulseFor(value int) uint16 {
	value = ClampPosition(value)
	span := int(MaestroPulseMax - MaestroPulseMin)
	return MaestroPulseMin + uint16(value*span/(PositionMax-PositionMin))
}

// SetPosition implements Actuator.
func (s *MaestroServo) SetPosition(value int) error {
	return s.ctrl.SetTarget(s.channel, PulseFor(value))
}
