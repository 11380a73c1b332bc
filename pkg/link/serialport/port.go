// Package serialport opens serial ports used as byte channels.
package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Config describes a serial port.
type Config struct {
	Port     string
	BaudRate int
	// ReadTimeout makes Read return (0, nil) when no byte arrives in time.
	// Zero blocks forever.
	ReadTimeout time.Duration
}

// DefaultBaudRate is the default port speed.
const DefaultBaudRate = 9600

// IsSet indicates a port is configured.
func (c Config) IsSet() bool {
	return c.Port != ""
}

// Mode returns the serial mode, 8N1 at the configured speed.
func (c Config) Mode() *serial.Mode {
	baud := c.BaudRate
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens the port.
func (c Config) Open() (serial.Port, error) {
	port, err := serial.Open(c.Port, c.Mode())
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %v", c.Port, err)
	}
	if c.ReadTimeout > 0 {
		if err = port.SetReadTimeout(c.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("serial %s read timeout: %v", c.Port, err)
		}
	}
	return port, nil
}

// List returns the names of serial ports on the system.
func List() ([]string, error) {
	return serial.GetPortsList()
}
