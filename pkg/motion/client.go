package motion

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// DefaultAckTimeout is long enough for any maneuver to complete.
const DefaultAckTimeout = 2 * DriveDuration

// Client sends motion commands on the primary channel.
type Client struct {
	rw io.ReadWriter

	lock    sync.Mutex
	once    sync.Once
	lineCh  chan string
	readErr error
}

// NewClient creates a Client over the primary channel.
func NewClient(rw io.ReadWriter) *Client {
	return &Client{rw: rw, lineCh: make(chan string, 4)}
}

// Send writes a command without waiting for acknowledgment.
func (c *Client) Send(cmd Command) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, err := c.rw.Write([]byte{byte(cmd)})
	return err
}

// Do writes a maneuver command and waits for its acknowledgment.
func (c *Client) Do(ctx context.Context, cmd Command) error {
	if _, ok := cmd.Lookup(); !ok {
		return fmt.Errorf("%q is not a maneuver", byte(cmd))
	}
	c.once.Do(func() { go c.readLoop() })

	c.lock.Lock()
	defer c.lock.Unlock()
	for drained := false; !drained; {
		select {
		case _, ok := <-c.lineCh:
			drained = !ok
		default:
			drained = true
		}
	}
	if _, err := c.rw.Write([]byte{byte(cmd)}); err != nil {
		return err
	}
	select {
	case line, ok := <-c.lineCh:
		if !ok {
			return c.readErr
		}
		if line != string(Ack) {
			return fmt.Errorf("unexpected reply %q", line)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) readLoop() {
	defer close(c.lineCh)
	r := bufio.NewReader(c.rw)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			c.readErr = err
			return
		}
		c.lineCh <- line
	}
}
