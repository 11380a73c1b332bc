package hal

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"
)

// ErrIndexOutOfRange indicates a physical index beyond the strip.
var ErrIndexOutOfRange = errors.New("index out of range")

// SimActuator is an in-memory Actuator recording every position set.
type SimActuator struct {
	Name string

	lock     sync.Mutex
	position int
	history  []int
}

// NewSimActuator creates a SimActuator resting at neutral.
func NewSimActuator(name string) *SimActuator {
	return &SimActuator{Name: name, position: PositionNeutral}
}

// SetPosition implements Actuator.
func (a *SimActuator) SetPosition(value int) error {
	value = ClampPosition(value)
	a.lock.Lock()
	a.position = value
	a.history = append(a.history, value)
	a.lock.Unlock()
	glog.V(2).Infof("actuator %s: %d", a.Name, value)
	return nil
}

// Position returns the current position.
func (a *SimActuator) Position() int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.position
}

// History returns all positions set so far.
func (a *SimActuator) History() []int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]int(nil), a.history...)
}

// SimStrip is an in-memory Strip. It keeps the buffered colors separately
// from the last committed frame.
type SimStrip struct {
	lock      sync.Mutex
	buffer    []Color
	committed []Color
	commits   int
}

// NewSimStrip creates a SimStrip with n positions, all off.
func NewSimStrip(n int) *SimStrip {
	return &SimStrip{
		buffer:    make([]Color, n),
		committed: make([]Color, n),
	}
}

// Len implements Strip.
func (s *SimStrip) Len() int {
	return len(s.buffer)
}

// SetColor implements Strip.
func (s *SimStrip) SetColor(index int, c Color) error {
	if index < 0 || index >= len(s.buffer) {
		return fmt.Errorf("set color %d: %w", index, ErrIndexOutOfRange)
	}
	s.lock.Lock()
	s.buffer[index] = c
	s.lock.Unlock()
	return nil
}

// Commit implements Strip.
func (s *SimStrip) Commit() error {
	s.lock.Lock()
	copy(s.committed, s.buffer)
	s.commits++
	s.lock.Unlock()
	glog.V(4).Infof("strip committed")
	return nil
}

// Frame returns a copy of the last committed colors.
func (s *SimStrip) Frame() []Color {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Color(nil), s.committed...)
}

// Commits returns how many times Commit was called.
func (s *SimStrip) Commits() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.commits
}

// SimPlatform records restart requests instead of restarting.
type SimPlatform struct {
	lock     sync.Mutex
	restarts int
}

// Restart implements Platform.
func (p *SimPlatform) Restart() error {
	p.lock.Lock()
	p.restarts++
	p.lock.Unlock()
	glog.Info("restart requested (simulated)")
	return nil
}

// Restarts returns the number of restart requests.
func (p *SimPlatform) Restarts() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.restarts
}
