// Package motion executes single-character motion commands as timed
// differential-drive maneuvers.
package motion

import (
	"time"

	"github.com/robotalks/eyebot/pkg/hal"
)

// Command is a motion command byte.
type Command byte

// Commands
const (
	Forward   Command = 'f'
	Backward  Command = 'b'
	Left      Command = 'l'
	Right     Command = 'r'
	EyeReset  Command = 'X'
	SoftReset Command = 'R'
)

// Durations of maneuvers.
const (
	DriveDuration = 1000 * time.Millisecond
	TurnDuration  = 250 * time.Millisecond
)

// Ack is written on the primary channel after each completed maneuver.
var Ack = []byte("ok\n")

// Actuator targets. The servos are mounted mirrored, so driving forward
// turns the left one up and the right one down.
const (
	Stop     = hal.PositionNeutral
	FullUp   = hal.PositionMax
	FullDown = hal.PositionMin
)

// Maneuver is a pair of actuator targets held for a duration.
type Maneuver struct {
	Left     int
	Right    int
	Duration time.Duration
}

// Maneuvers is the fixed lookup of maneuver commands.
var Maneuvers = map[Command]Maneuver{
	Forward:  {Left: FullUp, Right: FullDown, Duration: DriveDuration},
	Backward: {Left: FullDown, Right: FullUp, Duration: DriveDuration},
	Left:     {Left: FullDown, Right: FullDown, Duration: TurnDuration},
	Right:    {Left: FullUp, Right: FullUp, Duration: TurnDuration},
}

// Lookup finds the maneuver for a command.
func (c Command) Lookup() (Maneuver, bool) {
	m, ok := Maneuvers[c]
	return m, ok
}

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case EyeReset:
		return "eye-reset"
	case SoftReset:
		return "soft-reset"
	}
	return "unknown"
}

// ParseCommand accepts either the command byte or its name.
func ParseCommand(s string) (Command, bool) {
	if len(s) == 1 {
		c := Command(s[0])
		if _, ok := c.Lookup(); ok || c == EyeReset || c == SoftReset {
			return c, true
		}
		return 0, false
	}
	for _, c := range []Command{Forward, Backward, Left, Right, EyeReset, SoftReset} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}
