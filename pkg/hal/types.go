// Package hal defines the hardware collaborators the controller drives
// and provides implementations for them.
package hal

// Actuator position calibration shared by every servo driver.
const (
	PositionMin     = 0
	PositionMax     = 180
	PositionNeutral = 90
)

// Actuator accepts a commanded position/speed value in
// [PositionMin, PositionMax] and applies it to hardware.
// For continuous rotation servos PositionNeutral means stop.
type Actuator interface {
	SetPosition(value int) error
}

// SetPositionFunc is the func form of Actuator.
type SetPositionFunc func(value int) error

// SetPosition implements Actuator.
func (f SetPositionFunc) SetPosition(value int) error {
	return f(value)
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// RGB packs the color as 0xRRGGBB.
func (c Color) RGB() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorFromRGB unpacks a 0xRRGGBB value.
func ColorFromRGB(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Strip is an addressable light strip. SetColor only changes the buffered
// state, Commit flushes the whole buffer to hardware.
type Strip interface {
	// Len returns the number of physical positions.
	Len() int
	// SetColor sets the buffered color at a physical index.
	SetColor(index int, c Color) error
	// Commit flushes all buffered positions.
	Commit() error
}

// Platform exposes the host capabilities the controller may request.
type Platform interface {
	// Restart requests a firmware restart. Implementations may never return.
	Restart() error
}

// ClampPosition limits value to the actuator range.
func ClampPosition(value int) int {
	if value < PositionMin {
		return PositionMin
	}
	if value > PositionMax {
		return PositionMax
	}
	return value
}
