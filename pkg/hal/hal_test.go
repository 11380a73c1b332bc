package hal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaestroSetTarget(t *testing.T) {
	testCases := []struct {
		name   string
		device uint8
		value  int
		expect []byte
	}{
		{"compact neutral", 0, PositionNeutral, []byte{0x84, 1, 0x70, 0x2e}},
		{"compact min", 0, PositionMin, []byte{0x84, 1, 0x20, 0x1f}},
		{"compact max", 0, PositionMax, []byte{0x84, 1, 0x40, 0x3e}},
		{"pololu neutral", 12, PositionNeutral, []byte{0xaa, 12, 0x04, 1, 0x70, 0x2e}},
		{"clamped", 0, 200, []byte{0x84, 1, 0x40, 0x3e}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewMaestro(&buf, tc.device).Servo(1).SetPosition(tc.value))
			require.Equal(t, tc.expect, buf.Bytes())
		})
	}
}

func TestPulseFor(t *testing.T) {
	require.Equal(t, uint16(4000), PulseFor(PositionMin))
	require.Equal(t, uint16(6000), PulseFor(PositionNeutral))
	require.Equal(t, uint16(8000), PulseFor(PositionMax))
	require.Equal(t, uint16(4000), PulseFor(-10))
}

func TestSimStrip(t *testing.T) {
	s := NewSimStrip(3)
	require.Equal(t, 3, s.Len())
	require.NoError(t, s.SetColor(1, Color{R: 1, G: 2, B: 3}))
	require.Equal(t, []Color{{}, {}, {}}, s.Frame())
	require.NoError(t, s.Commit())
	require.Equal(t, []Color{{}, {R: 1, G: 2, B: 3}, {}}, s.Frame())
	require.Equal(t, 1, s.Commits())
	require.Error(t, s.SetColor(3, Color{}))
	require.Error(t, s.SetColor(-1, Color{}))
}

func TestSimActuator(t *testing.T) {
	a := NewSimActuator("left")
	require.Equal(t, PositionNeutral, a.Position())
	require.NoError(t, a.SetPosition(180))
	require.NoError(t, a.SetPosition(-5))
	require.Equal(t, PositionMin, a.Position())
	require.Equal(t, []int{180, 0}, a.History())
}

func TestColorRGB(t *testing.T) {
	c := Color{R: 0x12, G: 0x34, B: 0x56}
	require.Equal(t, uint32(0x123456), c.RGB())
	require.Equal(t, c, ColorFromRGB(0x123456))
}
