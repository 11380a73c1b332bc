package eyes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/eyebot/pkg/hal"
	"github.com/robotalks/eyebot/pkg/ledmap"
)

func TestPainterSingle(t *testing.T) {
	for i := 1; i <= ledmap.Count; i++ {
		strip := hal.NewSimStrip(ledmap.Count)
		p := NewPainter(strip)
		applied, err := p.Apply(ColorCommand{Index: byte(i), Red: 1, Green: 2, Blue: 3})
		require.NoError(t, err)
		require.True(t, applied)
		require.Equal(t, 1, strip.Commits())

		physical, _ := ledmap.Default.Physical(i - 1)
		for n, c := range strip.Frame() {
			if n == physical {
				require.Equal(t, hal.Color{R: 1, G: 2, B: 3}, c)
			} else {
				require.Equalf(t, hal.Color{}, c, "index %d touched position %d", i, n)
			}
		}
	}
}

func TestPainterAll(t *testing.T) {
	strip := hal.NewSimStrip(ledmap.Count)
	applied, err := NewPainter(strip).Apply(ColorCommand{Index: IndexAll, Red: 9, Green: 8, Blue: 7})
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, 1, strip.Commits())
	for _, c := range strip.Frame() {
		require.Equal(t, hal.Color{R: 9, G: 8, B: 7}, c)
	}
}

func TestPainterOutOfRange(t *testing.T) {
	for _, index := range []byte{0, ledmap.Count + 1, 100, 254} {
		strip := hal.NewSimStrip(ledmap.Count)
		applied, err := NewPainter(strip).Apply(ColorCommand{Index: index, Red: 1})
		require.NoError(t, err)
		require.False(t, applied)
		require.Equal(t, 0, strip.Commits())
		require.Equal(t, make([]hal.Color, ledmap.Count), strip.Frame())
	}
}

type failingStrip struct {
	*hal.SimStrip
}

func (s failingStrip) Commit() error {
	return errors.New("bus error")
}

func TestPainterCommitError(t *testing.T) {
	p := NewPainter(failingStrip{hal.NewSimStrip(ledmap.Count)})
	applied, err := p.Apply(ColorCommand{Index: 1})
	require.True(t, applied)
	require.EqualError(t, err, "commit strip: bus error")
}
