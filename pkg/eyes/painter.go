package eyes

import (
	"fmt"

	"github.com/robotalks/eyebot/pkg/hal"
	"github.com/robotalks/eyebot/pkg/ledmap"
)

// Painter applies color commands to a strip through an index map.
type Painter struct {
	Strip hal.Strip
	Map   ledmap.Map
}

// NewPainter creates a Painter using the default index map.
func NewPainter(strip hal.Strip) *Painter {
	return &Painter{Strip: strip, Map: ledmap.Default}
}

// Apply sets the color and commits the strip. It returns false without
// touching the strip when the logical index is neither IndexAll nor
// within [1, Map.Len()].
func (p *Painter) Apply(cmd ColorCommand) (bool, error) {
	color := hal.Color{R: cmd.Red, G: cmd.Green, B: cmd.Blue}
	if cmd.IsAll() {
		for i, n := 0, p.Strip.Len(); i < n; i++ {
			if err := p.Strip.SetColor(i, color); err != nil {
				return false, err
			}
		}
		return true, p.commit()
	}
	if cmd.Index < 1 {
		return false, nil
	}
	physical, ok := p.Map.Physical(int(cmd.Index) - 1)
	if !ok {
		return false, nil
	}
	if err := p.Strip.SetColor(physical, color); err != nil {
		return false, err
	}
	return true, p.commit()
}

func (p *Painter) commit() error {
	if err := p.Strip.Commit(); err != nil {
		return fmt.Errorf("commit strip: %v", err)
	}
	return nil
}
