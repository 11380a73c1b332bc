// Package ledmap translates human-facing LED numbering into the wiring
// order of the strip.
package ledmap

import (
	"errors"
	"fmt"
)

// Count is the number of LEDs on the robot.
const Count = 18

// ErrInvalidTable indicates a table which is not a permutation.
var ErrInvalidTable = errors.New("invalid index table")

// Map is an immutable bijection from zero-based logical indices to
// zero-based physical indices.
type Map struct {
	table []int
}

// The two eyes have 9 LEDs each, laid out as 3x3 grids and chained
// serpentine, right eye first. Logical numbering runs row by row over
// the left eye and then the right eye.
var defaultTable = []int{
	17, 16, 15,
	12, 13, 14,
	11, 10, 9,
	8, 7, 6,
	3, 4, 5,
	2, 1, 0,
}

// Default is the map of the robot's wiring.
var Default = MustNew(defaultTable)

// New validates table and creates a Map. table[logical] = physical.
func New(table []int) (Map, error) {
	if len(table) == 0 {
		return Map{}, fmt.Errorf("%w: empty", ErrInvalidTable)
	}
	seen := make([]bool, len(table))
	for logical, physical := range table {
		if physical < 0 || physical >= len(table) {
			return Map{}, fmt.Errorf("%w: [%d] = %d out of range", ErrInvalidTable, logical, physical)
		}
		if seen[physical] {
			return Map{}, fmt.Errorf("%w: physical %d mapped twice", ErrInvalidTable, physical)
		}
		seen[physical] = true
	}
	return Map{table: append([]int(nil), table...)}, nil
}

// MustNew is New which panics on error.
func MustNew(table []int) Map {
	m, err := New(table)
	if err != nil {
		panic(err)
	}
	return m
}

// Len returns the number of LEDs covered.
func (m Map) Len() int {
	return len(m.table)
}

// Physical translates a zero-based logical index.
func (m Map) Physical(logical int) (int, bool) {
	if logical < 0 || logical >= len(m.table) {
		return 0, false
	}
	return m.table[logical], true
}

// Table returns a copy of the table.
func (m Map) Table() []int {
	return append([]int(nil), m.table...)
}
