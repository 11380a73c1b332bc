package ledmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsPermutation(t *testing.T) {
	require.Equal(t, Count, Default.Len())
	seen := make(map[int]bool)
	for i := 0; i < Count; i++ {
		p, ok := Default.Physical(i)
		require.True(t, ok)
		require.False(t, seen[p], "physical %d mapped twice", p)
		seen[p] = true
	}
	require.Len(t, seen, Count)
}

func TestPhysicalOutOfRange(t *testing.T) {
	_, ok := Default.Physical(-1)
	require.False(t, ok)
	_, ok = Default.Physical(Count)
	require.False(t, ok)
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name  string
		table []int
		valid bool
	}{
		{"identity", []int{0, 1, 2}, true},
		{"reversed", []int{2, 1, 0}, true},
		{"empty", nil, false},
		{"duplicate", []int{0, 0, 1}, false},
		{"out of range", []int{0, 1, 3}, false},
		{"negative", []int{0, -1, 1}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := New(tc.table)
			if !tc.valid {
				require.ErrorIs(t, err, ErrInvalidTable)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.table, m.Table())
		})
	}
}

func TestTableIsCopied(t *testing.T) {
	table := []int{1, 0}
	m := MustNew(table)
	table[0] = 0
	p, _ := m.Physical(0)
	require.Equal(t, 1, p)
	m.Table()[0] = 0
	p, _ = m.Physical(0)
	require.Equal(t, 1, p)
}
