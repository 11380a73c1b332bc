package eyes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type decoderTestStep struct {
	after    time.Duration
	in       []byte
	cursor   Cursor
	commands []ColorCommand
	resynced bool
}

type decoderTestBuilder struct {
	steps []decoderTestStep
}

func decoderSteps() *decoderTestBuilder {
	return &decoderTestBuilder{}
}

func (b *decoderTestBuilder) feed(after time.Duration, in ...byte) *decoderTestBuilder {
	b.steps = append(b.steps, decoderTestStep{after: after, in: in})
	return b
}

func (b *decoderTestBuilder) at(cursor Cursor) *decoderTestBuilder {
	b.steps[len(b.steps)-1].cursor = cursor
	return b
}

func (b *decoderTestBuilder) emits(cmds ...ColorCommand) *decoderTestBuilder {
	b.steps[len(b.steps)-1].commands = cmds
	return b
}

func (b *decoderTestBuilder) resync() *decoderTestBuilder {
	b.steps[len(b.steps)-1].resynced = true
	return b
}

func (b *decoderTestBuilder) build() []decoderTestStep {
	return b.steps
}

func TestDecoder(t *testing.T) {
	const ms = time.Millisecond
	testCases := []struct {
		name  string
		steps []decoderTestStep
	}{
		{
			name: "one group in one event",
			steps: decoderSteps().
				feed(0, 1, 10, 20, 30).at(CursorIndex).emits(ColorCommand{1, 10, 20, 30}).
				build(),
		},
		{
			name: "one byte per event",
			steps: decoderSteps().
				feed(0, 1).at(CursorRed).
				feed(10*ms, 10).at(CursorGreen).
				feed(10*ms, 20).at(CursorBlue).
				feed(10*ms, 30).at(CursorIndex).emits(ColorCommand{1, 10, 20, 30}).
				build(),
		},
		{
			name: "several groups and a partial one",
			steps: decoderSteps().
				feed(0, 255, 1, 2, 3, 4, 5, 6, 7, 9).at(CursorRed).
				emits(ColorCommand{255, 1, 2, 3}, ColorCommand{4, 5, 6, 7}).
				build(),
		},
		{
			name: "every value accepted at every position",
			steps: decoderSteps().
				feed(0, 255, 255, 255, 255, 0, 0, 0, 0).at(CursorIndex).
				emits(ColorCommand{255, 255, 255, 255}, ColorCommand{}).
				build(),
		},
		{
			name: "gap at timeout keeps partial",
			steps: decoderSteps().
				feed(0, 2, 10).at(CursorGreen).
				feed(1000*ms, 20, 30).at(CursorIndex).emits(ColorCommand{2, 10, 20, 30}).
				build(),
		},
		{
			name: "gap over timeout drops partial",
			steps: decoderSteps().
				feed(0, 2, 10).at(CursorGreen).
				feed(1001*ms, 3, 40, 50).at(CursorBlue).resync().
				feed(10*ms, 60).at(CursorIndex).emits(ColorCommand{3, 40, 50, 60}).
				build(),
		},
		{
			name: "gap over timeout when aligned",
			steps: decoderSteps().
				feed(0, 1, 2, 3, 4).emits(ColorCommand{1, 2, 3, 4}).
				feed(5*time.Second, 5).at(CursorRed).
				build(),
		},
		{
			name: "empty event refreshes timestamp",
			steps: decoderSteps().
				feed(0, 7).at(CursorRed).
				feed(900 * ms).at(CursorRed).
				feed(900*ms, 1, 2, 3).at(CursorIndex).emits(ColorCommand{7, 1, 2, 3}).
				build(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Decoder
			now := time.Unix(1000, 0)
			for n, s := range tc.steps {
				now = now.Add(s.after)
				fr := d.Feed(now, s.in)
				require.Equalf(t, s.commands, fr.Commands, "step[%d] commands mismatch", n)
				require.Equalf(t, s.resynced, fr.Resynced, "step[%d] resync mismatch", n)
				require.Equalf(t, s.cursor, d.Cursor(), "step[%d] cursor mismatch", n)
				require.Equalf(t, now, d.LastByte(), "step[%d] timestamp mismatch", n)
			}
		})
	}
}

func TestDecoderCustomTimeout(t *testing.T) {
	d := Decoder{Timeout: 10 * time.Millisecond}
	now := time.Unix(0, 0)
	d.Feed(now, []byte{1})
	fr := d.Feed(now.Add(11*time.Millisecond), []byte{2})
	require.True(t, fr.Resynced)
	require.Equal(t, CursorRed, d.Cursor())
}

func TestDecoderReset(t *testing.T) {
	var d Decoder
	d.Parse(1)
	d.Parse(2)
	d.Reset()
	require.Equal(t, CursorIndex, d.Cursor())
	cmd, ok := d.Parse(3)
	require.False(t, ok)
	require.Equal(t, ColorCommand{}, cmd)
}

func TestColorCommand(t *testing.T) {
	cmd := ColorCommand{Index: 3, Red: 4, Green: 5, Blue: 6}
	require.Equal(t, []byte{3, 4, 5, 6}, cmd.Bytes())
	require.False(t, cmd.IsAll())
	require.True(t, ColorCommand{Index: IndexAll}.IsAll())
}
