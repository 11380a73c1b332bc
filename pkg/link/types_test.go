package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBotRef(t *testing.T) {
	ref := BotRef{Type: "eyebot", ID: "08"}
	require.True(t, ref.IsValid())
	require.Equal(t, "eyebot/08", ref.Name())
	require.Equal(t, "eyebot/08/color", ref.Topic("color"))
	require.False(t, BotRef{Type: "eyebot"}.IsValid())
	require.False(t, BotRef{ID: "08"}.IsValid())
}
