package connector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckScheme(t *testing.T) {
	require.NoError(t, checkScheme("mqtt://localhost:1883/robo/", "mqtt"))
	require.NoError(t, checkScheme("ws://localhost:8080/eyes", "ws", "wss"))
	require.Error(t, checkScheme("http://localhost", "ws", "wss"))
	require.Error(t, checkScheme("%zz", "ws"))
}

func TestConnectColorValidation(t *testing.T) {
	conf := NewConfig()
	conf.Ref.ID = ""
	_, err := conf.ConnectColor(context.Background())
	require.Error(t, err)

	conf = NewConfig()
	conf.ColorURL = "http://localhost/eyes"
	_, err = conf.ConnectColor(context.Background())
	require.Error(t, err)
}

func TestOpenMotionRequiresPort(t *testing.T) {
	conf := NewConfig()
	conf.Motion.Port = ""
	_, err := conf.OpenMotion()
	require.Error(t, err)
}
