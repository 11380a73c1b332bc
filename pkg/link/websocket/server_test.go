package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	lock   sync.Mutex
	events [][]byte
	count  int
}

func (f *fakeTarget) Receive(data []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.events = append(f.events, append([]byte(nil), data...))
	f.count += len(data)
	return nil
}

func (f *fakeTarget) Query() byte {
	f.lock.Lock()
	defer f.lock.Unlock()
	return byte(f.count % 4)
}

func TestServerReceiveAndQuery(t *testing.T) {
	target := &fakeTarget{}
	s := NewServer("", target)
	hs := httptest.NewServer(s.Mux())
	defer hs.Close()

	c, err := Dial("ws" + strings.TrimPrefix(hs.URL, "http") + DefaultPath)
	require.NoError(t, err)
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, c.Send(ctx, []byte{1, 10, 20, 30}))
	require.NoError(t, c.Send(ctx, []byte{255}))
	require.NoError(t, c.Send(ctx, nil))
	progress, err := c.Query(ctx)
	require.NoError(t, err)
	require.Equal(t, byte(1), progress)

	target.lock.Lock()
	defer target.lock.Unlock()
	require.Equal(t, [][]byte{{1, 10, 20, 30}, {255}}, target.events)
}
