package stream

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/engine"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsFrames(t *testing.T) {
	hub := NewHub("run-1")
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	g, err := alloy.NewGrid(4, 1)
	require.NoError(t, err)
	g.SetTemperature(0, 1, 42)

	stats := engine.IterationStats{Iteration: 3, Changed: true, MaxDelta: 1.5, State: engine.StateRunning}
	require.NoError(t, hub.Observe(context.Background(), stats, g))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	require.Equal(t, "run-1", f.Run)
	require.Equal(t, 3, f.Iteration)
	require.Equal(t, "running", f.State)
	require.True(t, f.Changed)
	require.Equal(t, 4, f.Width)
	require.Equal(t, 1, f.Height)
	require.Equal(t, []float64{100, 42, 0, 100}, f.Temperatures)
}

func TestHubForgetsClosedClients(t *testing.T) {
	hub := NewHub("run-2")
	defer hub.Close()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestObserveAfterClose(t *testing.T) {
	hub := NewHub("run-3")
	require.NoError(t, hub.Close())
	require.NoError(t, hub.Close())

	g, err := alloy.NewGrid(4, 1)
	require.NoError(t, err)
	require.NoError(t, hub.Observe(context.Background(), engine.IterationStats{Iteration: 1}, g))
	require.Zero(t, hub.Dropped())
}

func TestObserveDropsWhenQueueFull(t *testing.T) {
	// No broadcaster goroutine drains this hub.
	hub := &Hub{broadcast: make(chan []byte, 1), done: make(chan struct{})}

	g, err := alloy.NewGrid(4, 1)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, hub.Observe(context.Background(), engine.IterationStats{Iteration: i + 1}, g))
	}
	require.Equal(t, int64(2), hub.Dropped())
}
