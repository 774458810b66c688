package gameserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilefall/tilefall/internal/config"
)

// startTestServer runs a lobby and server on an ephemeral port, tearing
// both down when the test finishes.
func startTestServer(t *testing.T, cfg config.Server) string {
	t.Helper()

	lobby := NewLobby(cfg.LobbySize, cfg.TickPeriod, cfg.PendingQueueSize)
	srv := NewServer(cfg, lobby)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	lobbyDone := make(chan struct{})
	serveDone := make(chan struct{})
	go func() {
		defer close(lobbyDone)
		if err := lobby.Run(ctx); err != nil {
			t.Errorf("lobby run: %v", err)
		}
	}()
	go func() {
		defer close(serveDone)
		if err := srv.Serve(ctx, ln); err != nil {
			t.Errorf("serve: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-serveDone
		<-lobbyDone
	})

	return fmt.Sprintf("ws://%s/ws", ln.Addr())
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readWire(t *testing.T, conn *websocket.Conn) wireUpdate {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var u wireUpdate
	require.NoError(t, json.Unmarshal(data, &u))
	return u
}

func TestServerRunsMatchOverWebsockets(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.TickPeriod = 10 * time.Millisecond
	url := startTestServer(t, cfg)

	c1 := dialWS(t, url)
	c2 := dialWS(t, url)

	// Once the lobby fills, both players get the full opening board.
	u1 := readWire(t, c1)
	assert.EqualValues(t, 0, u1.Turn)
	assert.Len(t, u1.Players, 2)
	assert.Len(t, u1.Tiles, u1.Width*u1.Height)

	u2 := readWire(t, c2)
	assert.EqualValues(t, 0, u2.Turn)
	assert.Equal(t, u1.Width, u2.Width)
	assert.Equal(t, u1.Height, u2.Height)

	// Updates arrive in turn order as the clock ticks.
	n := readWire(t, c1)
	assert.EqualValues(t, 1, n.Turn)

	// One player resigns; the survivor sees the defeat before the match
	// shuts down.
	require.NoError(t, c2.WriteMessage(websocket.TextMessage, []byte(`{"type":"resign"}`)))

	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, c1.SetReadDeadline(deadline))
		_, data, err := c1.ReadMessage()
		require.NoError(t, err, "stream ended before the defeat was broadcast")
		var u wireUpdate
		require.NoError(t, json.Unmarshal(data, &u))
		if defeatedCount(u.Players) == 1 {
			break
		}
	}

	require.NoError(t, c1.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := c1.ReadMessage()
	require.Error(t, err, "connection should close once the match is over")
}

func defeatedCount(players map[string]wirePlayer) int {
	n := 0
	for _, p := range players {
		if p.DefeatedAt != nil {
			n++
		}
	}
	return n
}

func TestServerTurnsAwayWhenLobbyQueueFull(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.PendingQueueSize = 1

	// The lobby loop is deliberately not running, so the single queue
	// slot stays occupied.
	lobby := NewLobby(cfg.LobbySize, cfg.TickPeriod, cfg.PendingQueueSize)
	require.NoError(t, lobby.Enqueue(newFakeEndpoint()))
	srv := NewServer(cfg, lobby)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := srv.Serve(ctx, ln); err != nil {
			t.Errorf("serve: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-serveDone
	})

	conn := dialWS(t, fmt.Sprintf("ws://%s/ws", ln.Addr()))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err, "rejected connection should be closed")
}

func TestServerServesStaticFiles(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<p>tilefall</p>"), 0o644))

	cfg := config.DefaultServer()
	cfg.StaticDir = staticDir

	lobby := NewLobby(cfg.LobbySize, cfg.TickPeriod, cfg.PendingQueueSize)
	srv := NewServer(cfg, lobby)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := srv.Serve(ctx, ln); err != nil {
			t.Errorf("serve: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-serveDone
	})

	resp, err := http.Get(fmt.Sprintf("http://%s/", ln.Addr()))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tilefall")
}

func TestServerAddr(t *testing.T) {
	cfg := config.DefaultServer()
	lobby := NewLobby(cfg.LobbySize, cfg.TickPeriod, cfg.PendingQueueSize)
	srv := NewServer(cfg, lobby)

	assert.Nil(t, srv.Addr())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan struct{})
	go func() {
		defer close(serveDone)
		if err := srv.Serve(ctx, ln); err != nil {
			t.Errorf("serve: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-serveDone
	})

	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, ln.Addr().String(), srv.Addr().String())
}
