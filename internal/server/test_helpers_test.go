package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hue-clues/internal/config"
	"hue-clues/internal/game"
	"hue-clues/internal/words"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

type testApp struct {
	engine *game.Engine
	store  game.Store
	hub    *Hub
	ts     *httptest.Server
}

func newTestApp(t *testing.T, cfg config.Config, store game.Store) testApp {
	t.Helper()
	if store == nil {
		store = game.NewMemoryStore()
	}
	hub := NewHub(cfg.SendQueueSize, nil)
	engine := game.NewEngine(store, words.NewPool([]string{"apple"}), hub, nil, game.Options{
		RoundCap:                cfg.RoundCap,
		EnforceUniqueColors:     cfg.EnforceUniqueColors,
		RejectActivePlayerClues: cfg.RejectActivePlayerClues,
	})
	srv := New(engine, store, hub, cfg, nil)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	return testApp{engine: engine, store: store, hub: hub, ts: ts}
}

func (a testApp) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(a.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitForPlayers blocks until the engine has seen n registered players.
func (a testApp) waitForPlayers(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return a.engine.Session().NumberOfPlayers == n
	}, 5*time.Second, 10*time.Millisecond)
}

func (a testApp) setUp(t *testing.T, conn *websocket.Conn, name, color string, players int) {
	t.Helper()
	sendEvent(t, conn, EventSubmitSetUp, map[string]string{"name": name, "color": color})
	a.waitForPlayers(t, players)
}

type receivedFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(map[string]any{"event": event, "payload": payload})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func readFrame(t *testing.T, conn *websocket.Conn, timeout time.Duration) receivedFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	var frame receivedFrame
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

// waitForEvent reads frames until one named event arrives.
func waitForEvent(t *testing.T, conn *websocket.Conn, event string) receivedFrame {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		frame := readFrame(t, conn, time.Until(deadline))
		if frame.Event == event {
			return frame
		}
	}
	t.Fatalf("timed out waiting for %s", event)
	return receivedFrame{}
}

func expectNoWSMessage(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected no websocket message within %s", timeout)
	} else {
		netErr, ok := err.(net.Error)
		if !ok || !netErr.Timeout() {
			t.Fatalf("expected websocket timeout, got %v", err)
		}
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.EventsPerSecond = 1000
	cfg.EventBurst = 1000
	return cfg
}

type unreachableStore struct {
	game.Store
}

func (unreachableStore) Ping(context.Context) error {
	return game.ErrStoreUnavailable
}
