package stream

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhuy/iot-console/internal/push"
)

func TestWsURL(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080", wsURL("http://localhost:8080"))
	assert.Equal(t, "wss://iot.example.com", wsURL("https://iot.example.com/"))
	assert.Equal(t, "ws://already", wsURL("ws://already"))
}

func TestSubscribeReceivesFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, streamPath, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		frame := `{
			"notification": {"title": "Smoke detected", "body": "kitchen"},
			"data": {"alertType": "FIRE"}
		}`
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))

		// Hold the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	token := func() (string, bool) { return "tok-123", true }
	s := New(srv.URL, token, nil)

	received := make(chan push.Message, 1)
	unsub, err := s.Subscribe(func(m push.Message) { received <- m })
	require.NoError(t, err)
	defer unsub()

	select {
	case msg := <-received:
		assert.Equal(t, "Smoke detected", msg.Notification.Title)
		assert.Equal(t, "kitchen", msg.Notification.Body)
		assert.Equal(t, "FIRE", msg.Data["alertType"])
	case <-time.After(5 * time.Second):
		t.Fatal("no push message received")
	}

	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	s := New(srv.URL, func() (string, bool) { return "", false }, nil)

	unsub, err := s.Subscribe(func(push.Message) {})
	require.NoError(t, err)

	// Unsubscribe must return only after the read loop has exited.
	done := make(chan struct{})
	go func() {
		unsub()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("unsubscribe did not tear the connection down")
	}
}

func TestReconnectCyclesDoNotAccumulateGoroutines(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var conns int32

	// Drop every connection immediately so the client keeps
	// reconnecting.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		atomic.AddInt32(&conns, 1)
		conn.Close()
	}))
	defer srv.Close()

	baseline := runtime.NumGoroutine()

	s := New(srv.URL, func() (string, bool) { return "", false }, nil)
	unsub, err := s.Subscribe(func(push.Message) {})
	require.NoError(t, err)

	deadline := time.After(10 * time.Second)
	for atomic.LoadInt32(&conns) < 5 {
		select {
		case <-deadline:
			t.Fatal("client did not reconnect")
		case <-time.After(10 * time.Millisecond):
		}
	}

	unsub()

	// Per-connection watchers must exit with their connection, not
	// linger until the subscription ends.
	ok := false
	for i := 0; i < 100; i++ {
		if runtime.NumGoroutine() <= baseline+2 {
			ok = true
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.True(t, ok, "goroutines leaked across reconnects: baseline %d, now %d",
		baseline, runtime.NumGoroutine())
}
