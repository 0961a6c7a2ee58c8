// Package stream delivers push messages over the backend's WebSocket
// notification stream.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/qhuy/iot-console/internal/push"
)

// streamPath is the backend endpoint the console subscribes to.
const streamPath = "/api/notifications/stream"

// maxBackoff caps the reconnect delay after repeated failures.
const maxBackoff = 30 * time.Second

// TokenProvider supplies the bearer credential for the stream handshake.
type TokenProvider func() (string, bool)

// Subscriber maintains a WebSocket connection to the backend and fans
// received messages out to handlers. The connection is opened when the
// first handler subscribes and closed when the last one unsubscribes.
type Subscriber struct {
	url    string
	token  TokenProvider
	logger *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	d push.Dispatcher
}

// New creates a stream subscriber for the given API base URL.
func New(baseURL string, token TokenProvider, logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		url:    wsURL(baseURL) + streamPath,
		token:  token,
		logger: logger,
	}
}

// Subscribe registers a handler. The returned func cancels delivery to
// that handler; when no handlers remain, the connection is torn down.
func (s *Subscriber) Subscribe(h push.Handler) (push.Unsubscribe, error) {
	return s.d.Add(h, s.start, s.stop), nil
}

// start launches the read loop.
func (s *Subscriber) start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
}

// stop cancels the read loop and waits for it to exit, so no message is
// delivered into a stale context after the last unsubscribe returns.
func (s *Subscriber) stop() {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// run connects, reads messages, and reconnects with backoff until the
// context is cancelled.
func (s *Subscriber) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := s.dial(ctx)
		if err != nil {
			s.logger.Warn("connecting notification stream", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = time.Second
		s.readLoop(ctx, conn)
		_ = conn.Close()
	}
}

// dial opens the WebSocket with bearer auth.
func (s *Subscriber) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if token, ok := s.token(); ok {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// readLoop reads frames until the connection breaks or the context is
// cancelled. Frames that fail to decode are logged and skipped.
func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Unblock ReadMessage when the subscription is cancelled. The
	// watcher exits with its connection so reconnects do not pile
	// goroutines up.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-readDone:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("notification stream closed", zap.Error(err))
			}
			return
		}

		var msg push.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Warn("dropping undecodable push frame", zap.Error(err))
			continue
		}

		s.d.Dispatch(msg)
	}
}

// wsURL rewrites an http(s) base URL to its ws(s) equivalent.
func wsURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	default:
		return u
	}
}
