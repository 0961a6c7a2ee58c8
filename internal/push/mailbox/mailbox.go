// Package mailbox delivers push messages by watching an IMAP alerts
// mailbox that the platform's mailer sends incident emails to.
package mailbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qhuy/iot-console/internal/push"
)

// fetchTimeout is the maximum time allowed for a single mailbox poll.
const fetchTimeout = 30 * time.Second

// defaultInterval is used when no poll interval is configured.
const defaultInterval = time.Minute

// Watcher polls the alerts mailbox for unseen messages and fans them
// out as push messages. Polling starts when the first handler
// subscribes and stops when the last one unsubscribes.
type Watcher struct {
	client   *IMAPClient
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	d push.Dispatcher
}

// NewWatcher creates a mailbox watcher polling at the given interval.
func NewWatcher(client *IMAPClient, interval time.Duration, logger *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		client:   client,
		interval: interval,
		logger:   logger,
	}
}

// Subscribe registers a handler for incoming alert messages.
func (w *Watcher) Subscribe(h push.Handler) (push.Unsubscribe, error) {
	return w.d.Add(h, w.start, w.stop), nil
}

func (w *Watcher) start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.poll(ctx, w.done)
}

// stop cancels the poll loop and waits for it, so nothing is delivered
// after the last unsubscribe returns.
func (w *Watcher) stop() {
	w.mu.Lock()
	cancel := w.cancel
	done := w.done
	w.cancel = nil
	w.done = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// poll fetches unseen alerts immediately and then on every tick.
func (w *Watcher) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.fetchAndDispatch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.fetchAndDispatch(ctx)
		}
	}
}

// fetchAndDispatch performs one poll. Fetch failures are logged and
// retried on the next tick; there is no error surface beyond that.
func (w *Watcher) fetchAndDispatch(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	alerts, err := w.client.FetchUnseen(fetchCtx)
	if err != nil {
		w.logger.Warn("polling alerts mailbox", zap.Error(err))
		return
	}

	for _, alert := range alerts {
		if ctx.Err() != nil {
			return
		}
		w.d.Dispatch(messageFromAlert(alert))
	}
}

// messageFromAlert maps a mailbox alert onto the push payload shape:
// subject becomes the title, the plain-text body the body, and the
// X-Alert-Type header the alertType data field when present.
func messageFromAlert(alert AlertMessage) push.Message {
	data := map[string]string{}
	if alert.AlertType != "" {
		data["alertType"] = alert.AlertType
	}

	return push.Message{
		Notification: push.Notification{
			Title: alert.Subject,
			Body:  alert.TextBody,
		},
		Data: data,
	}
}
