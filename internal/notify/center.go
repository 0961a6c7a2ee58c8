// Package notify maintains the bounded, ordered, persisted log of
// push-delivered alerts shown by the console.
package notify

import (
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/qhuy/iot-console/internal/model"
)

// MaxLog is the capacity of the notification log. Insertion beyond it
// silently drops the oldest entries.
const MaxLog = 20

// Persister is the durable slot the log is written to after every
// mutation and read from at startup.
type Persister interface {
	Notifications() ([]model.Notification, error)
	SaveNotifications(items []model.Notification) error
}

// Center owns the in-memory notification log. It is constructed once at
// application start and injected into every consumer; all mutations
// replace the whole log and persist it before returning.
type Center struct {
	mu      sync.Mutex
	items   []model.Notification
	persist Persister
	logger  *zap.Logger
	now     func() time.Time
	lastID  int64
}

// NewCenter creates a Center hydrated from the persister. A missing or
// unparsable stored log is logged and treated as empty; initialization
// never fails on bad data.
func NewCenter(p Persister, logger *zap.Logger) *Center {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Center{
		persist: p,
		logger:  logger,
		now:     time.Now,
	}

	items, err := p.Notifications()
	if err != nil {
		logger.Warn("discarding unreadable notification log", zap.Error(err))
		items = nil
	}
	c.items = items

	return c
}

// SetClock injects a clock, for tests.
func (c *Center) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Add constructs a notification from an incoming push message and
// prepends it to the log, evicting past the capacity. The type tag is
// taken from data["alertType"], defaulting to INFO. This is the single
// funnel for arrivals: persistence happens here, and the returned item
// is what the UI layers a transient toast on top of.
func (c *Center) Add(title, body string, data map[string]string) model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	typ := model.TypeInfo
	if data != nil && data["alertType"] != "" {
		typ = data["alertType"]
	}

	n := model.Notification{
		ID:        c.nextID(),
		Title:     title,
		Body:      body,
		Timestamp: c.now().UnixMilli(),
		Read:      false,
		Type:      typ,
	}

	c.items = append([]model.Notification{n}, c.items...)
	if len(c.items) > MaxLog {
		c.items = c.items[:MaxLog]
	}

	c.save()
	return n
}

// MarkAllRead flags every notification as read, preserving order and
// identity. Calling it on an already-read log is a no-op apart from the
// persist.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		c.items[i].Read = true
	}
	c.save()
}

// Clear empties the log.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.save()
}

// UnreadCount counts the notifications not yet read. It is derived from
// the log on every call, never cached.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, n := range c.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// Items returns a snapshot of the log, newest first.
func (c *Center) Items() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// save writes the whole log back to durable storage. Persist failures
// are best-effort: logged for diagnostics, never surfaced.
func (c *Center) save() {
	if err := c.persist.SaveNotifications(c.items); err != nil {
		c.logger.Warn("persisting notification log", zap.Error(err))
	}
}

// nextID generates a time-based identifier, bumping past the previous
// one so ids stay unique even when arrivals share a clock tick.
func (c *Center) nextID() string {
	id := c.now().UnixNano()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return strconv.FormatInt(id, 10)
}
