package notify

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qhuy/iot-console/internal/model"
)

// fakePersister records the last saved log in memory.
type fakePersister struct {
	saved    []model.Notification
	loadErr  error
	saveErr  error
	saveCnt  int
	loadFrom []model.Notification
}

func (p *fakePersister) Notifications() ([]model.Notification, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.loadFrom, nil
}

func (p *fakePersister) SaveNotifications(items []model.Notification) error {
	p.saveCnt++
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saved = append([]model.Notification(nil), items...)
	return nil
}

func newTestCenter(t *testing.T) (*Center, *fakePersister) {
	t.Helper()
	p := &fakePersister{}
	c := NewCenter(p, nil)
	return c, p
}

func TestAddPrependsNewestFirst(t *testing.T) {
	c, _ := newTestCenter(t)

	c.Add("first", "", nil)
	c.Add("second", "", nil)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].Title)
	assert.Equal(t, "first", items[1].Title)
}

func TestAddDefaultsToInfoType(t *testing.T) {
	c, _ := newTestCenter(t)

	plain := c.Add("door open", "front gate", nil)
	assert.Equal(t, model.TypeInfo, plain.Type)

	tagged := c.Add("smoke detected", "kitchen", map[string]string{
		"alertType": "FIRE",
	})
	assert.Equal(t, "FIRE", tagged.Type)
}

func TestAddEvictsBeyondCapacity(t *testing.T) {
	c, p := newTestCenter(t)

	for i := 0; i < MaxLog+5; i++ {
		c.Add(fmt.Sprintf("alert %d", i), "", nil)
	}

	items := c.Items()
	require.Len(t, items, MaxLog)
	assert.Equal(t, fmt.Sprintf("alert %d", MaxLog+4), items[0].Title,
		"newest entry survives")
	assert.Equal(t, "alert 5", items[len(items)-1].Title,
		"the oldest five were evicted")
	assert.Len(t, p.saved, MaxLog, "persisted log is capped too")
}

func TestIDsUniqueUnderSameClockTick(t *testing.T) {
	c, _ := newTestCenter(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return fixed })

	a := c.Add("a", "", nil)
	b := c.Add("b", "", nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestUnreadCountDerived(t *testing.T) {
	c, _ := newTestCenter(t)
	assert.Equal(t, 0, c.UnreadCount())

	c.Add("one", "", nil)
	c.Add("two", "", nil)
	assert.Equal(t, 2, c.UnreadCount())

	c.MarkAllRead()
	assert.Equal(t, 0, c.UnreadCount())

	c.Add("three", "", nil)
	assert.Equal(t, 1, c.UnreadCount(),
		"arrivals after mark-all-read start unread again")
}

func TestMarkAllReadIdempotent(t *testing.T) {
	c, p := newTestCenter(t)
	c.Add("one", "", nil)

	c.MarkAllRead()
	first := c.Items()
	c.MarkAllRead()
	second := c.Items()

	assert.Equal(t, first, second)
	for _, n := range second {
		assert.True(t, n.Read)
	}
	assert.Greater(t, p.saveCnt, 2, "every mutation persists")
}

func TestClearPersistsEmptyLog(t *testing.T) {
	c, p := newTestCenter(t)
	c.Add("one", "", nil)
	c.Add("two", "", nil)

	c.Clear()

	assert.Empty(t, c.Items())
	assert.Empty(t, p.saved)
	assert.Equal(t, 0, c.UnreadCount())
}

func TestHydratesFromPersister(t *testing.T) {
	p := &fakePersister{loadFrom: []model.Notification{
		{ID: "2", Title: "newer", Read: false},
		{ID: "1", Title: "older", Read: true},
	}}

	c := NewCenter(p, nil)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "newer", items[0].Title)
	assert.Equal(t, 1, c.UnreadCount())
}

func TestUnreadableLogStartsEmpty(t *testing.T) {
	p := &fakePersister{loadErr: errors.New("corrupt json")}

	c := NewCenter(p, nil)

	assert.Empty(t, c.Items())
	// The center stays usable after discarding the bad log.
	c.Add("fresh", "", nil)
	assert.Len(t, c.Items(), 1)
}

func TestPersistFailureDoesNotLoseMemoryState(t *testing.T) {
	p := &fakePersister{saveErr: errors.New("disk full")}
	c := NewCenter(p, nil)

	c.Add("kept in memory", "", nil)

	assert.Len(t, c.Items(), 1)
}

func TestItemsReturnsSnapshot(t *testing.T) {
	c, _ := newTestCenter(t)
	c.Add("one", "", nil)

	items := c.Items()
	items[0].Title = "mutated"

	assert.Equal(t, "one", c.Items()[0].Title)
}
