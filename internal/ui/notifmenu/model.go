// Package notifmenu renders the alert log kept by the notification center.
package notifmenu

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/keys"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/notify"
	"github.com/qhuy/iot-console/internal/theme"
)

// ClearedMsg is sent after the user empties the alert log.
type ClearedMsg struct{}

// NotificationItem wraps a model.Notification for bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string {
	return i.Notification.Title
}

// ItemDelegate renders one alert per line pair.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single alert entry.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NotificationItem)
	if !ok {
		return
	}
	n := ni.Notification

	typeBadge := theme.AlertStyle(n.Type).Render(n.Type)

	title := n.Title
	if !n.Read {
		title = theme.UnreadStyle.Render(title)
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(n.Timestamp))

	body := theme.DimmedStyle.Render(truncate(n.Body, m.Width()-4))

	line := fmt.Sprintf("%s %s  %s\n  %s", typeBadge, title, timeStr, body)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the notification menu view component.
type Model struct {
	list   list.Model
	center *notify.Center
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new notification menu model.
func New(center *notify.Center, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		center: center,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Open marks the whole log as read and refreshes the visible items.
// Opening the menu is what clears the unread badge.
func (m *Model) Open() tea.Cmd {
	m.center.MarkAllRead()
	return m.Reload()
}

// Reload re-reads the log from the center.
func (m *Model) Reload() tea.Cmd {
	items := make([]list.Item, 0, notify.MaxLog)
	for _, n := range m.center.Items() {
		items = append(items, NotificationItem{Notification: n})
	}
	return m.list.SetItems(items)
}

// Update handles messages for the notification menu.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.ClearAll) {
			m.center.Clear()
			reload := m.Reload()
			return m, tea.Batch(reload, func() tea.Msg { return ClearedMsg{} })
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification menu.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 3 || len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// relativeTime renders a millisecond epoch as a short age string.
func relativeTime(ms int64) string {
	if ms == 0 {
		return ""
	}
	d := time.Since(time.UnixMilli(ms))
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
