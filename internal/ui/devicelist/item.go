package devicelist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/theme"
)

// DeviceItem pairs a device with the room it belongs to so the flattened
// list keeps the room grouping visible on every row.
type DeviceItem struct {
	Device model.Device
	Room   string
}

// FilterValue returns the string used for fuzzy filtering.
func (i DeviceItem) FilterValue() string {
	return i.Device.Name + " " + i.Room
}

// Title returns the device name for the list.
func (i DeviceItem) Title() string { return i.Device.Name }

// Description returns a short summary line for the list.
func (i DeviceItem) Description() string {
	parts := []string{
		i.Room,
		i.Device.Type,
		relativeTime(i.Device.UpdatedAt),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering device rows.
type ItemDelegate struct {
	// now is injectable for tests; nil means time.Now.
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single device row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	di, ok := item.(DeviceItem)
	if !ok {
		return
	}

	now := time.Now()
	if d.now != nil {
		now = d.now()
	}

	online := di.Device.Online(now)
	statusBadge := theme.OnlineStyle(online).Render(statusLabel(online))

	typeBadge := theme.DeviceTypeStyle(di.Device.Type).
		Render(strings.ToUpper(di.Device.Type))

	roomBadge := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render(di.Room)

	pinStr := ""
	if di.Device.Config.Pin != "" {
		pinStr = theme.DimmedStyle.Render(" pin:" + di.Device.Config.Pin)
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(di.Device.UpdatedAt))

	line := fmt.Sprintf(
		"%s %s %s %s%s  %s",
		statusBadge, typeBadge, roomBadge, di.Device.Name, pinStr, timeStr,
	)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func statusLabel(online bool) string {
	if online {
		return "ON "
	}
	return "OFF"
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
