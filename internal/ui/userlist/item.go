package userlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/theme"
)

// UserItem wraps a model.User so it can be used in a bubbles/list.
type UserItem struct {
	User model.User
}

// FilterValue returns the string used for fuzzy filtering.
func (i UserItem) FilterValue() string {
	return i.User.Username + " " + i.User.Gmail
}

// Title returns the username for the list.
func (i UserItem) Title() string { return i.User.Username }

// Description returns a short summary line for the list.
func (i UserItem) Description() string {
	return strings.Join([]string{i.User.Role, i.User.Gmail}, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering user rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single user row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ui, ok := item.(UserItem)
	if !ok {
		return
	}

	roleBadge := theme.RoleStyle(ui.User.Role).
		Render(strings.ToUpper(ui.User.Role))

	gmail := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(ui.User.Gmail)

	stateStr := ""
	if !ui.User.IsActive {
		stateStr = theme.DimmedStyle.Render(" (disabled)")
	}

	line := fmt.Sprintf("%s %s%s  %s", roleBadge, ui.User.Username, stateStr, gmail)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
