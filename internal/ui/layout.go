// Package ui holds the console frame shared by every view: a single
// header row with the unread-alert badge, the content area and a one
// row status bar.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/theme"
)

// frameRows is the header row plus the status bar row.
const frameRows = 2

// Layout sizes the console frame for the current terminal.
type Layout struct {
	Width  int
	Height int
}

func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left for the active view.
func (l Layout) ContentHeight() int {
	return l.Height - frameRows
}

// RenderHeader draws the title bar. The right side carries the session
// identity, prefixed with an unread-alert badge when alerts are
// pending: "[3 new] quan (admin)".
func (l Layout) RenderHeader(title string, unread int, account string) string {
	right := account
	if unread > 0 {
		right = fmt.Sprintf("[%d new] %s", unread, account)
	}

	left := theme.HeaderStyle.Render(title)
	rest := l.Width - lipgloss.Width(left)
	if rest < 0 {
		rest = 0
	}
	bar := theme.HeaderStyle.
		Width(rest).
		Align(lipgloss.Right).
		Render(right)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, bar)
}

// RenderStatusBar draws the bottom row, stretched to the full width so
// the bar background is continuous.
func (l Layout) RenderStatusBar(line string) string {
	return theme.StatusBarStyle.Width(l.Width).Render(line)
}

// RenderWithFrame stacks the header, the active view and the status
// bar into the final screen.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}
