package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestContentHeightLeavesFrameRows(t *testing.T) {
	l := NewLayout(80, 24)
	assert.Equal(t, 22, l.ContentHeight())
	assert.Equal(t, 80, l.ContentWidth())
}

func TestRenderHeaderShowsUnreadBadge(t *testing.T) {
	l := NewLayout(60, 20)

	out := l.RenderHeader("IoT Console", 3, "quan (admin)")
	assert.Contains(t, out, "[3 new] quan (admin)")
	assert.Equal(t, 60, lipgloss.Width(out))

	out = l.RenderHeader("IoT Console", 0, "quan (admin)")
	assert.NotContains(t, out, "new]")
	assert.Contains(t, out, "quan (admin)")
}

func TestRenderStatusBarFillsWidth(t *testing.T) {
	l := NewLayout(50, 20)
	out := l.RenderStatusBar("? help")
	assert.Equal(t, 50, lipgloss.Width(out))
}
