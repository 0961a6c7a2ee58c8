package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestApplyMonoStripsColor(t *testing.T) {
	prev := lipgloss.ColorProfile()
	defer lipgloss.SetColorProfile(prev)

	Apply("mono")
	assert.Equal(t, termenv.Ascii, lipgloss.ColorProfile())
}

func TestApplyPinsBackground(t *testing.T) {
	prev := lipgloss.HasDarkBackground()
	defer lipgloss.SetHasDarkBackground(prev)

	Apply("light")
	assert.False(t, lipgloss.HasDarkBackground())

	Apply("dark")
	assert.True(t, lipgloss.HasDarkBackground())
}

func TestApplyUnknownKeepsDetection(t *testing.T) {
	prev := lipgloss.ColorProfile()
	defer lipgloss.SetColorProfile(prev)

	Apply("default")
	assert.Equal(t, prev, lipgloss.ColorProfile())
}
