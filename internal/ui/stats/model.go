// Package stats renders fleet-wide device counts as horizontal bar charts.
package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/keys"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/theme"
)

const maxBarWidth = 30

// StatsLoadedMsg is sent when the aggregate counts have been fetched.
type StatsLoadedMsg struct {
	Stats *model.DeviceStats
	Err   error
}

// Model is the statistics view component.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap
	stats  *model.DeviceStats
	width  int
	height int
}

// New creates a new statistics view model.
func New(c *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: c,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the aggregate counts.
func (m Model) Init() tea.Cmd {
	return m.LoadStats()
}

// Update handles messages for the statistics view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatsLoadedMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.stats = msg.Stats
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.LoadStats()
		}
	}
	return m, nil
}

// View renders the three chart sections.
func (m Model) View() string {
	if m.stats == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading statistics...")
	}

	sections := []string{
		m.renderChart("Devices by room", m.stats.ByRoom, theme.ColorBlue),
		m.renderChart("Devices by type", m.stats.ByType, theme.ColorMagenta),
		m.renderChart("Devices by status", m.stats.ByStatus, theme.ColorGreen),
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderChart draws one titled group of labeled horizontal bars, scaled
// so the largest count fills maxBarWidth cells.
func (m Model) renderChart(title string, counts []model.StatCount, color lipgloss.AdaptiveColor) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	if len(counts) == 0 {
		return titleStyle.Render(title) + "\n" +
			theme.DimmedStyle.Render("  no data") + "\n"
	}

	maxCount := 0
	labelWidth := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
		if len(c.Label) > labelWidth {
			labelWidth = len(c.Label)
		}
	}

	barStyle := lipgloss.NewStyle().Foreground(color)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, c := range counts {
		bar := barWidth(c.Count, maxCount)
		b.WriteString(fmt.Sprintf(
			"  %-*s %s %d\n",
			labelWidth, c.Label,
			barStyle.Render(strings.Repeat("█", bar)),
			c.Count,
		))
	}
	return b.String()
}

func barWidth(count, maxCount int) int {
	if maxCount == 0 || count == 0 {
		return 0
	}
	w := count * maxBarWidth / maxCount
	if w < 1 {
		w = 1
	}
	return w
}

// LoadStats returns a tea.Cmd that fetches the counts from the server.
func (m Model) LoadStats() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.DeviceStats(context.Background())
		return StatsLoadedMsg{Stats: stats, Err: err}
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
