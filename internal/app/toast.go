package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/qhuy/iot-console/internal/model"
)

// toastDuration is how long a transient toast stays in the status bar.
const toastDuration = 4 * time.Second

// toastExpiredMsg dismisses the toast identified by id. Stale timers
// from an already-replaced toast are ignored.
type toastExpiredMsg struct {
	id uuid.UUID
}

type toast struct {
	id        uuid.UUID
	text      string
	alertType string
}

// showToast replaces the current toast and arms its dismissal timer.
func (m *Model) showToast(text, alertType string) tea.Cmd {
	if alertType == "" {
		alertType = model.TypeInfo
	}
	id := uuid.New()
	m.toast = toast{id: id, text: text, alertType: alertType}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// clearToast dismisses the toast if id still identifies it.
func (m *Model) clearToast(id uuid.UUID) {
	if m.toast.id == id {
		m.toast = toast{}
	}
}
