package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/qhuy/iot-console/internal/push"
)

// pushArrivedMsg carries one delivered alert into the Bubble Tea loop.
type pushArrivedMsg struct {
	message push.Message
}

// startPush subscribes to the configured transport, bridging deliveries
// through a channel so the Update loop consumes them one at a time.
func (m *Model) startPush() {
	if m.subscriber == nil || m.unsubscribe != nil {
		return
	}

	ch := m.pushCh
	unsub, err := m.subscriber.Subscribe(func(msg push.Message) {
		// Drop rather than block when the UI falls behind; the log
		// is capped anyway and the transport must not stall.
		select {
		case ch <- msg:
		default:
		}
	})
	if err != nil {
		m.logger.Warn("push subscription failed", zap.Error(err))
		return
	}
	m.unsubscribe = unsub
}

// stopPush cancels the active subscription, if any.
func (m *Model) stopPush() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// waitForPush returns a command that blocks on the bridge channel until
// the next alert arrives. The handler for pushArrivedMsg re-issues it.
func (m Model) waitForPush() tea.Cmd {
	ch := m.pushCh
	return func() tea.Msg {
		return pushArrivedMsg{message: <-ch}
	}
}
