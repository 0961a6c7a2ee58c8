package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageFromAlert(t *testing.T) {
	msg := messageFromAlert(AlertMessage{
		UID:       42,
		Subject:   "Smoke detected",
		From:      "alerts@platform.example.com",
		TextBody:  "Sensor kitchen-01 reported smoke.",
		AlertType: "FIRE",
	})

	assert.Equal(t, "Smoke detected", msg.Notification.Title)
	assert.Equal(t, "Sensor kitchen-01 reported smoke.", msg.Notification.Body)
	assert.Equal(t, "FIRE", msg.Data["alertType"])
}

func TestMessageFromAlertWithoutTypeHeader(t *testing.T) {
	msg := messageFromAlert(AlertMessage{
		Subject:  "Gate opened",
		TextBody: "Front gate opened at 18:05.",
	})

	assert.Equal(t, "Gate opened", msg.Notification.Title)
	_, present := msg.Data["alertType"]
	assert.False(t, present, "no alertType key when the header is absent")
}

func TestNewWatcherDefaults(t *testing.T) {
	w := NewWatcher(NewIMAPClient("mail.example.com", "993", "alerts", "pw", "", true), 0, nil)

	assert.NotNil(t, w)
	assert.Equal(t, defaultInterval, w.interval)
}
