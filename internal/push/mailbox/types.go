package mailbox

import "time"

// AlertMessage is one unseen message fetched from the alerts mailbox,
// reduced to the fields the console turns into a notification.
type AlertMessage struct {
	UID       uint32
	Subject   string
	From      string
	Date      time.Time
	TextBody  string
	AlertType string
}
