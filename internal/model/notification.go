package model

// TypeInfo is the fallback notification type when a push message
// carries no alertType in its data payload.
const TypeInfo = "INFO"

// Notification represents a single alert surfaced to the user,
// delivered over the push channel and kept in the bounded local log.
type Notification struct {
	// ID is the unique identifier for this notification, derived from
	// its arrival time.
	ID string `json:"id"`

	// Title is the short headline of the alert.
	Title string `json:"title"`

	// Body is the human-readable alert text.
	Body string `json:"body"`

	// Timestamp is the creation time in milliseconds since epoch.
	Timestamp int64 `json:"timestamp"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"isRead"`

	// Type is the alert category tag (e.g. "FIRE", "WARNING", "INFO").
	Type string `json:"type"`
}
