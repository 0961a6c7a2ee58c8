package model

import "time"

// User is a platform account as returned by the user management API.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Gmail     string    `json:"gmail"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination describes the window of a paginated user listing.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// Profile is the lightweight session cache written at login time.
// It is used only for display; authorization decisions always go
// through the session guard.
type Profile struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
