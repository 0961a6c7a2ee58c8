package api

import "github.com/qhuy/iot-console/internal/model"

// GeneralResponse is the plain {message} envelope returned by auth
// endpoints that carry no data.
type GeneralResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard error body returned by the backend.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TokenEnvelope is the credential part of a login response.
type TokenEnvelope struct {
	AccessToken string `json:"access_token"`
	ExpiryAt    string `json:"expiry_at"`
}

// LoginResponse is the response from POST /api/auth/login.
type LoginResponse struct {
	Message string        `json:"message"`
	Token   TokenEnvelope `json:"token"`
	User    model.Profile `json:"user"`
}

// RegisterPayload is the body for POST /api/auth/register.
type RegisterPayload struct {
	Username string `json:"username"`
	Gmail    string `json:"gmail"`
	Password string `json:"password"`
}

// ResetPasswordPayload is the body for POST /api/auth/reset-password/{token}.
type ResetPasswordPayload struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// DevicesResponse is the response from GET /api/devices: devices
// grouped by the room they are installed in.
type DevicesResponse struct {
	Success bool         `json:"success"`
	Data    []model.Room `json:"data"`
}

// StatsResponse is the response from GET /api/devices/stats.
type StatsResponse struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	ByRoom   []RoomCount   `json:"by_room"`
	ByType   []TypeCount   `json:"by_type"`
	ByStatus []StatusCount `json:"by_status"`
}

// RoomCount is one per-room device count.
type RoomCount struct {
	Room  string `json:"room"`
	Count int    `json:"count"`
}

// TypeCount is one per-type device count.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// StatusCount is one per-status device count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DevicePayload is the body for creating or updating a device.
type DevicePayload struct {
	Name     string             `json:"name"`
	Type     string             `json:"type"`
	Room     string             `json:"room"`
	Config   model.DeviceConfig `json:"config"`
	Location *model.Location    `json:"location,omitempty"`
}

// DeviceResponse is the {message, data} envelope wrapping a single device.
type DeviceResponse struct {
	Message string       `json:"message"`
	Data    model.Device `json:"data"`
}

// UsersResponse is the response from GET /api/users.
type UsersResponse struct {
	Message    string           `json:"message"`
	Data       []model.User     `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

// UserResponse is the {message, data} envelope wrapping a single user.
type UserResponse struct {
	Message string     `json:"message"`
	Data    model.User `json:"data"`
}

// CreateUserPayload is the body for POST /api/users.
type CreateUserPayload struct {
	Username string `json:"username"`
	Gmail    string `json:"gmail"`
	Password string `json:"password"`
}

// UpdateUserPayload is the body for PUT /api/users/{id}.
type UpdateUserPayload struct {
	Username string `json:"username"`
}
