package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveView(t *testing.T) {
	tests := []struct {
		name         string
		target       ViewState
		authed       bool
		want         ViewState
		wantRedirect bool
	}{
		{"login while signed out", ViewLogin, false, ViewLogin, false},
		{"signup while signed out", ViewSignup, false, ViewSignup, false},
		{"recover while signed out", ViewRecover, false, ViewRecover, false},
		{"devices while signed in", ViewDevices, true, ViewDevices, false},
		{"users while signed in", ViewUsers, true, ViewUsers, false},
		{"stats while signed in", ViewStats, true, ViewStats, false},
		{"notifications while signed in", ViewNotifications, true, ViewNotifications, false},
		{"help while signed in", ViewHelp, true, ViewHelp, false},

		// Protected targets bounce to login when the session is gone.
		{"devices while signed out", ViewDevices, false, ViewLogin, true},
		{"users while signed out", ViewUsers, false, ViewLogin, true},
		{"notifications while signed out", ViewNotifications, false, ViewLogin, true},
		{"confirm while signed out", ViewConfirm, false, ViewLogin, true},

		// Public targets bounce to the device list when already signed in.
		{"login while signed in", ViewLogin, true, ViewDevices, true},
		{"signup while signed in", ViewSignup, true, ViewDevices, true},
		{"recover while signed in", ViewRecover, true, ViewDevices, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, redirected := resolveView(tt.target, tt.authed)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRedirect, redirected)
		})
	}
}

func TestIsPublic(t *testing.T) {
	assert.True(t, isPublic(ViewLogin))
	assert.True(t, isPublic(ViewSignup))
	assert.True(t, isPublic(ViewRecover))
	assert.False(t, isPublic(ViewDevices))
	assert.False(t, isPublic(ViewDeviceForm))
	assert.False(t, isPublic(ViewUsers))
	assert.False(t, isPublic(ViewStats))
	assert.False(t, isPublic(ViewNotifications))
	assert.False(t, isPublic(ViewHelp))
	assert.False(t, isPublic(ViewConfirm))
}
