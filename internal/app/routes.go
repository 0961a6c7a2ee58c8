package app

// ViewState identifies the active view.
type ViewState int

const (
	// Public views, reachable without a valid session.
	ViewLogin ViewState = iota
	ViewSignup
	ViewRecover

	// Protected views, guarded by the session check.
	ViewDevices
	ViewDeviceForm
	ViewUsers
	ViewUserForm
	ViewStats
	ViewNotifications
	ViewHelp
	ViewConfirm
)

// isPublic reports whether a view is reachable without authentication.
func isPublic(v ViewState) bool {
	return v <= ViewRecover
}

// resolveView applies the route guard to a navigation target. A public
// target while authenticated lands on the device list; a protected
// target while unauthenticated lands on login. The second return value
// reports whether a redirect happened, in which case the caller must
// not record the previous view: redirects replace, they do not stack.
func resolveView(target ViewState, authenticated bool) (ViewState, bool) {
	if isPublic(target) && authenticated {
		return ViewDevices, true
	}
	if !isPublic(target) && !authenticated {
		return ViewLogin, true
	}
	return target, false
}
