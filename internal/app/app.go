// Package app is the root Bubble Tea model: it owns view routing, the
// session-guarded navigation, the push-arrival bridge and the toast
// shown in the status bar.
package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/qhuy/iot-console/internal/api"
	"github.com/qhuy/iot-console/internal/keys"
	"github.com/qhuy/iot-console/internal/model"
	"github.com/qhuy/iot-console/internal/notify"
	"github.com/qhuy/iot-console/internal/push"
	"github.com/qhuy/iot-console/internal/session"
	"github.com/qhuy/iot-console/internal/store"
	"github.com/qhuy/iot-console/internal/theme"
	"github.com/qhuy/iot-console/internal/ui"
	"github.com/qhuy/iot-console/internal/ui/confirm"
	"github.com/qhuy/iot-console/internal/ui/deviceform"
	"github.com/qhuy/iot-console/internal/ui/devicelist"
	"github.com/qhuy/iot-console/internal/ui/helpview"
	"github.com/qhuy/iot-console/internal/ui/login"
	"github.com/qhuy/iot-console/internal/ui/notifmenu"
	recoverview "github.com/qhuy/iot-console/internal/ui/recover"
	"github.com/qhuy/iot-console/internal/ui/signup"
	"github.com/qhuy/iot-console/internal/ui/stats"
	"github.com/qhuy/iot-console/internal/ui/userform"
	"github.com/qhuy/iot-console/internal/ui/userlist"
)

// Deps bundles the long-lived collaborators the root model is built on.
type Deps struct {
	Store      store.Store
	Guard      *session.Guard
	Client     *api.Client
	Center     *notify.Center
	Subscriber push.Subscriber
	Logger     *zap.Logger
}

// Model is the root application model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	ready        bool

	guard       *session.Guard
	client      *api.Client
	store       store.Store
	center      *notify.Center
	subscriber  push.Subscriber
	unsubscribe push.Unsubscribe
	pushCh      chan push.Message
	logger      *zap.Logger

	profile *model.Profile
	toast   toast

	loginView   login.Model
	signupView  signup.Model
	recoverView recoverview.Model
	deviceList  devicelist.Model
	deviceForm  deviceform.Model
	userList    userlist.Model
	userForm    userform.Model
	statsView   stats.Model
	notifMenu   notifmenu.Model
	helpView    helpview.Model
	confirmView confirm.Model

	pendingDeviceID string
	pendingUserID   string
}

// New creates the root model. The starting view is resolved through the
// route guard, so a stale or missing token lands on login.
func New(d Deps) Model {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	k := keys.DefaultKeyMap()

	m := Model{
		keys:        k,
		guard:       d.Guard,
		client:      d.Client,
		store:       d.Store,
		center:      d.Center,
		subscriber:  d.Subscriber,
		pushCh:      make(chan push.Message, 16),
		logger:      d.Logger,
		loginView:   login.New(80, 24),
		signupView:  signup.New(80, 24),
		recoverView: recoverview.New(80),
		deviceList:  devicelist.New(d.Client, k, 80, 24),
		deviceForm:  deviceform.New(80, 24),
		userList:    userlist.New(d.Client, k, 80, 24),
		userForm:    userform.New(80, 24),
		statsView:   stats.New(d.Client, k, 80, 24),
		notifMenu:   notifmenu.New(d.Center, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		confirmView: confirm.New(80, 24),
	}

	m.currentView, _ = resolveView(ViewDevices, d.Guard.IsAuthenticated())
	m.previousView = m.currentView
	if m.currentView == ViewDevices {
		m.startPush()
	}
	return m
}

// Init returns the startup commands for the resolved initial view.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadProfile(), m.waitForPush()}
	if m.currentView == ViewDevices {
		cmds = append(cmds, m.deviceList.LoadDevices())
	} else {
		cmds = append(cmds, m.loginView.Init())
	}
	return tea.Batch(cmds...)
}

// navigate routes to target through the guard, re-checking the session
// on every call. Redirects replace the current view without recording
// it, so back never lands on a page the guard bounced.
func (m *Model) navigate(target ViewState) tea.Cmd {
	resolved, redirected := resolveView(target, m.guard.IsAuthenticated())
	if !redirected {
		m.previousView = m.currentView
	}
	m.currentView = resolved
	return m.enterView(resolved)
}

// enterView returns the command that refreshes a view on entry. Form
// and confirm views are armed by their callers instead.
func (m *Model) enterView(v ViewState) tea.Cmd {
	switch v {
	case ViewLogin:
		return m.loginView.Init()
	case ViewSignup:
		return m.signupView.Init()
	case ViewRecover:
		return m.recoverView.Init()
	case ViewDevices:
		return m.deviceList.LoadDevices()
	case ViewUsers:
		return m.userList.LoadUsers()
	case ViewStats:
		return m.statsView.LoadStats()
	case ViewNotifications:
		return m.notifMenu.Open()
	default:
		return nil
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.signupView.SetSize(w, h)
		m.recoverView.SetSize(w)
		m.deviceList.SetSize(w, h)
		m.deviceForm.SetSize(w, h)
		m.userList.SetSize(w, h)
		m.userForm.SetSize(w, h)
		m.statsView.SetSize(w, h)
		m.notifMenu.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.confirmView.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case profileLoadedMsg:
		m.profile = msg.profile
		return m, nil

	case pushArrivedMsg:
		return m.handlePushArrival(msg)

	case toastExpiredMsg:
		m.clearToast(msg.id)
		return m, nil

	// Sign-in flow.
	case login.SubmitMsg:
		return m, m.login(msg.Username, msg.Password)
	case login.GotoSignupMsg:
		cmd := m.navigate(ViewSignup)
		return m, cmd
	case login.GotoRecoverMsg:
		cmd := m.navigate(ViewRecover)
		return m, cmd
	case loginResultMsg:
		return m.handleLoginResult(msg)

	// Registration flow.
	case signup.SubmitMsg:
		return m, m.register(msg.Username, msg.Gmail, msg.Password)
	case signup.CancelMsg:
		cmd := m.navigate(ViewLogin)
		return m, cmd
	case registerResultMsg:
		if msg.err != nil {
			m.signupView.SetBusy(false)
			cmd := m.showToast(msg.err.Error(), "WARNING")
			return m, cmd
		}
		nav := m.navigate(ViewLogin)
		notice := m.showToast("Account created. Sign in to continue.", "")
		return m, tea.Batch(nav, notice)

	// Password recovery flow.
	case recoverview.RequestMsg:
		return m, m.forgotPassword(msg.Gmail)
	case recoverview.ResetMsg:
		return m, m.resetPassword(msg.Token, msg.NewPassword)
	case recoverview.CancelMsg:
		cmd := m.navigate(ViewLogin)
		return m, cmd
	case forgotResultMsg:
		if msg.err != nil {
			m.recoverView.SetBusy(false)
			cmd := m.showToast(msg.err.Error(), "WARNING")
			return m, cmd
		}
		advance := m.recoverView.AdvanceToReset()
		notice := m.showToast("Reset email sent.", "")
		return m, tea.Batch(advance, notice)
	case resetResultMsg:
		if msg.err != nil {
			m.recoverView.SetBusy(false)
			cmd := m.showToast(msg.err.Error(), "WARNING")
			return m, cmd
		}
		nav := m.navigate(ViewLogin)
		notice := m.showToast("Password updated. Sign in to continue.", "")
		return m, tea.Batch(nav, notice)

	// Read failures stop here; successful loads fall through to the
	// active view below.
	case devicelist.DevicesLoadedMsg:
		if msg.Err != nil {
			return m.handleAPIError(msg.Err)
		}
	case userlist.UsersLoadedMsg:
		if msg.Err != nil {
			return m.handleAPIError(msg.Err)
		}
	case stats.StatsLoadedMsg:
		if msg.Err != nil {
			return m.handleAPIError(msg.Err)
		}

	// Device management.
	case devicelist.NewDeviceMsg:
		m.previousView = m.currentView
		m.currentView = ViewDeviceForm
		m.deviceForm.SetRooms(m.deviceList.RoomNames())
		cmd := m.deviceForm.StartCreate()
		return m, cmd
	case devicelist.EditDeviceMsg:
		m.previousView = m.currentView
		m.currentView = ViewDeviceForm
		m.deviceForm.SetRooms(m.deviceList.RoomNames())
		cmd := m.deviceForm.StartEdit(msg.Device, msg.Room)
		return m, cmd
	case devicelist.DeleteDeviceMsg:
		m.pendingDeviceID = msg.Device.ID
		m.previousView = m.currentView
		m.currentView = ViewConfirm
		cmd := m.confirmView.Start(
			"delete-device",
			fmt.Sprintf("Delete device %q?", msg.Device.Name),
		)
		return m, cmd
	case deviceform.DeviceCreatedMsg:
		m.currentView = ViewDevices
		return m, m.createDevice(msg.Payload)
	case deviceform.DeviceUpdatedMsg:
		m.currentView = ViewDevices
		return m, m.updateDevice(msg.ID, msg.Payload)
	case deviceform.CancelMsg:
		m.currentView = ViewDevices
		return m, nil
	case deviceMutatedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		notice := m.showToast("Device "+msg.action+".", "")
		return m, tea.Batch(notice, m.deviceList.LoadDevices())

	// User management.
	case userlist.NewUserMsg:
		m.previousView = m.currentView
		m.currentView = ViewUserForm
		cmd := m.userForm.StartCreate()
		return m, cmd
	case userlist.EditUserMsg:
		m.previousView = m.currentView
		m.currentView = ViewUserForm
		cmd := m.userForm.StartEdit(msg.User)
		return m, cmd
	case userlist.DeleteUserMsg:
		m.pendingUserID = msg.User.ID
		m.previousView = m.currentView
		m.currentView = ViewConfirm
		cmd := m.confirmView.Start(
			"delete-user",
			fmt.Sprintf("Delete user %q?", msg.User.Username),
		)
		return m, cmd
	case userform.UserCreatedMsg:
		m.currentView = ViewUsers
		return m, m.createUser(msg.Payload)
	case userform.UserUpdatedMsg:
		m.currentView = ViewUsers
		return m, m.updateUser(msg.ID, msg.Payload)
	case userform.CancelMsg:
		m.currentView = ViewUsers
		return m, nil
	case userMutatedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		notice := m.showToast("User "+msg.action+".", "")
		return m, tea.Batch(notice, m.userList.LoadUsers())

	case notifmenu.ClearedMsg:
		cmd := m.showToast("Notifications cleared.", "")
		return m, cmd

	case confirm.ResultMsg:
		return m.handleConfirmResult(msg)

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work across protected views.
// Keys are not intercepted while a form or search input has focus.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.stopPush()
		return true, m, tea.Quit
	}

	if m.inputActive() {
		return false, m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopPush()
		return true, m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		cmd := m.navigate(ViewHelp)
		return true, m, cmd

	case key.Matches(msg, m.keys.Back):
		if m.currentView == ViewHelp || m.currentView == ViewNotifications {
			m.currentView = m.previousView
			return true, m, nil
		}

	case key.Matches(msg, m.keys.Devices):
		if !isPublic(m.currentView) && m.currentView != ViewDevices {
			cmd := m.navigate(ViewDevices)
			return true, m, cmd
		}

	case key.Matches(msg, m.keys.Users):
		if !isPublic(m.currentView) && m.currentView != ViewUsers {
			cmd := m.navigate(ViewUsers)
			return true, m, cmd
		}

	case key.Matches(msg, m.keys.Stats):
		if !isPublic(m.currentView) && m.currentView != ViewStats {
			cmd := m.navigate(ViewStats)
			return true, m, cmd
		}

	case key.Matches(msg, m.keys.Notifications):
		if !isPublic(m.currentView) && m.currentView != ViewNotifications {
			cmd := m.navigate(ViewNotifications)
			return true, m, cmd
		}

	case key.Matches(msg, m.keys.Logout):
		if !isPublic(m.currentView) && m.currentView != ViewConfirm {
			m.previousView = m.currentView
			m.currentView = ViewConfirm
			cmd := m.confirmView.Start("logout", "Sign out?")
			return true, m, cmd
		}
	}

	return false, m, nil
}

// inputActive reports whether the active view owns the keyboard, in
// which case single-letter shortcuts must pass through untouched.
func (m Model) inputActive() bool {
	switch m.currentView {
	case ViewLogin, ViewSignup, ViewRecover, ViewDeviceForm, ViewUserForm, ViewConfirm:
		return true
	case ViewDevices:
		return m.deviceList.SearchActive()
	case ViewUsers:
		return m.userList.SearchActive()
	}
	return false
}

// handlePushArrival funnels a delivered alert into the center, surfaces
// a toast and re-arms the bridge wait.
func (m Model) handlePushArrival(msg pushArrivedMsg) (tea.Model, tea.Cmd) {
	n := m.center.Add(
		msg.message.Notification.Title,
		msg.message.Notification.Body,
		msg.message.Data,
	)

	cmds := []tea.Cmd{
		m.waitForPush(),
		m.showToast(n.Title, n.Type),
	}
	if m.currentView == ViewNotifications {
		cmds = append(cmds, m.notifMenu.Reload())
	}
	return m, tea.Batch(cmds...)
}

// handleLoginResult establishes the session on success and routes to
// the device list.
func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.loginView.SetBusy(false)
		cmd := m.showToast(msg.err.Error(), "WARNING")
		return m, cmd
	}

	if err := m.guard.Establish(msg.resp.Token.AccessToken); err != nil {
		m.loginView.SetBusy(false)
		cmd := m.showToast(err.Error(), "WARNING")
		return m, cmd
	}

	profile := msg.resp.User
	m.profile = &profile
	if err := m.store.SaveProfile(profile); err != nil {
		m.logger.Warn("caching profile", zap.Error(err))
	}

	m.startPush()
	nav := m.navigate(ViewDevices)
	notice := m.showToast("Signed in as "+profile.Username+".", "")
	return m, tea.Batch(nav, notice)
}

// handleConfirmResult completes or abandons the action the prompt was
// guarding.
func (m Model) handleConfirmResult(msg confirm.ResultMsg) (tea.Model, tea.Cmd) {
	if !msg.OK {
		m.currentView = m.previousView
		return m, nil
	}

	switch msg.Tag {
	case "logout":
		m.stopPush()
		if err := m.guard.SignOut(); err != nil {
			m.logger.Warn("removing access token", zap.Error(err))
		}
		if err := m.store.DeleteProfile(); err != nil {
			m.logger.Warn("removing cached profile", zap.Error(err))
		}
		m.profile = nil
		m.currentView = ViewLogin
		m.previousView = ViewLogin
		form := m.loginView.Init()
		notice := m.showToast("Signed out.", "")
		return m, tea.Batch(form, notice)

	case "delete-device":
		id := m.pendingDeviceID
		m.pendingDeviceID = ""
		m.currentView = ViewDevices
		return m, m.deleteDevice(id)

	case "delete-user":
		id := m.pendingUserID
		m.pendingUserID = ""
		m.currentView = ViewUsers
		return m, m.deleteUser(id)
	}

	m.currentView = m.previousView
	return m, nil
}

// handleAPIError surfaces a request failure. A rejected token ends the
// session and routes back to login; anything else becomes a toast.
func (m Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	if api.IsAuthError(err) {
		m.stopPush()
		if serr := m.guard.SignOut(); serr != nil {
			m.logger.Warn("removing access token", zap.Error(serr))
		}
		m.profile = nil
		m.currentView = ViewLogin
		m.previousView = ViewLogin
		form := m.loginView.Init()
		notice := m.showToast("Session expired. Sign in again.", "WARNING")
		return m, tea.Batch(form, notice)
	}
	cmd := m.showToast(err.Error(), "WARNING")
	return m, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewSignup:
		m.signupView, cmd = m.signupView.Update(msg)
	case ViewRecover:
		m.recoverView, cmd = m.recoverView.Update(msg)
	case ViewDevices:
		m.deviceList, cmd = m.deviceList.Update(msg)
	case ViewDeviceForm:
		m.deviceForm, cmd = m.deviceForm.Update(msg)
	case ViewUsers:
		m.userList, cmd = m.userList.Update(msg)
	case ViewUserForm:
		m.userForm, cmd = m.userForm.Update(msg)
	case ViewStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case ViewNotifications:
		m.notifMenu, cmd = m.notifMenu.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	unread := 0
	if !isPublic(m.currentView) {
		unread = m.center.UnreadCount()
	}
	header := m.layout.RenderHeader("IoT Console", unread, m.accountLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.statusLine())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// accountLabel is the signed-in identity shown in the header.
func (m Model) accountLabel() string {
	if isPublic(m.currentView) {
		return "signed out"
	}
	if m.profile == nil {
		return ""
	}
	return m.profile.Username + " (" + m.profile.Role + ")"
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewSignup:
		return m.signupView.View()
	case ViewRecover:
		return m.recoverView.View()
	case ViewDevices:
		return m.deviceList.View()
	case ViewDeviceForm:
		return m.deviceForm.View()
	case ViewUsers:
		return m.userList.View()
	case ViewUserForm:
		return m.userForm.View()
	case ViewStats:
		return m.statsView.View()
	case ViewNotifications:
		return m.notifMenu.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewConfirm:
		return m.confirmView.View()
	default:
		return ""
	}
}

// statusLine renders the toast when one is live, key hints otherwise.
func (m Model) statusLine() string {
	if m.toast.text != "" {
		return theme.AlertStyle(m.toast.alertType).Render(m.toast.text)
	}

	switch m.currentView {
	case ViewLogin:
		return "enter sign in | ctrl+n create account | ctrl+f forgot password"
	case ViewSignup, ViewRecover:
		return "enter submit | esc back"
	case ViewDevices:
		return "n new | e edit | d delete | / search | r refresh | 2 users | 3 stats | b alerts | ? help"
	case ViewDeviceForm, ViewUserForm:
		return "enter submit | esc cancel"
	case ViewUsers:
		return "n new | e edit | d delete | / search | ] next | [ prev | 1 devices | ? help"
	case ViewStats:
		return "r refresh | 1 devices | 2 users | b alerts | ? help"
	case ViewNotifications:
		return "x clear all | esc back"
	case ViewHelp:
		return "? close help | esc back"
	case ViewConfirm:
		return "enter confirm | esc cancel"
	default:
		return ""
	}
}
