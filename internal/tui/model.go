package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/digirp/digirp/internal/config"
	"github.com/digirp/digirp/internal/models"
	"github.com/digirp/digirp/internal/presence"
)

// Minimum terminal size the form fits in.
const (
	minWidth  = 44
	minHeight = 20
)

// Options configures the TUI model.
type Options struct {
	Controller     *presence.Controller
	ApplicationID  string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// Initial pre-fills the form.
	Initial models.Presence

	// AutoConnect connects as soon as the program starts.
	AutoConnect bool

	// AppIDFlag is the --app-id value; it wins over reloaded settings.
	AppIDFlag string

	// SettingsUpdates delivers settings reloaded from disk.
	SettingsUpdates <-chan *models.Settings
}

// Model is the root Bubbletea model for the TUI.
type Model struct {
	ctrl           *presence.Controller
	appID          string
	connectTimeout time.Duration
	requestTimeout time.Duration
	autoConnect    bool
	appIDFlag      string

	// Mirror of the controller state, updated from result messages so View
	// never waits on an in-flight IPC call.
	connected bool
	account   string
	shown     models.Presence
	hasShown  bool

	// UI state
	activeOverlay int
	confirmMode   int
	busy          bool
	quitting      bool
	width         int
	height        int

	// Status display
	err    error
	notice string

	form *PresenceForm
}

// NewModel creates the initial TUI model.
func NewModel(opts Options) Model {
	form := NewPresenceForm(minWidth)
	form.PreFill(opts.Initial)

	return Model{
		ctrl:           opts.Controller,
		appID:          opts.ApplicationID,
		connectTimeout: opts.ConnectTimeout,
		requestTimeout: opts.RequestTimeout,
		autoConnect:    opts.AutoConnect && opts.ApplicationID != "",
		appIDFlag:      opts.AppIDFlag,
		busy:           opts.AutoConnect && opts.ApplicationID != "",
		form:           form,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	if m.autoConnect {
		return connectCmd(m.ctrl, m.appID, m.connectTimeout)
	}
	return nil
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// ── Window resize ──────────────────────────────────────────────
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetWidth(msg.Width)
		return m, nil

	// ── Key events ─────────────────────────────────────────────────
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	// ── Session results ────────────────────────────────────────────
	case ConnectedMsg:
		m.busy = false
		m.connected = true
		m.account = msg.Account
		m.err = nil
		return m, m.showNotice("Connected")

	case PresenceSetMsg:
		m.busy = false
		m.connected = true
		if msg.Account != "" {
			m.account = msg.Account
		}
		m.shown = msg.Sent
		m.hasShown = msg.Sent.Visible()
		m.err = nil
		if msg.Clipped {
			return m, m.showNotice("Presence updated (long lines clipped)")
		}
		return m, m.showNotice("Presence updated")

	case PresenceClearedMsg:
		m.busy = false
		m.shown = models.Presence{}
		m.hasShown = false
		m.err = nil
		return m, m.showNotice("Presence cleared")

	case DisconnectedMsg:
		m.busy = false
		m.markDisconnected()
		return m, m.showNotice("Disconnected")

	case SettingsChangedMsg:
		return m, m.applySettings(msg.Settings)

	// ── Error handling ─────────────────────────────────────────────
	case ErrorMsg:
		m.busy = false
		if !msg.Connected {
			m.markDisconnected()
		}
		m.err = msg.Err
		m.notice = ""
		return m, clearErrorAfter(5 * time.Second)

	case ClearErrorMsg:
		m.err = nil
		return m, nil

	case ClearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	// Cursor blink and other input-internal messages
	input := m.form.FocusedInput()
	updated, cmd := input.Update(msg)
	*input = updated
	return m, cmd
}

// applySettings takes over reloaded settings. A new application ID moves a
// live session over and shows the current status on it again.
func (m *Model) applySettings(s *models.Settings) tea.Cmd {
	m.connectTimeout = s.ConnectTimeout
	m.requestTimeout = s.RequestTimeout

	id, err := config.ResolveApplicationID(m.appIDFlag, s)
	if err != nil || id == m.appID {
		return m.showNotice("Settings reloaded")
	}
	m.appID = id

	if !m.connected || m.busy {
		return m.showNotice("Application ID updated")
	}
	m.busy = true
	m.err = nil
	return switchApplicationCmd(m.ctrl, id, m.shown, m.hasShown, m.connectTimeout, m.requestTimeout)
}

func (m *Model) markDisconnected() {
	m.connected = false
	m.account = ""
	m.shown = models.Presence{}
	m.hasShown = false
}

func (m *Model) showNotice(text string) tea.Cmd {
	m.notice = text
	return clearNoticeAfter(3 * time.Second)
}

// handleKey processes key events.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.quitting {
		return nil
	}

	// Confirm mode captures everything
	if m.confirmMode != confirmNone {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		if m.hasShown {
			m.confirmMode = confirmQuit
			return nil
		}
		return m.doQuit()

	case key.Matches(msg, globalKeys.Help):
		if m.activeOverlay == overlayHelp {
			m.activeOverlay = overlayNone
		} else {
			m.activeOverlay = overlayHelp
		}
		return nil
	}

	// Overlay captures everything except global shortcuts
	if m.activeOverlay != overlayNone {
		if key.Matches(msg, overlayKeys.Cancel) {
			m.activeOverlay = overlayNone
		}
		return nil
	}

	return m.handleFormKey(msg)
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, formKeys.Submit):
		return m.submit()

	case key.Matches(msg, formKeys.Clear):
		m.confirmMode = confirmClear
		return nil

	case key.Matches(msg, formKeys.Connect):
		if m.busy || m.connected {
			return nil
		}
		m.busy = true
		m.err = nil
		return connectCmd(m.ctrl, m.appID, m.connectTimeout)

	case key.Matches(msg, formKeys.Disconnect):
		if m.busy || !m.connected {
			return nil
		}
		m.busy = true
		return disconnectCmd(m.ctrl)

	case key.Matches(msg, formKeys.Timer):
		m.form.CycleTimer()
		return nil

	case key.Matches(msg, formKeys.Next):
		m.form.FocusNext()
		return nil

	case key.Matches(msg, formKeys.Prev):
		m.form.FocusPrev()
		return nil
	}

	input := m.form.FocusedInput()
	updated, cmd := input.Update(msg)
	*input = updated
	return cmd
}

// submit pushes the form; when disconnected it connects first.
func (m *Model) submit() tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	m.err = nil

	p := m.form.Presence()
	if m.connected {
		return setPresenceCmd(m.ctrl, p, m.requestTimeout)
	}
	return connectAndSetCmd(m.ctrl, m.appID, p, m.connectTimeout, m.requestTimeout)
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, confirmKeys.Yes):
		mode := m.confirmMode
		m.confirmMode = confirmNone
		switch mode {
		case confirmClear:
			m.form.Reset()
			if !m.connected || m.busy {
				return nil
			}
			m.busy = true
			return clearPresenceCmd(m.ctrl, m.requestTimeout)
		case confirmQuit:
			return m.doQuit()
		}
	case key.Matches(msg, confirmKeys.No), key.Matches(msg, confirmKeys.Cancel):
		m.confirmMode = confirmNone
	}
	return nil
}

// doQuit releases the session, then quits.
func (m *Model) doQuit() tea.Cmd {
	m.quitting = true
	return disconnectAndQuitCmd(m.ctrl)
}

// ── View ─────────────────────────────────────────────────────────

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Minimum size check
	if m.width < minWidth || m.height < minHeight {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(colorYellow).
			Render("Terminal too small")
	}

	header := renderHeader(&m, m.width)
	statusBar := renderStatusBar(&m, m.width)

	body := lipgloss.JoinVertical(lipgloss.Left,
		"",
		m.form.View(),
		"",
		m.renderPreview(),
	)
	body = lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Padding(0, 1).
		Render(body)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)

	if m.activeOverlay == overlayHelp {
		view = renderOverlay(view, renderHelp(m.width), m.width, m.height)
	}

	return view
}

// renderPreview shows what the chat client currently displays.
func (m Model) renderPreview() string {
	width := formWidth(m.width)
	inner := width - 6

	lines := []string{previewTitleStyle.Render("Now showing")}
	if !m.hasShown {
		lines = append(lines, previewTitleStyle.Render("(nothing)"))
	} else {
		for _, l := range []string{m.shown.Details, m.shown.State} {
			if l == "" {
				continue
			}
			lines = append(lines, previewLineStyle.Render(ansi.Truncate(l, inner, "…")))
		}
		if m.shown.Timer != models.TimerNone {
			lines = append(lines, previewTitleStyle.Render("Timer: "+m.shown.Timer.Label()))
		}
	}

	return previewStyle.Width(width).Render(strings.Join(lines, "\n"))
}
