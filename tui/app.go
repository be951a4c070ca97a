// Package tui is the terminal front-end: login, connection list and detail
// screens, and the live telemetry viewer, all over the same core the web
// front-end uses.
package tui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"iotview/auth"
	"iotview/config"
	"iotview/gateway"
	"iotview/models"
)

type screen int

const (
	screenLogin screen = iota
	screenConnections
	screenDetail
	screenViewer
)

// App is the root bubbletea model. It owns screen navigation; each screen
// is a submodel with its own update and view.
type App struct {
	cfg     *config.Config
	auth    *auth.Controller
	gateway *gateway.Client
	logger  *slog.Logger

	screen screen
	width  int
	height int

	login       loginModel
	connections connectionsModel
	detail      detailModel
	viewer      viewerModel
}

// Run starts the terminal front-end and blocks until the user quits.
func Run(cfg *config.Config, authController *auth.Controller, gw *gateway.Client, logger *slog.Logger) error {
	app := newApp(cfg, authController, gw, logger)
	program := tea.NewProgram(app, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newApp(cfg *config.Config, authController *auth.Controller, gw *gateway.Client, logger *slog.Logger) App {
	app := App{
		cfg:         cfg,
		auth:        authController,
		gateway:     gw,
		logger:      logger,
		screen:      screenLogin,
		login:       newLoginModel(),
		connections: newConnectionsModel(),
	}
	// The startup auth check decides the first screen: a stored token
	// skips the login form.
	if authController.IsAuthenticated() {
		app.screen = screenConnections
		app.connections.loading = true
	}
	return app
}

func (a App) Init() tea.Cmd {
	if a.screen == screenConnections {
		return a.fetchConnections()
	}
	return a.login.focusCmd()
}

func (a App) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.closeViewer()
			return a, tea.Quit
		}

	case loginResultMsg:
		a.login.loading = false
		if msg.err != nil {
			a.login.errMsg = msg.err.Error()
			return a, nil
		}
		a.screen = screenConnections
		a.connections.loading = true
		return a, a.fetchConnections()

	case connectionsLoadedMsg:
		a.connections.loading = false
		if msg.err != nil {
			a.connections.errMsg = msg.err.Error()
			return a, nil
		}
		a.connections.errMsg = ""
		a.connections.list = msg.connections
		if a.connections.cursor >= len(msg.connections) {
			a.connections.cursor = 0
		}
		return a, nil

	case connectionLoadedMsg:
		if msg.err != nil {
			a.connections.errMsg = msg.err.Error()
			a.screen = screenConnections
			return a, nil
		}
		a.detail = newDetailModel(msg.connection)
		a.screen = screenDetail
		return a, nil

	case viewerUpdateMsg:
		// Re-arm the wait so the next window or state change re-renders.
		if a.screen == screenViewer && a.viewer.live != nil {
			return a, a.viewer.waitForUpdate()
		}
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.viewer.status = errorStyle.Render("export failed: " + msg.err.Error())
		} else {
			a.viewer.status = "exported " + msg.path
		}
		return a, nil
	}

	switch a.screen {
	case screenLogin:
		return a.updateLogin(message)
	case screenConnections:
		return a.updateConnections(message)
	case screenDetail:
		return a.updateDetail(message)
	case screenViewer:
		return a.updateViewer(message)
	}
	return a, nil
}

func (a App) View() string {
	switch a.screen {
	case screenLogin:
		return a.login.view()
	case screenConnections:
		return a.connections.view(a.width)
	case screenDetail:
		return a.detail.view()
	case screenViewer:
		return a.viewer.view(a.width)
	}
	return ""
}

// closeViewer tears down the live viewer if one is open, so quitting never
// leaves a dangling broker session.
func (a *App) closeViewer() {
	if a.viewer.live != nil {
		a.viewer.live.Close()
		a.viewer.live = nil
	}
}

// --- messages ---

type loginResultMsg struct{ err error }

type connectionsLoadedMsg struct {
	connections []models.Connection
	err         error
}

type connectionLoadedMsg struct {
	connection *models.Connection
	err        error
}

type viewerUpdateMsg struct{}

type exportDoneMsg struct {
	path string
	err  error
}

// --- commands ---

func (a App) loginCmd(identifier, secret string) tea.Cmd {
	return func() tea.Msg {
		err := a.auth.Login(context.Background(), identifier, secret)
		return loginResultMsg{err: err}
	}
}

func (a App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		a.auth.Logout(context.Background())
		return nil
	}
}

func (a App) fetchConnections() tea.Cmd {
	return func() tea.Msg {
		connections, err := a.gateway.ListConnections(context.Background())
		return connectionsLoadedMsg{connections: connections, err: err}
	}
}

func (a App) fetchConnection(id string) tea.Cmd {
	return func() tea.Msg {
		connection, err := a.gateway.GetConnection(context.Background(), id)
		return connectionLoadedMsg{connection: connection, err: err}
	}
}
