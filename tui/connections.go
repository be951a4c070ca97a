package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"iotview/models"
)

// connectionsModel is the card list screen: loading / error / data triple
// with refresh and an empty state.
type connectionsModel struct {
	list    []models.Connection
	cursor  int
	loading bool
	errMsg  string
}

func newConnectionsModel() connectionsModel {
	return connectionsModel{}
}

func (a App) updateConnections(message tea.Msg) (tea.Model, tea.Cmd) {
	msg, ok := message.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch msg.String() {
	case "q", "esc":
		return a, tea.Quit

	case "up", "k":
		if a.connections.cursor > 0 {
			a.connections.cursor--
		}

	case "down", "j":
		if a.connections.cursor < len(a.connections.list)-1 {
			a.connections.cursor++
		}

	case "r":
		// Refresh, and retry after an error banner.
		a.connections.loading = true
		a.connections.errMsg = ""
		return a, a.fetchConnections()

	case "o":
		a.closeViewer()
		a.screen = screenLogin
		a.login = newLoginModel()
		return a, tea.Batch(a.logoutCmd(), a.login.focusCmd())

	case "enter":
		if len(a.connections.list) == 0 {
			return a, nil
		}
		selected := a.connections.list[a.connections.cursor]
		return a, a.fetchConnection(selected.ConnectionID)
	}
	return a, nil
}

func (m connectionsModel) view(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Connections"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading connections...\n")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n\n" + helpStyle.Render("r retry"))
		return b.String()
	case len(m.list) == 0:
		b.WriteString(labelStyle.Render("No connections configured yet."))
		b.WriteString("\n")
	default:
		for i, conn := range m.list {
			b.WriteString(m.card(i, conn))
		}
	}

	b.WriteString("\n" + helpStyle.Render("enter open · r refresh · o sign out · q quit"))
	return b.String()
}

func (m connectionsModel) card(index int, conn models.Connection) string {
	ping := statusOffline.Render("● offline")
	if conn.PingStatus {
		ping = statusOnline.Render("● online")
	}
	line := fmt.Sprintf("%-28s %-10s %-12s %s", conn.ConnectionName, conn.Protocol, conn.TypeOfConnection, ping)
	if index == m.cursor {
		line = selectedStyle.Render("> " + line)
	} else {
		line = "  " + line
	}
	out := line + "\n"
	if conn.ConnectionDesc != "" {
		out += labelStyle.Render("    "+conn.ConnectionDesc) + "\n"
	}
	return out
}
