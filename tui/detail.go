package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"iotview/models"
)

// detailModel shows one connection's static configuration. The password is
// masked; the live viewer opens from here.
type detailModel struct {
	conn *models.Connection
}

func newDetailModel(conn *models.Connection) detailModel {
	return detailModel{conn: conn}
}

func (a App) updateDetail(message tea.Msg) (tea.Model, tea.Cmd) {
	msg, ok := message.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "b":
		a.screen = screenConnections
		return a, nil
	case "v", "enter":
		a.viewer = newViewerModel(a.detail.conn, a.cfg, a.logger)
		a.screen = screenViewer
		return a, a.viewer.waitForUpdate()
	}
	return a, nil
}

func (m detailModel) view() string {
	c := m.conn
	var b strings.Builder
	b.WriteString(titleStyle.Render(c.ConnectionName))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Description", c.ConnectionDesc},
		{"Host", c.ConnectionURL},
		{"Port", strconv.Itoa(c.Port)},
		{"Protocol", c.Protocol},
		{"Type", c.TypeOfConnection},
		{"QoS", strconv.Itoa(c.QoS)},
		{"Keep alive", fmt.Sprintf("%ds", c.KeepAlive)},
		{"Subscribe topic", c.SubscribeTopic},
		{"Created", c.FormatCreatedAt()},
	}
	if c.AuthenticatedBroker {
		rows = append(rows,
			[2]string{"Username", c.Username},
			[2]string{"Password", c.MaskedPassword()},
		)
	}
	if len(c.ResponseParameters) > 0 {
		rows = append(rows, [2]string{"Response parameters", strings.Join(c.ResponseParameters, ", ")})
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", row[0])))
		b.WriteString(row[1])
		b.WriteString("\n")
	}

	b.WriteString("\n" + helpStyle.Render("v live viewer · b back · q quit"))
	return b.String()
}
