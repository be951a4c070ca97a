package tui

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"iotview/config"
	"iotview/models"
	"iotview/viewer"
)

type viewMode int

const (
	modeTable viewMode = iota
	modeRaw
	modeTimeline
	modeChart
)

// viewerModel is the live telemetry screen. It owns exactly one viewer
// instance; window and state changes arrive through the updates channel and
// are turned into bubbletea messages.
type viewerModel struct {
	live      *viewer.Viewer
	conn      *models.Connection
	mode      viewMode
	updates   chan struct{}
	status    string
	exportDir string
}

func newViewerModel(conn *models.Connection, cfg *config.Config, logger *slog.Logger) viewerModel {
	updates := make(chan struct{}, 1)
	live := viewer.New(conn, viewer.Options{
		WindowSize: cfg.WindowSize,
		Notify: func() {
			// Coalescing send: one pending wakeup is enough, the render
			// reads a fresh snapshot anyway.
			select {
			case updates <- struct{}{}:
			default:
			}
		},
	}, logger)

	return viewerModel{
		live:      live,
		conn:      conn,
		updates:   updates,
		exportDir: cfg.ExportDir,
	}
}

// waitForUpdate blocks until the viewer reports a change, then wakes the
// bubbletea loop.
func (m viewerModel) waitForUpdate() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		<-updates
		return viewerUpdateMsg{}
	}
}

func (m viewerModel) exportCmd(format viewer.Format) tea.Cmd {
	live := m.live
	dir := m.exportDir
	return func() tea.Msg {
		path, err := viewer.WriteFile(dir, live.Snapshot(), format)
		return exportDoneMsg{path: path, err: err}
	}
}

func (a App) updateViewer(message tea.Msg) (tea.Model, tea.Cmd) {
	msg, ok := message.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch msg.String() {
	case "q":
		a.closeViewer()
		return a, tea.Quit

	case "b", "esc":
		a.closeViewer()
		a.screen = screenDetail
		return a, nil

	case "s":
		// Connect rejects a session that is not disconnected, so holding
		// the key down cannot open a second session.
		if err := a.viewer.live.Connect(); err != nil {
			a.viewer.status = errorStyle.Render(err.Error())
		} else {
			a.viewer.status = ""
		}
		return a, nil

	case "d":
		a.viewer.live.Disconnect()
		return a, nil

	case "t":
		a.viewer.mode = modeTable
	case "j":
		a.viewer.mode = modeRaw
	case "l":
		a.viewer.mode = modeTimeline
	case "g":
		a.viewer.mode = modeChart

	case "J":
		return a, a.viewer.exportCmd(viewer.FormatJSON)
	case "X":
		return a, a.viewer.exportCmd(viewer.FormatXLSX)
	case "T":
		return a, a.viewer.exportCmd(viewer.FormatText)
	}
	return a, nil
}

func (m viewerModel) view(width int) string {
	window := m.live.Snapshot()
	received, dropped := m.live.Counts()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Live telemetry · " + m.conn.ConnectionName))
	b.WriteString("\n")

	state := m.live.State()
	stateLabel := statusOffline.Render(state.String())
	switch state {
	case viewer.StateConnected:
		stateLabel = statusOnline.Render(state.String())
	case viewer.StateConnecting:
		stateLabel = statusWarn.Render(state.String())
	}
	b.WriteString(fmt.Sprintf("%s · %d messages · %d received · %d dropped\n", stateLabel, len(window), received, dropped))
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("\n")

	switch m.mode {
	case modeTable:
		b.WriteString(renderTable(window))
	case modeRaw:
		raw, err := viewer.RawJSON(window)
		if err != nil {
			b.WriteString(errorStyle.Render(err.Error()))
		} else {
			b.WriteString(raw)
		}
		b.WriteString("\n")
	case modeTimeline:
		b.WriteString(renderTimeline(window))
	case modeChart:
		b.WriteString(renderChart(window, width))
	}

	b.WriteString("\n" + helpStyle.Render("s start · d stop · t/j/l/g views · J/X/T export · b back · q quit"))
	return b.String()
}

var tableWidths = []int{20, 12, 10, 8, 10, 20}

func renderTable(window []*models.Message) string {
	var b strings.Builder
	for i, col := range viewer.TableColumns {
		b.WriteString(headerCellStyle.Render(pad(col, tableWidths[i])))
	}
	b.WriteString("\n")

	for _, row := range viewer.Table(window) {
		for i, cell := range row.Cells {
			text := pad(cell, tableWidths[i])
			if viewer.TableColumns[i] == "status" && cell != "" {
				text = statusCellStyle(row.StatusClass).Render(text)
			}
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func statusCellStyle(class string) lipgloss.Style {
	switch class {
	case viewer.StatusNormal:
		return statusOnline
	case viewer.StatusWarning:
		return statusWarn
	default:
		return statusAlert
	}
}

func renderTimeline(window []*models.Message) string {
	var b strings.Builder
	for _, entry := range viewer.Timeline(window) {
		b.WriteString(fmt.Sprintf("• %s - %s\n", entry.ArrivalTime, entry.Status))
	}
	return b.String()
}

func renderChart(window []*models.Message, width int) string {
	series := viewer.Chart(window)
	if series.Empty() {
		return labelStyle.Render("No data to display") + "\n"
	}

	var temperature, humidity []float64
	for _, p := range series.Points {
		if p.HasTemperature {
			temperature = append(temperature, p.Temperature)
		}
		if p.HasHumidity {
			humidity = append(humidity, p.Humidity)
		}
	}

	var b strings.Builder
	first := series.Points[0].ArrivalTime
	last := series.Points[len(series.Points)-1].ArrivalTime
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s .. %s\n", first, last)))
	b.WriteString(sparklineRow("temperature", temperature))
	b.WriteString(sparklineRow("humidity", humidity))
	return b.String()
}

func sparklineRow(name string, values []float64) string {
	if len(values) == 0 {
		return labelStyle.Render(pad(name, 14)) + helpStyle.Render("no samples") + "\n"
	}
	low, high := bounds(values)
	return labelStyle.Render(pad(name, 14)) + sparkline(values) +
		helpStyle.Render(fmt.Sprintf("  %.1f .. %.1f", low, high)) + "\n"
}

// pad truncates on runes, not bytes, so non-ASCII values stay intact.
func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width-1]) + " "
	}
	return s + strings.Repeat(" ", width-len(runes))
}
