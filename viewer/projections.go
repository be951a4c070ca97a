package viewer

import (
	"encoding/json"

	"iotview/models"
)

// TableColumns are the well-known field names the table view renders, in
// display order. Fields absent from a payload render empty.
var TableColumns = []string{
	models.ArrivalTimeField,
	"temperature",
	"humidity",
	"light",
	"status",
	"timestamp",
}

// Status display classes for the table view.
const (
	StatusNormal  = "normal"
	StatusWarning = "warning"
	StatusAlert   = "alert"
)

// StatusClass maps a status value to one of the three display classes.
// Anything that is not normal or warning is an alert.
func StatusClass(status string) string {
	switch status {
	case StatusNormal:
		return StatusNormal
	case StatusWarning:
		return StatusWarning
	default:
		return StatusAlert
	}
}

// TableRow is one message rendered against TableColumns.
type TableRow struct {
	Cells       []string `json:"cells"`
	StatusClass string   `json:"status_class"`
}

// Table projects the window into fixed-column rows, newest first.
func Table(window []*models.Message) []TableRow {
	rows := make([]TableRow, 0, len(window))
	for _, msg := range window {
		row := TableRow{Cells: make([]string, len(TableColumns))}
		for i, col := range TableColumns {
			if v, ok := msg.Get(col); ok {
				row.Cells[i] = v.Display()
			}
		}
		status, _ := msg.Get("status")
		row.StatusClass = StatusClass(status.Str)
		rows = append(rows, row)
	}
	return rows
}

// RawJSON serializes the whole window as indented JSON, newest first.
func RawJSON(window []*models.Message) (string, error) {
	if len(window) == 0 {
		return "[]", nil
	}
	data, err := json.MarshalIndent(window, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TimelineEntry is one message reduced to its arrival stamp and status.
type TimelineEntry struct {
	ArrivalTime string `json:"arrival_time"`
	Status      string `json:"status"`
}

// Timeline projects the window into arrival/status pairs, newest first.
func Timeline(window []*models.Message) []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(window))
	for _, msg := range window {
		status, _ := msg.Get("status")
		entries = append(entries, TimelineEntry{
			ArrivalTime: msg.ArrivalTime(),
			Status:      status.Display(),
		})
	}
	return entries
}

// ChartPoint is one chronological sample of the two charted series.
type ChartPoint struct {
	ArrivalTime    string  `json:"arrival_time"`
	Temperature    float64 `json:"temperature"`
	HasTemperature bool    `json:"has_temperature"`
	Humidity       float64 `json:"humidity"`
	HasHumidity    bool    `json:"has_humidity"`
}

// ChartSeries is the chart projection: temperature and humidity against
// arrival time, oldest first.
type ChartSeries struct {
	Points []ChartPoint `json:"points"`
}

// Empty reports whether the chart should render its empty-state message
// instead of axes.
func (s ChartSeries) Empty() bool {
	return len(s.Points) == 0
}

// Chart reorders the newest-first window chronologically and extracts the
// charted fields. Non-numeric or absent values leave a gap in the series.
func Chart(window []*models.Message) ChartSeries {
	series := ChartSeries{Points: make([]ChartPoint, 0, len(window))}
	for i := len(window) - 1; i >= 0; i-- {
		msg := window[i]
		point := ChartPoint{ArrivalTime: msg.ArrivalTime()}
		if v, ok := msg.Get("temperature"); ok && v.Kind == models.KindNumber {
			point.Temperature = v.Num
			point.HasTemperature = true
		}
		if v, ok := msg.Get("humidity"); ok && v.Kind == models.KindNumber {
			point.Humidity = v.Num
			point.HasHumidity = true
		}
		series.Points = append(series.Points, point)
	}
	return series
}
