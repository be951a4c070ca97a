package viewer

import (
	"encoding/json"
	"testing"

	"iotview/models"
)

func telemetry(fields ...models.Field) *models.Message {
	return &models.Message{Fields: fields}
}

func field(name string, value models.Value) models.Field {
	return models.Field{Name: name, Value: value}
}

func TestTable(t *testing.T) {
	window := []*models.Message{
		telemetry(
			field("temperature", models.NumberValue(22)),
			field("status", models.StringValue("normal")),
			field(models.ArrivalTimeField, models.StringValue("14-03-2026 09:26:53")),
		),
	}

	rows := Table(window)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if len(row.Cells) != len(TableColumns) {
		t.Fatalf("expected %d cells, got %d", len(TableColumns), len(row.Cells))
	}
	// arrivalTime, temperature, humidity, light, status, timestamp
	want := []string{"14-03-2026 09:26:53", "22", "", "", "normal", ""}
	for i, cell := range row.Cells {
		if cell != want[i] {
			t.Errorf("cell %d (%s): expected %q, got %q", i, TableColumns[i], want[i], cell)
		}
	}
	if row.StatusClass != StatusNormal {
		t.Errorf("expected status class %q, got %q", StatusNormal, row.StatusClass)
	}
}

func TestStatusClass(t *testing.T) {
	cases := map[string]string{
		"normal":   StatusNormal,
		"warning":  StatusWarning,
		"critical": StatusAlert,
		"":         StatusAlert,
	}
	for status, want := range cases {
		if got := StatusClass(status); got != want {
			t.Errorf("StatusClass(%q) = %q, want %q", status, got, want)
		}
	}
}

func TestRawJSON(t *testing.T) {
	t.Run("empty window serializes to empty array", func(t *testing.T) {
		raw, err := RawJSON(nil)
		if err != nil {
			t.Fatalf("RawJSON failed: %v", err)
		}
		if raw != "[]" {
			t.Errorf("expected \"[]\", got %q", raw)
		}
	})

	t.Run("window round-trips as a JSON array", func(t *testing.T) {
		window := []*models.Message{
			telemetry(field("a", models.NumberValue(1))),
			telemetry(field("a", models.NumberValue(2))),
		}
		raw, err := RawJSON(window)
		if err != nil {
			t.Fatalf("RawJSON failed: %v", err)
		}
		var decoded []map[string]float64
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(decoded) != 2 || decoded[0]["a"] != 1 {
			t.Errorf("unexpected round-trip result: %v", decoded)
		}
	})
}

func TestTimeline(t *testing.T) {
	window := []*models.Message{
		telemetry(
			field("status", models.StringValue("warning")),
			field(models.ArrivalTimeField, models.StringValue("14-03-2026 09:26:55")),
		),
		telemetry(
			field(models.ArrivalTimeField, models.StringValue("14-03-2026 09:26:53")),
		),
	}

	entries := Timeline(window)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ArrivalTime != "14-03-2026 09:26:55" || entries[0].Status != "warning" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Status != "" {
		t.Errorf("missing status should render empty, got %q", entries[1].Status)
	}
}

func TestChart(t *testing.T) {
	t.Run("empty window reports the empty state", func(t *testing.T) {
		series := Chart(nil)
		if !series.Empty() {
			t.Error("expected empty series")
		}
	})

	t.Run("reorders the window chronologically", func(t *testing.T) {
		// Window is newest-first; the chart wants oldest-first.
		window := []*models.Message{
			telemetry(
				field("temperature", models.NumberValue(23)),
				field(models.ArrivalTimeField, models.StringValue("t2")),
			),
			telemetry(
				field("temperature", models.NumberValue(21)),
				field("humidity", models.NumberValue(40)),
				field(models.ArrivalTimeField, models.StringValue("t1")),
			),
		}

		series := Chart(window)
		if len(series.Points) != 2 {
			t.Fatalf("expected 2 points, got %d", len(series.Points))
		}
		if series.Points[0].ArrivalTime != "t1" || series.Points[1].ArrivalTime != "t2" {
			t.Errorf("points not chronological: %+v", series.Points)
		}
		if !series.Points[0].HasHumidity || series.Points[0].Humidity != 40 {
			t.Errorf("unexpected first point: %+v", series.Points[0])
		}
		if series.Points[1].HasHumidity {
			t.Error("second point should have no humidity sample")
		}
	})

	t.Run("non-numeric samples leave gaps", func(t *testing.T) {
		window := []*models.Message{
			telemetry(field("temperature", models.StringValue("hot"))),
		}
		series := Chart(window)
		if series.Points[0].HasTemperature {
			t.Error("string temperature must not become a sample")
		}
	})
}
