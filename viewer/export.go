package viewer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"iotview/models"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

// File names offered to the user when downloading an export.
const (
	ExportJSONName = "mqtt-messages.json"
	ExportXLSXName = "mqtt-messages.xlsx"
	ExportTextName = "mqtt-messages.txt"
)

const exportSheet = "Messages"

// Export encodes the window in the requested format and returns the
// download file name alongside the bytes.
func Export(window []*models.Message, format Format) (name string, data []byte, err error) {
	switch format {
	case FormatJSON:
		data, err = ExportJSON(window)
		return ExportJSONName, data, err
	case FormatXLSX:
		data, err = ExportXLSX(window)
		return ExportXLSXName, data, err
	case FormatText:
		return ExportTextName, ExportText(window), nil
	default:
		return "", nil, fmt.Errorf("unknown export format %q", format)
	}
}

// WriteFile exports the window into dir and returns the written path.
func WriteFile(dir string, window []*models.Message, format Format) (string, error) {
	name, data, err := Export(window, format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// ExportJSON serializes the window as an indented JSON array, newest first.
func ExportJSON(window []*models.Message) ([]byte, error) {
	raw, err := RawJSON(window)
	if err != nil {
		return nil, err
	}
	return []byte(raw), nil
}

// ExportText renders one line per message in window (newest-first) order,
// each message's field values joined by tabs.
func ExportText(window []*models.Message) []byte {
	lines := make([]string, 0, len(window))
	for _, msg := range window {
		values := make([]string, 0, len(msg.Fields))
		for _, f := range msg.Fields {
			values = append(values, f.Value.Display())
		}
		lines = append(lines, strings.Join(values, "\t"))
	}
	return []byte(strings.Join(lines, "\n"))
}

// ExportXLSX flattens the window into a single-sheet workbook: the header
// is the union of observed field names in first-seen order, one row per
// message in window order.
func ExportXLSX(window []*models.Message) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("failed to name export sheet: %w", err)
	}

	columns := unionColumns(window)
	for i, col := range columns {
		if err := setCell(f, i+1, 1, col); err != nil {
			return nil, err
		}
	}
	for row, msg := range window {
		for i, col := range columns {
			v, ok := msg.Get(col)
			if !ok {
				continue
			}
			if err := setCell(f, i+1, row+2, cellValue(v)); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// unionColumns collects every field name seen across the window, in
// first-seen order.
func unionColumns(window []*models.Message) []string {
	var columns []string
	seen := make(map[string]bool)
	for _, msg := range window {
		for _, f := range msg.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				columns = append(columns, f.Name)
			}
		}
	}
	return columns
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(exportSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

// cellValue keeps numbers and booleans typed in the sheet instead of
// stringifying everything.
func cellValue(v models.Value) interface{} {
	switch v.Kind {
	case models.KindNumber:
		return v.Num
	case models.KindBool:
		return v.Bool
	default:
		return v.Display()
	}
}
