package tui

import "strings"

var sparklineRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline renders a value series as a row of block runes scaled between
// the series min and max. A flat series renders at mid height.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	low, high := bounds(values)
	span := high - low

	var b strings.Builder
	for _, v := range values {
		idx := len(sparklineRunes) / 2
		if span > 0 {
			idx = int((v - low) / span * float64(len(sparklineRunes)-1))
		}
		b.WriteRune(sparklineRunes[idx])
	}
	return b.String()
}

func bounds(values []float64) (low, high float64) {
	low, high = values[0], values[0]
	for _, v := range values[1:] {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	return low, high
}
