package ui

import (
	"fmt"
	"strings"
)

// BarChart renders one labelled horizontal bar per value, scaled so the
// largest value fills the full width.
func BarChart(labels []string, values []float64, width int) string {
	max := 0.0
	for _, v := range values {
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for i, label := range labels {
		cells := 0
		if max > 0 {
			cells = int(values[i] / max * float64(width))
		}
		if values[i] > 0 && cells == 0 {
			cells = 1
		}

		b.WriteString(fmt.Sprintf("%-20s %s %.0f\n",
			Truncate(label, 20), strings.Repeat("█", cells), values[i]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Truncate shortens a label to the given width with a trailing ellipsis.
func Truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	return s[:width-1] + "…"
}
