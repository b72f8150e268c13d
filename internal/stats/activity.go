package stats

import "strings"

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline scaled from zero to the
// largest value, so idle intervals stay blank.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return strings.Repeat(" ", len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if v > 0 {
			// Any activity gets at least the first visible mark.
			idx = 1 + int(v/maxVal*float64(len(sparkChars)-2)+0.5)
			if idx >= len(sparkChars) {
				idx = len(sparkChars) - 1
			}
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Activity is the sparkline of the interval totals of a grid.
func Activity(g Grid) string {
	values := make([]float64, len(g.Rows))
	for i, row := range g.Rows {
		values[i] = float64(row.Total)
	}
	return Sparkline(values)
}
