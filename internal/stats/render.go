// Package stats computes contest operating statistics and renders them as
// text tables and plots.
package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/qsostat/internal/model"
)

// Summary rows prepended from contest metadata.
const (
	KeyDate          = "Date"
	KeyPowerCategory = "Power category"
)

const dateLayout = "2006-01-02-15:04"

// FormatValue renders a summary value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int:
		return humanize.Comma(int64(val))
	case float64:
		return strconv.FormatFloat(val, 'f', 1, 64)
	case time.Duration:
		return FormatOperatingTime(val)
	case string:
		return val
	case []RadioCount:
		parts := make([]string, 0, len(val))
		for _, rc := range val {
			parts = append(parts, fmt.Sprintf("%d:%s", rc.Radio, humanize.Comma(int64(rc.QSOs))))
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}

// FormatOperatingTime renders a duration as HH:MM; hours may exceed 24.
func FormatOperatingTime(d time.Duration) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SummaryTable lays out the report's summaries side by side: one row per
// statistic, one column per contest.
func SummaryTable(r Report) (headers []string, rows [][]string) {
	headers = []string{"Statistics"}
	for _, cr := range r.Contests {
		headers = append(headers, cr.Contest.Name)
	}
	if len(r.Contests) == 0 {
		return headers, nil
	}
	meta := [][]string{{KeyDate}, {KeyPowerCategory}}
	for _, cr := range r.Contests {
		date := ""
		if !cr.Contest.StartDate.IsZero() {
			date = cr.Contest.StartDate.Format(dateLayout)
		}
		meta[0] = append(meta[0], date)
		meta[1] = append(meta[1], cr.Contest.PowerCategory)
	}
	rows = append(rows, meta...)
	for _, key := range SummaryKeys(r.Detail) {
		row := []string{key}
		for _, cr := range r.Contests {
			v, _ := cr.Result.Summary.Lookup(key)
			row = append(row, FormatValue(v))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// GridHeaders are the performance table columns.
func GridHeaders() []string {
	headers := []string{"Hour"}
	for _, b := range model.Bands() {
		headers = append(headers, b.Label())
	}
	return append(headers, "Mults", "Rate", "Run %", "Pct")
}

// GridTable renders one contest's performance grid. Band cells read
// count/run.
func GridTable(g Grid) [][]string {
	multiDay := false
	if len(g.Rows) > 1 {
		first, last := g.Rows[0].Start, g.Rows[len(g.Rows)-1].Start
		multiDay = first.YearDay() != last.YearDay() || first.Year() != last.Year()
	}
	rows := make([][]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		label := r.Start.Format("15:04")
		if multiDay {
			label = r.Start.Format("Mon 15:04")
		}
		row := []string{label}
		for _, cell := range r.Bands {
			row = append(row, formatBandCell(cell))
		}
		row = append(row,
			strconv.Itoa(r.Mults),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.RunPct),
			strconv.FormatFloat(r.SharePct, 'f', 1, 64),
		)
		rows = append(rows, row)
	}
	return rows
}

func formatBandCell(cell BandCell) string {
	if cell.Count == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", cell.Count, cell.Run)
}

func rightAlignFrom(first, count int) map[int]bool {
	out := make(map[int]bool, count)
	for i := first; i < count; i++ {
		out[i] = true
	}
	return out
}

// RenderSummaryTable prints the side-by-side summary.
func RenderSummaryTable(w io.Writer, r Report) error {
	if len(r.Contests) == 0 {
		_, err := fmt.Fprintln(w, "No contests selected.")
		return err
	}
	headers, rows := SummaryTable(r)
	return writeLines(w, FormatTable(headers, rows, rightAlignFrom(1, len(headers))))
}

// RenderGrid prints one contest's performance grid.
func RenderGrid(w io.Writer, cr ContestReport) error {
	if len(cr.Grid.Rows) == 0 {
		_, err := fmt.Fprintf(w, "No contacts logged for %s.\n", cr.Contest.Name)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s (%s intervals)\n", cr.Contest.Name, cr.Grid.Increment); err != nil {
		return err
	}
	headers := GridHeaders()
	if err := writeLines(w, FormatTable(headers, GridTable(cr.Grid), rightAlignFrom(1, len(headers)))); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Activity |%s|\n", Activity(cr.Grid))
	return err
}

// RenderRates plots the hourly-equivalent windowed rates of one contest.
func RenderRates(w io.Writer, cr ContestReport, totalWidth, height int, useColor bool) error {
	res := cr.Result
	if res.Summary.TotalQSOs == 0 {
		_, err := fmt.Fprintf(w, "No contacts logged for %s.\n", cr.Contest.Name)
		return err
	}
	series := make([]Series, 0, len(RateWindows))
	for i, counts := range [][]int{res.Counts10, res.Counts30, res.Counts60} {
		rw := RateWindows[i]
		values := make([]float64, len(counts))
		for j, c := range counts {
			values[j] = float64(c * rw.Scale)
		}
		series = append(series, Series{
			Name:   fmt.Sprintf("%d min", int(rw.Window/time.Minute)),
			Values: values,
		})
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	title := fmt.Sprintf("%s rate (QSOs/hour)", cr.Contest.Name)
	return PlotSeriesWithColor(w, title, series, width, height, useColor)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
