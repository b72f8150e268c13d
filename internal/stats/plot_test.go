package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Rate", []Series{
		{Name: "10 min", Values: []float64{60, 120, 90, 30}},
		{Name: "60 min", Values: []float64{40, 45, 50, 20}},
	}, 12, 4)
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected title, 4 plot rows and legend, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Rate" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  120 │ ") {
		t.Fatalf("expected top axis label 120, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "    0 │ ") {
		t.Fatalf("expected bottom axis label 0, got %q", lines[4])
	}
	if !strings.Contains(lines[5], "10 min (solid)") || !strings.Contains(lines[5], "60 min (dashed)") {
		t.Fatalf("unexpected legend %q", lines[5])
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleSeries(t *testing.T) {
	down := resampleSeries([]float64{1, 3, 5, 7}, 2)
	if down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample: %v", down)
	}
	up := resampleSeries([]float64{0, 10}, 3)
	if up[0] != 0 || up[1] != 5 || up[2] != 10 {
		t.Fatalf("unexpected upsample: %v", up)
	}
}
