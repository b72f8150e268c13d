package stats

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/verte-zerg/qsostat/internal/model"
	"github.com/verte-zerg/qsostat/internal/store"
	"github.com/verte-zerg/qsostat/internal/store/storetest"
)

type fillContinent struct{}

func (fillContinent) Enrich(contacts []model.Contact) []model.Contact {
	out := append([]model.Contact(nil), contacts...)
	for i := range out {
		if out[i].Continent == "" {
			out[i].Continent = "OC"
		}
	}
	return out
}

func openFixture(t *testing.T) *store.Store {
	t.Helper()
	contests := []model.Contest{
		{ID: 7, Name: "CQWW CW", StartDate: storetest.Time(t, "2023-11-25 00:00"), PowerCategory: "HIGH"},
		{ID: 8, Name: "CQ WPX CW", StartDate: storetest.Time(t, "2024-05-25 00:00"), PowerCategory: "LOW"},
	}
	contacts := []model.Contact{
		{Time: storetest.Time(t, "2023-11-25 00:00"), ContestID: 7, BandMHz: 14.0, Points: 3, Mult1: true, IsRun: true, Continent: "EU", CountryPrefix: "DL", Radio: 1},
		{Time: storetest.Time(t, "2023-11-25 00:05"), ContestID: 7, BandMHz: 14.0, Points: 3, IsRun: true, CountryPrefix: "VK", Radio: 1},
		{Time: storetest.Time(t, "2023-11-25 01:10"), ContestID: 7, BandMHz: 7.0, Points: 1, Continent: "NA", CountryPrefix: "K", Radio: 2},
	}
	st, err := store.Open(storetest.Create(t, contests, contacts))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestBuildReport(t *testing.T) {
	st := openFixture(t)
	report, err := BuildReport(context.Background(), st, []int64{7, 8}, ReportOptions{
		Engine:   &Engine{Detail: DetailScored},
		Enricher: fillContinent{},
	})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Contests) != 2 {
		t.Fatalf("expected 2 contests, got %d", len(report.Contests))
	}
	if report.Increment != HourIncrement {
		t.Fatalf("expected default hour increment, got %v", report.Increment)
	}
	cq := report.Contests[0]
	if cq.Contest.Name != "CQWW CW" || cq.Result.Summary.TotalQSOs != 3 {
		t.Fatalf("unexpected first contest: %+v", cq.Contest)
	}
	if got := strings.Join(cq.Result.Summary.Continents, ","); got != "EU,NA,OC" {
		t.Fatalf("expected enriched continents, got %q", got)
	}
	if cq.Grid.Total() != 3 || len(cq.Grid.Rows) != 2 {
		t.Fatalf("unexpected grid: %+v", cq.Grid)
	}
	if cq.Result.Summary.Score == nil || cq.Result.Summary.Score.Score != 7 {
		t.Fatalf("unexpected score: %+v", cq.Result.Summary.Score)
	}
	wpx := report.Contests[1]
	if wpx.Result.Summary.TotalQSOs != 0 || len(wpx.Grid.Rows) != 0 {
		t.Fatalf("expected degenerate result for empty contest")
	}
}

func TestBuildReportErrors(t *testing.T) {
	st := openFixture(t)
	ctx := context.Background()
	if _, err := BuildReport(ctx, st, []int64{99}, ReportOptions{}); !errors.Is(err, store.ErrContestNotFound) {
		t.Fatalf("expected ErrContestNotFound, got %v", err)
	}
	_, err := BuildReport(ctx, st, []int64{7}, ReportOptions{Increment: Increment{Value: 1, Unit: "weeks"}})
	if !errors.Is(err, ErrInvalidIncrement) {
		t.Fatalf("expected ErrInvalidIncrement, got %v", err)
	}
}

func TestRenderSummaryTable(t *testing.T) {
	st := openFixture(t)
	report, err := BuildReport(context.Background(), st, []int64{7, 8}, ReportOptions{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	headers, rows := SummaryTable(report)
	if len(headers) != 3 || headers[1] != "CQWW CW" || headers[2] != "CQ WPX CW" {
		t.Fatalf("unexpected headers: %v", headers)
	}
	if rows[0][0] != KeyDate || rows[0][1] != "2023-11-25-00:00" {
		t.Fatalf("unexpected date row: %v", rows[0])
	}
	if rows[1][0] != KeyPowerCategory || rows[1][2] != "LOW" {
		t.Fatalf("unexpected power row: %v", rows[1])
	}
	if len(rows) != 2+len(SummaryKeys(DetailBasic)) {
		t.Fatalf("expected one row per summary key, got %d", len(rows))
	}
	for _, row := range rows {
		if row[0] == KeyOperatingTime && row[1] != "00:06" {
			t.Fatalf("unexpected operating time %q", row[1])
		}
		if row[0] == KeyTotalQSOs && row[2] != "0" {
			t.Fatalf("empty contest should show 0 QSOs, got %q", row[2])
		}
	}

	var buf bytes.Buffer
	if err := RenderSummaryTable(&buf, report); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Run QSOs percent") {
		t.Fatalf("missing summary rows:\n%s", buf.String())
	}

	buf.Reset()
	if err := RenderGrid(&buf, report.Contests[0]); err != nil {
		t.Fatalf("render grid: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "CQWW CW (1h intervals)") || !strings.Contains(out, "Run %") || !strings.Contains(out, "Activity |@+|") {
		t.Fatalf("unexpected grid output:\n%s", out)
	}

	buf.Reset()
	if err := RenderRates(&buf, report.Contests[0], 60, 5, false); err != nil {
		t.Fatalf("render rates: %v", err)
	}
	if !strings.Contains(buf.String(), "10 min (solid)") {
		t.Fatalf("unexpected rates output:\n%s", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{1234567, "1,234,567"},
		{18.46, "18.5"},
		{"CQWW", "CQWW"},
		{nil, ""},
		{[]RadioCount{{Radio: 1, QSOs: 1500}, {Radio: 2, QSOs: 3}}, "1:1,500 2:3"},
	}
	for _, tc := range cases {
		if got := FormatValue(tc.in); got != tc.want {
			t.Fatalf("FormatValue(%v)=%q, want %q", tc.in, got, tc.want)
		}
	}
	if got := FormatOperatingTime(26*60*60*1e9 + 5*60*1e9); got != "26:05" {
		t.Fatalf("unexpected operating time %q", got)
	}
}

func TestGridTableLabels(t *testing.T) {
	contacts := []model.Contact{
		{Time: at(t, "10:15"), BandMHz: 1.8, IsRun: true},
		{Time: at(t, "10:20"), BandMHz: 1.8},
	}
	grid, err := BuildGrid(contacts, HourIncrement)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	rows := GridTable(grid)
	want := []string{"10:00", "2/1", "-", "-", "-", "-", "-", "0", "2", "50", "100.0"}
	if len(rows) != 1 || strings.Join(rows[0], "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected grid row: %v", rows)
	}
	if len(GridHeaders()) != len(want) {
		t.Fatalf("headers and rows disagree: %v", GridHeaders())
	}
}
