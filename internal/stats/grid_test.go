package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/qsostat/internal/model"
)

func gridContacts(t *testing.T) []model.Contact {
	t.Helper()
	return []model.Contact{
		{Time: at(t, "11:30"), BandMHz: 7.0, IsRun: true},
		{Time: at(t, "10:15"), BandMHz: 14.0, IsRun: true},
		{Time: at(t, "12:00"), BandMHz: 50.0},
		{Time: at(t, "10:59"), BandMHz: 7.0},
		{Time: at(t, "11:00"), BandMHz: 14.0, Mult1: true},
	}
}

func TestBuildGridHourly(t *testing.T) {
	grid, err := BuildGrid(gridContacts(t), HourIncrement)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	if len(grid.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(grid.Rows))
	}
	if !grid.Rows[0].Start.Equal(at(t, "10:00")) || !grid.Rows[2].Start.Equal(at(t, "12:00")) {
		t.Fatalf("unexpected interval starts: %v .. %v", grid.Rows[0].Start, grid.Rows[2].Start)
	}
	if grid.Total() != 5 {
		t.Fatalf("interval totals must sum to 5, got %d", grid.Total())
	}

	r0 := grid.Rows[0]
	if r0.Bands[model.Band20] != (BandCell{Count: 1, Run: 1}) || r0.Bands[model.Band40] != (BandCell{Count: 1}) {
		t.Fatalf("unexpected first row bands: %+v", r0.Bands)
	}
	if r0.Total != 2 || r0.RunPct != 50 || r0.SharePct != 40.0 {
		t.Fatalf("unexpected first row: %+v", r0)
	}

	r1 := grid.Rows[1]
	if r1.Mults != 1 || r1.Bands[model.Band20].Count != 1 || r1.Bands[model.Band40].Run != 1 {
		t.Fatalf("boundary contact at 11:00 must open the second interval: %+v", r1)
	}

	r2 := grid.Rows[2]
	if r2.Total != 1 || r2.SharePct != 20.0 || r2.RunPct != 0 {
		t.Fatalf("unexpected last row: %+v", r2)
	}
	for _, cell := range r2.Bands {
		if cell.Count != 0 {
			t.Fatalf("off-band contact must not land in a band column: %+v", r2.Bands)
		}
	}
}

func TestBuildGridMinutes(t *testing.T) {
	grid, err := BuildGrid(gridContacts(t), Increment{Value: 30, Unit: UnitMinutes})
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	if len(grid.Rows) != 6 {
		t.Fatalf("expected 6 half-hour rows, got %d", len(grid.Rows))
	}
	if grid.Total() != 5 {
		t.Fatalf("expected totals to sum to 5, got %d", grid.Total())
	}
	last := grid.Rows[5]
	if last.Total != 0 || last.RunPct != 0 || last.SharePct != 0 {
		t.Fatalf("empty interval should be zero: %+v", last)
	}
	for i := 1; i < len(grid.Rows); i++ {
		if grid.Rows[i].Start.Sub(grid.Rows[i-1].Start) != 30*time.Minute {
			t.Fatalf("rows not spaced by increment")
		}
	}
}

func TestBuildGridEmptyAndInvalid(t *testing.T) {
	grid, err := BuildGrid(nil, HourIncrement)
	if err != nil || len(grid.Rows) != 0 {
		t.Fatalf("expected empty grid, got %+v %v", grid, err)
	}
	_, err = BuildGrid(gridContacts(t), Increment{Value: 1, Unit: "days"})
	if !errors.Is(err, ErrInvalidIncrement) {
		t.Fatalf("expected ErrInvalidIncrement, got %v", err)
	}
	_, err = BuildGrid(nil, Increment{Value: 0, Unit: UnitHours})
	if !errors.Is(err, ErrInvalidIncrement) {
		t.Fatalf("expected ErrInvalidIncrement for zero value, got %v", err)
	}
}

func TestParseIncrement(t *testing.T) {
	cases := map[string]Increment{
		"1h":         {Value: 1, Unit: UnitHours},
		"30m":        {Value: 30, Unit: UnitMinutes},
		"15 minutes": {Value: 15, Unit: UnitMinutes},
		"2 Hours":    {Value: 2, Unit: UnitHours},
	}
	for in, want := range cases {
		got, err := ParseIncrement(in)
		if err != nil {
			t.Fatalf("ParseIncrement(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseIncrement(%q)=%+v, want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "h", "1d", "0h", "ten minutes"} {
		if _, err := ParseIncrement(bad); !errors.Is(err, ErrInvalidIncrement) {
			t.Fatalf("ParseIncrement(%q) expected ErrInvalidIncrement, got %v", bad, err)
		}
	}
}
