package stats

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/qsostat/internal/model"
)

// ErrInvalidIncrement reports an unsupported grid increment.
var ErrInvalidIncrement = errors.New("invalid grid increment")

// Unit is the time unit of a grid increment.
type Unit string

// Supported increment units.
const (
	UnitMinutes Unit = "minutes"
	UnitHours   Unit = "hours"
)

// runEpsilon keeps the run percentage defined for empty intervals.
const runEpsilon = 1e-9

// Increment is the width of one grid interval.
type Increment struct {
	Value int
	Unit  Unit
}

// HourIncrement is the default one-hour grid.
var HourIncrement = Increment{Value: 1, Unit: UnitHours}

// Duration validates the increment and converts it.
func (inc Increment) Duration() (time.Duration, error) {
	if inc.Value <= 0 {
		return 0, fmt.Errorf("%w: value %d must be positive", ErrInvalidIncrement, inc.Value)
	}
	switch inc.Unit {
	case UnitMinutes:
		return time.Duration(inc.Value) * time.Minute, nil
	case UnitHours:
		return time.Duration(inc.Value) * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: unknown unit %q (use minutes or hours)", ErrInvalidIncrement, inc.Unit)
	}
}

// String renders the increment in the short form accepted by ParseIncrement.
func (inc Increment) String() string {
	switch inc.Unit {
	case UnitMinutes:
		return fmt.Sprintf("%dm", inc.Value)
	case UnitHours:
		return fmt.Sprintf("%dh", inc.Value)
	default:
		return fmt.Sprintf("%d %s", inc.Value, inc.Unit)
	}
}

// ParseIncrement accepts "30m", "1h", "15 minutes", "2 hours" and similar.
func ParseIncrement(s string) (Increment, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	if raw == "" {
		return Increment{}, fmt.Errorf("%w: empty", ErrInvalidIncrement)
	}
	idx := strings.IndexFunc(raw, func(r rune) bool { return r < '0' || r > '9' })
	if idx <= 0 {
		return Increment{}, fmt.Errorf("%w: %q", ErrInvalidIncrement, s)
	}
	value, err := strconv.Atoi(raw[:idx])
	if err != nil {
		return Increment{}, fmt.Errorf("%w: %q", ErrInvalidIncrement, s)
	}
	var unit Unit
	switch strings.TrimSpace(raw[idx:]) {
	case "m", "min", "mins", "minute", "minutes":
		unit = UnitMinutes
	case "h", "hr", "hrs", "hour", "hours":
		unit = UnitHours
	default:
		return Increment{}, fmt.Errorf("%w: unknown unit in %q", ErrInvalidIncrement, s)
	}
	inc := Increment{Value: value, Unit: unit}
	if _, err := inc.Duration(); err != nil {
		return Increment{}, err
	}
	return inc, nil
}

// BandCell counts contacts on one band.
type BandCell struct {
	Count int
	Run   int
}

// GridRow is one interval of the performance grid.
type GridRow struct {
	Start    time.Time
	Bands    [model.BandCount]BandCell
	Mults    int
	Total    int
	RunPct   int
	SharePct float64
}

// Grid is the chronological performance breakdown of one contest.
type Grid struct {
	Increment Increment
	Rows      []GridRow
}

// Total sums the interval totals.
func (g Grid) Total() int {
	total := 0
	for _, r := range g.Rows {
		total += r.Total
	}
	return total
}

// BuildGrid partitions the contest into hour-aligned intervals of the given
// increment. Interval starts are inclusive, ends exclusive.
func BuildGrid(contacts []model.Contact, inc Increment) (Grid, error) {
	return (*Engine)(nil).Grid(contacts, inc)
}

// Grid is BuildGrid with engine logging.
func (e *Engine) Grid(contacts []model.Contact, inc Increment) (Grid, error) {
	step, err := inc.Duration()
	if err != nil {
		return Grid{}, err
	}
	grid := Grid{Increment: inc}
	if len(contacts) == 0 {
		return grid, nil
	}
	sorted := sortedByTime(contacts)
	first := sorted[0].Time
	last := sorted[len(sorted)-1].Time
	start := first.Truncate(time.Hour)
	end := last.Truncate(time.Hour).Add(time.Hour)

	total := float64(len(sorted))
	offBand := 0
	idx := 0
	for from := start; from.Before(end); from = from.Add(step) {
		to := from.Add(step)
		row := GridRow{Start: from}
		runs := 0
		for idx < len(sorted) && sorted[idx].Time.Before(to) {
			c := sorted[idx]
			idx++
			row.Total++
			if c.IsMult() {
				row.Mults++
			}
			if c.IsRun {
				runs++
			}
			band, ok := model.BandForMHz(c.BandMHz)
			if !ok {
				offBand++
				continue
			}
			row.Bands[band].Count++
			if c.IsRun {
				row.Bands[band].Run++
			}
		}
		row.RunPct = int(math.Round(100 * float64(runs) / (float64(row.Total) + runEpsilon)))
		row.SharePct = round1(100 * float64(row.Total) / total)
		grid.Rows = append(grid.Rows, row)
	}
	if offBand > 0 {
		e.logf("grid: %d contacts outside contest bands counted in totals only", offBand)
	}
	return grid, nil
}
