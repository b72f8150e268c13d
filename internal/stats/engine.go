package stats

import (
	"math"
	"sort"
	"time"

	"github.com/verte-zerg/qsostat/internal/model"
)

// Detail selects how much of the summary schema is filled.
type Detail int

const (
	// DetailBasic omits claimed score fields.
	DetailBasic Detail = iota
	// DetailScored adds claimed points, multipliers and score.
	DetailScored
)

// Engine computes contest statistics. The zero value is ready to use: default
// idle gap, basic detail, no logging. An Engine holds no state between calls.
type Engine struct {
	IdleGap time.Duration
	Detail  Detail
	Logf    func(format string, args ...any)
}

func (e *Engine) logf(format string, args ...any) {
	if e == nil || e.Logf == nil {
		return
	}
	e.Logf(format, args...)
}

func (e *Engine) idleGap() time.Duration {
	if e == nil || e.IdleGap <= 0 {
		return DefaultIdleGap
	}
	return e.IdleGap
}

// sortedByTime returns a copy of contacts ordered by timestamp.
func sortedByTime(contacts []model.Contact) []model.Contact {
	out := make([]model.Contact, len(contacts))
	copy(out, contacts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

func timestamps(contacts []model.Contact) []time.Time {
	ts := make([]time.Time, len(contacts))
	for i, c := range contacts {
		ts[i] = c.Time
	}
	return ts
}

// round1 rounds half away from zero to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
