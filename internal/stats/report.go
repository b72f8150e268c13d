package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/qsostat/internal/model"
)

// Source supplies contest data. *store.Store satisfies it.
type Source interface {
	GetContest(ctx context.Context, id int64) (model.Contest, error)
	ListContacts(ctx context.Context, contestID int64) ([]model.Contact, error)
}

// Enricher fills missing contact fields before statistics run.
type Enricher interface {
	Enrich(contacts []model.Contact) []model.Contact
}

// ReportOptions configures BuildReport.
type ReportOptions struct {
	Engine    *Engine
	Increment Increment
	Enricher  Enricher
}

// ContestReport holds everything computed for one contest.
type ContestReport struct {
	Contest model.Contest
	Result  SummaryResult
	Grid    Grid
}

// Report compares one or more contests side by side.
type Report struct {
	Detail    Detail
	Increment Increment
	Contests  []ContestReport
}

// BuildReport loads the selected contests in order and computes their
// summaries and performance grids.
func BuildReport(ctx context.Context, src Source, ids []int64, opts ReportOptions) (Report, error) {
	eng := opts.Engine
	if eng == nil {
		eng = &Engine{}
	}
	inc := opts.Increment
	if inc == (Increment{}) {
		inc = HourIncrement
	}
	if _, err := inc.Duration(); err != nil {
		return Report{}, err
	}

	report := Report{Detail: eng.Detail, Increment: inc}
	for _, id := range ids {
		contest, err := src.GetContest(ctx, id)
		if err != nil {
			return Report{}, err
		}
		contacts, err := src.ListContacts(ctx, id)
		if err != nil {
			return Report{}, fmt.Errorf("load contacts for %q: %w", contest.Name, err)
		}
		if opts.Enricher != nil {
			contacts = opts.Enricher.Enrich(contacts)
		}
		grid, err := eng.Grid(contacts, inc)
		if err != nil {
			return Report{}, err
		}
		report.Contests = append(report.Contests, ContestReport{
			Contest: contest,
			Result:  eng.Summary(contacts),
			Grid:    grid,
		})
	}
	return report, nil
}
