// Package export writes contest reports to files.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/qsostat/internal/model"
	"github.com/verte-zerg/qsostat/internal/stats"
)

// ErrUnknownFormat reports an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// Format selects the output encoding.
type Format string

// Export formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. Empty selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "txt", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case "yml", FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (use text, json or yaml)", ErrUnknownFormat, s)
	}
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Write encodes the report to w.
func Write(w io.Writer, r stats.Report, format Format) error {
	switch format {
	case FormatText, "":
		return writeText(w, r)
	case FormatJSON:
		enc := jsonAPI.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newDocument(r))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDocument(r)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile writes the report to path, replacing any existing file only once
// the new content is complete.
func WriteFile(path string, r stats.Report, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "qsostat-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := Write(writer, r, format); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func writeText(w io.Writer, r stats.Report) error {
	headers, rows := stats.SummaryTable(r)
	if err := writeSection(w, "SUMMARY", stats.FormatGridTable(headers, rows, rightAlignFrom(1, len(headers)))); err != nil {
		return err
	}
	gridHeaders := stats.GridHeaders()
	for _, cr := range r.Contests {
		title := fmt.Sprintf("PERFORMANCE: %s (%s)", cr.Contest.Name, r.Increment)
		lines := stats.FormatGridTable(gridHeaders, stats.GridTable(cr.Grid), rightAlignFrom(1, len(gridHeaders)))
		if err := writeSection(w, title, lines); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, title string, lines []string) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\n\n")
	return err
}

func rightAlignFrom(first, count int) map[int]bool {
	out := make(map[int]bool, count)
	for i := first; i < count; i++ {
		out[i] = true
	}
	return out
}

type document struct {
	SchemaVersion int          `json:"schema_version" yaml:"schema_version"`
	Increment     string       `json:"increment" yaml:"increment"`
	Contests      []contestDoc `json:"contests" yaml:"contests"`
}

type contestDoc struct {
	ID            int64        `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	StartDate     string       `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	PowerCategory string       `json:"power_category,omitempty" yaml:"power_category,omitempty"`
	Summary       summaryDoc   `json:"summary" yaml:"summary"`
	Grid          []gridRowDoc `json:"grid" yaml:"grid"`
}

type summaryDoc struct {
	TotalQSOs        int          `json:"total_qsos" yaml:"total_qsos"`
	OperatingMinutes int          `json:"operating_minutes" yaml:"operating_minutes"`
	OperatingTime    string       `json:"operating_time" yaml:"operating_time"`
	Sessions         []sessionDoc `json:"sessions,omitempty" yaml:"sessions,omitempty"`
	AverageRate      float64      `json:"average_rate" yaml:"average_rate"`
	Rates            []rateDoc    `json:"rates,omitempty" yaml:"rates,omitempty"`
	RunPercent       float64      `json:"run_percent" yaml:"run_percent"`
	Continents       []string     `json:"continents,omitempty" yaml:"continents,omitempty"`
	Countries        []string     `json:"countries,omitempty" yaml:"countries,omitempty"`
	Sections         []string     `json:"sections,omitempty" yaml:"sections,omitempty"`
	Radios           []radioDoc   `json:"radios,omitempty" yaml:"radios,omitempty"`
	Score            *scoreDoc    `json:"score,omitempty" yaml:"score,omitempty"`
	TopCountries     []countryDoc `json:"top_countries,omitempty" yaml:"top_countries,omitempty"`
}

type countryDoc struct {
	Prefix string `json:"prefix" yaml:"prefix"`
	QSOs   int    `json:"qsos" yaml:"qsos"`
}

type sessionDoc struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

type rateDoc struct {
	WindowMinutes int `json:"window_minutes" yaml:"window_minutes"`
	PerHour       int `json:"per_hour" yaml:"per_hour"`
	Repeats       int `json:"repeats" yaml:"repeats"`
}

type radioDoc struct {
	Radio int `json:"radio" yaml:"radio"`
	QSOs  int `json:"qsos" yaml:"qsos"`
}

type scoreDoc struct {
	Points int `json:"points" yaml:"points"`
	Mults  int `json:"mults" yaml:"mults"`
	Score  int `json:"score" yaml:"score"`
}

type gridRowDoc struct {
	Start    string    `json:"start" yaml:"start"`
	Bands    []bandDoc `json:"bands" yaml:"bands"`
	Mults    int       `json:"mults" yaml:"mults"`
	Total    int       `json:"total" yaml:"total"`
	RunPct   int       `json:"run_pct" yaml:"run_pct"`
	SharePct float64   `json:"share_pct" yaml:"share_pct"`
}

type bandDoc struct {
	Band  string `json:"band" yaml:"band"`
	Count int    `json:"count" yaml:"count"`
	Run   int    `json:"run" yaml:"run"`
}

func newDocument(r stats.Report) document {
	doc := document{
		SchemaVersion: stats.SchemaVersion,
		Increment:     r.Increment.String(),
		Contests:      make([]contestDoc, 0, len(r.Contests)),
	}
	for _, cr := range r.Contests {
		doc.Contests = append(doc.Contests, newContestDoc(cr))
	}
	return doc
}

func newContestDoc(cr stats.ContestReport) contestDoc {
	s := cr.Result.Summary
	cd := contestDoc{
		ID:            cr.Contest.ID,
		Name:          cr.Contest.Name,
		PowerCategory: cr.Contest.PowerCategory,
		Summary: summaryDoc{
			TotalQSOs:        s.TotalQSOs,
			OperatingMinutes: int(s.OperatingTime / time.Minute),
			OperatingTime:    stats.FormatOperatingTime(s.OperatingTime),
			AverageRate:      s.AverageRate,
			RunPercent:       s.RunPercent,
			Continents:       s.Continents,
			Countries:        s.Countries,
			Sections:         s.Sections,
		},
		Grid: make([]gridRowDoc, 0, len(cr.Grid.Rows)),
	}
	if !cr.Contest.StartDate.IsZero() {
		cd.StartDate = cr.Contest.StartDate.Format(time.RFC3339)
	}
	for _, sess := range s.Sessions {
		cd.Summary.Sessions = append(cd.Summary.Sessions, sessionDoc{
			Start: sess.Start.Format(time.RFC3339),
			End:   sess.End.Format(time.RFC3339),
		})
	}
	if s.TotalQSOs > 0 {
		for _, rate := range s.Rates {
			cd.Summary.Rates = append(cd.Summary.Rates, rateDoc{
				WindowMinutes: int(rate.Window / time.Minute),
				PerHour:       rate.PerHour,
				Repeats:       rate.Repeats,
			})
		}
	}
	for _, rc := range s.Radios {
		cd.Summary.Radios = append(cd.Summary.Radios, radioDoc{Radio: rc.Radio, QSOs: rc.QSOs})
	}
	if s.Score != nil {
		cd.Summary.Score = &scoreDoc{Points: s.Score.Points, Mults: s.Score.Mults, Score: s.Score.Score}
	}
	for _, c := range cr.Result.TopCountries {
		cd.Summary.TopCountries = append(cd.Summary.TopCountries, countryDoc{Prefix: c.Prefix, QSOs: c.QSOs})
	}
	for _, row := range cr.Grid.Rows {
		gr := gridRowDoc{
			Start:    row.Start.Format(time.RFC3339),
			Mults:    row.Mults,
			Total:    row.Total,
			RunPct:   row.RunPct,
			SharePct: row.SharePct,
		}
		for _, b := range model.Bands() {
			cell := row.Bands[b]
			gr.Bands = append(gr.Bands, bandDoc{Band: b.Label(), Count: cell.Count, Run: cell.Run})
		}
		cd.Grid = append(cd.Grid, gr)
	}
	return cd
}
