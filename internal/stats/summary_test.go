package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/qsostat/internal/model"
)

func at(t *testing.T, hhmm string) time.Time {
	t.Helper()
	return clock(t, hhmm)[0]
}

func scenarioContacts(t *testing.T) []model.Contact {
	t.Helper()
	// Stored out of order on purpose.
	return []model.Contact{
		{Time: at(t, "11:00"), ContestName: "CQWW CW", BandMHz: 28.0, Points: 3, Continent: "AS", CountryPrefix: "JA", Section: "  ", Radio: 2},
		{Time: at(t, "10:00"), ContestName: "CQWW CW", BandMHz: 14.0, Points: 3, Mult1: true, IsRun: true, Continent: "EU", CountryPrefix: "DL", Radio: 1},
		{Time: at(t, "10:12"), ContestName: "CQWW CW", BandMHz: 14.0, Points: 3, Mult2: true, Continent: "EU", CountryPrefix: "DL", Section: " ", Radio: 2},
		{Time: at(t, "10:05"), ContestName: "CQWW CW", BandMHz: 7.0, Points: 1, IsRun: true, Continent: "NA", CountryPrefix: "K", Section: "CA", Radio: 1},
	}
}

func TestSummaryScenario(t *testing.T) {
	contacts := scenarioContacts(t)
	firstBefore := contacts[0].Time
	eng := &Engine{Detail: DetailScored}
	res := eng.Summary(contacts)
	s := res.Summary

	if !contacts[0].Time.Equal(firstBefore) {
		t.Fatalf("input slice was reordered")
	}
	if s.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, s.SchemaVersion)
	}
	if s.TotalQSOs != 4 || s.Contest != "CQWW CW" {
		t.Fatalf("unexpected header fields: %+v", s)
	}
	if s.OperatingTime != 13*time.Minute {
		t.Fatalf("expected 13m operating time, got %s", s.OperatingTime)
	}
	if s.AverageRate != 18.5 {
		t.Fatalf("expected average rate 18.5, got %v", s.AverageRate)
	}
	wantRates := [3][2]int{{12, 2}, {6, 1}, {4, 1}}
	for i, w := range wantRates {
		if s.Rates[i].PerHour != w[0] || s.Rates[i].Repeats != w[1] {
			t.Fatalf("rate %d: got %+v, want %v", i, s.Rates[i], w)
		}
	}
	if s.RunPercent != 50.0 {
		t.Fatalf("expected 50%% run, got %v", s.RunPercent)
	}
	if len(s.Continents) != 3 || len(s.Countries) != 3 || len(s.Sections) != 1 {
		t.Fatalf("unexpected distinct counts: %v %v %v", s.Continents, s.Countries, s.Sections)
	}
	if strings.Join(s.Continents, ",") != "AS,EU,NA" {
		t.Fatalf("continents not sorted: %v", s.Continents)
	}
	if len(s.Radios) != 2 || s.Radios[0] != (RadioCount{Radio: 1, QSOs: 2}) || s.Radios[1] != (RadioCount{Radio: 2, QSOs: 2}) {
		t.Fatalf("unexpected radios: %+v", s.Radios)
	}
	if s.Score == nil || *s.Score != (Score{Points: 10, Mults: 2, Score: 20}) {
		t.Fatalf("unexpected score: %+v", s.Score)
	}
	if len(res.Counts10) != 4 || len(res.Counts30) != 4 || len(res.Counts60) != 4 {
		t.Fatalf("expected count arrays per contact")
	}
}

func TestSummaryEmpty(t *testing.T) {
	var logged []string
	eng := &Engine{Logf: func(format string, args ...any) { logged = append(logged, format) }}
	res := eng.Summary(nil)
	if res.Summary.TotalQSOs != 0 {
		t.Fatalf("expected zero total")
	}
	if res.Counts10 != nil || res.Counts30 != nil || res.Counts60 != nil {
		t.Fatalf("expected nil count arrays")
	}
	entries := res.Summary.Entries()
	if len(entries) != 1 || entries[0].Key != KeyTotalQSOs {
		t.Fatalf("unexpected entries for empty summary: %+v", entries)
	}
	if len(logged) != 1 {
		t.Fatalf("expected one log line, got %v", logged)
	}
}

func TestSummarySingleRadio(t *testing.T) {
	contacts := scenarioContacts(t)
	for i := range contacts {
		contacts[i].Radio = 1
	}
	s := (&Engine{}).Summary(contacts).Summary
	if len(s.Radios) != 1 || s.Radios[0].QSOs != s.TotalQSOs {
		t.Fatalf("expected one radio entry with all contacts, got %+v", s.Radios)
	}
	if s.Score != nil {
		t.Fatalf("basic detail must not carry score")
	}
}

func TestSummaryEntriesOrder(t *testing.T) {
	s := (&Engine{Detail: DetailScored}).Summary(scenarioContacts(t)).Summary
	entries := s.Entries()
	keys := SummaryKeys(DetailScored)
	if len(entries) != len(keys) {
		t.Fatalf("expected %d entries, got %d", len(keys), len(entries))
	}
	for i, e := range entries {
		if e.Key != keys[i] {
			t.Fatalf("entry %d: got %q, want %q", i, e.Key, keys[i])
		}
	}
	if v, ok := s.Lookup(KeyRate10); !ok || v.(int) != 12 {
		t.Fatalf("lookup 10 min rate: %v %v", v, ok)
	}
}

func TestRunPercentBounds(t *testing.T) {
	contacts := scenarioContacts(t)
	for _, run := range []bool{true, false} {
		for i := range contacts {
			contacts[i].IsRun = run
		}
		pct := (&Engine{}).Summary(contacts).Summary.RunPercent
		if pct < 0 || pct > 100 {
			t.Fatalf("run percent out of range: %v", pct)
		}
	}
}

func TestAverageRateGrowsWithCount(t *testing.T) {
	contacts := scenarioContacts(t)
	base := (&Engine{}).Summary(contacts).Summary
	more := append(append([]model.Contact(nil), contacts...), model.Contact{Time: at(t, "10:06")})
	grown := (&Engine{}).Summary(more).Summary
	if grown.OperatingTime != base.OperatingTime {
		t.Fatalf("operating time changed: %s vs %s", grown.OperatingTime, base.OperatingTime)
	}
	if grown.AverageRate < base.AverageRate {
		t.Fatalf("average rate decreased: %v -> %v", base.AverageRate, grown.AverageRate)
	}
}

func TestRound1(t *testing.T) {
	cases := map[float64]float64{
		18.46: 18.5,
		2.25:  2.3,
		-0.25: -0.3,
		33.33: 33.3,
	}
	for in, want := range cases {
		if got := round1(in); got != want {
			t.Fatalf("round1(%v)=%v, want %v", in, got, want)
		}
	}
}
