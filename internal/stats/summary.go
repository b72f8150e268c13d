package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/qsostat/internal/model"
)

// SchemaVersion is bumped whenever Summary fields change meaning.
const SchemaVersion = 2

// Summary keys in display order.
const (
	KeyTotalQSOs     = "Total QSOs"
	KeyContest       = "Contest"
	KeyOperatingTime = "Operating Time"
	KeyAverageRate   = "Average Rate"
	KeyRate10        = "10 min Rate"
	KeyRate10Repeats = "10 min Rate repeats"
	KeyRate30        = "30 min Rate"
	KeyRate30Repeats = "30 min Rate repeats"
	KeyRate60        = "60 min Rate"
	KeyRate60Repeats = "60 min Rate repeats"
	KeyRunPercent    = "Run QSOs percent"
	KeyContinents    = "Continents"
	KeyCountries     = "Countries"
	KeySections      = "Sections"
	KeyRadios        = "QSOs per Radio"
	KeyClaimedPoints = "Claimed Points"
	KeyClaimedMults  = "Claimed Mults"
	KeyClaimedScore  = "Claimed Score"
)

var rateKeys = [3][2]string{
	{KeyRate10, KeyRate10Repeats},
	{KeyRate30, KeyRate30Repeats},
	{KeyRate60, KeyRate60Repeats},
}

// SummaryKeys lists every key Entries can produce for the given detail.
func SummaryKeys(detail Detail) []string {
	keys := []string{
		KeyTotalQSOs,
		KeyContest,
		KeyOperatingTime,
		KeyAverageRate,
	}
	for _, pair := range rateKeys {
		keys = append(keys, pair[0], pair[1])
	}
	keys = append(keys, KeyRunPercent, KeyContinents, KeyCountries, KeySections, KeyRadios)
	if detail == DetailScored {
		keys = append(keys, KeyClaimedPoints, KeyClaimedMults, KeyClaimedScore)
	}
	return keys
}

// RadioCount is the number of contacts logged by one radio.
type RadioCount struct {
	Radio int
	QSOs  int
}

// Score holds claimed totals.
type Score struct {
	Points int
	Mults  int
	Score  int
}

// Summary is the flat statistics record for one contest.
type Summary struct {
	SchemaVersion int
	TotalQSOs     int
	Contest       string
	OperatingTime time.Duration
	Sessions      []Session
	AverageRate   float64
	Rates         [3]Rate
	RunPercent    float64
	Continents    []string
	Countries     []string
	Sections      []string
	Radios        []RadioCount
	Score         *Score
}

// Entry is one key/value row of a summary.
type Entry struct {
	Key   string
	Value any
}

// Entries returns the summary as ordered rows. An empty summary yields only
// the total.
func (s Summary) Entries() []Entry {
	entries := []Entry{{Key: KeyTotalQSOs, Value: s.TotalQSOs}}
	if s.TotalQSOs == 0 {
		return entries
	}
	entries = append(entries,
		Entry{Key: KeyContest, Value: s.Contest},
		Entry{Key: KeyOperatingTime, Value: s.OperatingTime},
		Entry{Key: KeyAverageRate, Value: s.AverageRate},
	)
	for i, pair := range rateKeys {
		entries = append(entries,
			Entry{Key: pair[0], Value: s.Rates[i].PerHour},
			Entry{Key: pair[1], Value: s.Rates[i].Repeats},
		)
	}
	entries = append(entries,
		Entry{Key: KeyRunPercent, Value: s.RunPercent},
		Entry{Key: KeyContinents, Value: len(s.Continents)},
		Entry{Key: KeyCountries, Value: len(s.Countries)},
		Entry{Key: KeySections, Value: len(s.Sections)},
		Entry{Key: KeyRadios, Value: s.Radios},
	)
	if s.Score != nil {
		entries = append(entries,
			Entry{Key: KeyClaimedPoints, Value: s.Score.Points},
			Entry{Key: KeyClaimedMults, Value: s.Score.Mults},
			Entry{Key: KeyClaimedScore, Value: s.Score.Score},
		)
	}
	return entries
}

// Lookup returns the value stored under key.
func (s Summary) Lookup(key string) (any, bool) {
	for _, e := range s.Entries() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// topCountryLimit bounds SummaryResult.TopCountries.
const topCountryLimit = 5

// SummaryResult bundles a summary with the per-position counts behind its
// 10, 30 and 60 minute rates and the most worked countries.
type SummaryResult struct {
	Summary      Summary
	Counts10     []int
	Counts30     []int
	Counts60     []int
	TopCountries []CountryCount
}

// Summary computes statistics for the contacts of one contest. An empty table
// yields a zero summary with nil count slices.
func (e *Engine) Summary(contacts []model.Contact) SummaryResult {
	result := SummaryResult{Summary: Summary{SchemaVersion: SchemaVersion}}
	if len(contacts) == 0 {
		e.logf("summary: empty contact table")
		return result
	}
	sorted := sortedByTime(contacts)
	ts := timestamps(sorted)

	s := &result.Summary
	s.TotalQSOs = len(sorted)
	s.Contest = sorted[0].ContestName
	if e != nil && e.Detail == DetailScored {
		s.Score = claimedScore(sorted)
	}

	s.OperatingTime, s.Sessions = SegmentSessions(ts, e.idleGap())
	s.AverageRate = round1(float64(s.TotalQSOs) / s.OperatingTime.Hours())

	countSlots := [3]*[]int{&result.Counts10, &result.Counts30, &result.Counts60}
	for i, rw := range RateWindows {
		peak, repeats, counts := WindowedCount(ts, rw.Window)
		s.Rates[i] = Rate{Window: rw.Window, PerHour: peak * rw.Scale, Repeats: repeats}
		*countSlots[i] = counts
	}

	runs := 0
	for _, c := range sorted {
		if c.IsRun {
			runs++
		}
	}
	s.RunPercent = round1(float64(runs) / float64(s.TotalQSOs) * 100)

	s.Continents = distinct(sorted, func(c model.Contact) string { return c.Continent })
	s.Countries = distinct(sorted, func(c model.Contact) string { return c.CountryPrefix })
	s.Sections = distinct(sorted, func(c model.Contact) string { return c.Section })
	s.Radios = radioCounts(sorted)
	result.TopCountries = TopCountries(sorted, topCountryLimit)

	e.logf("summary: %q %d qsos in %d sessions, operating %s", s.Contest, s.TotalQSOs, len(s.Sessions), s.OperatingTime)
	return result
}

func claimedScore(contacts []model.Contact) *Score {
	score := &Score{}
	for _, c := range contacts {
		score.Points += c.Points
		if c.Mult1 {
			score.Mults++
		}
		if c.Mult2 {
			score.Mults++
		}
	}
	score.Score = score.Points * score.Mults
	return score
}

// distinct returns the sorted set of non-blank values.
func distinct(contacts []model.Contact, field func(model.Contact) string) []string {
	seen := map[string]struct{}{}
	for _, c := range contacts {
		v := field(c)
		if strings.TrimSpace(v) == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func radioCounts(contacts []model.Contact) []RadioCount {
	counts := map[int]int{}
	for _, c := range contacts {
		counts[c.Radio]++
	}
	out := make([]RadioCount, 0, len(counts))
	for radio, n := range counts {
		out = append(out, RadioCount{Radio: radio, QSOs: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Radio < out[j].Radio
	})
	return out
}
