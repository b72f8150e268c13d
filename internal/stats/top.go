package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/qsostat/internal/model"
)

// CountryCount is the number of contacts with one country prefix.
type CountryCount struct {
	Prefix string
	QSOs   int
}

// TopCountries returns the n most worked country prefixes. Ties keep
// alphabetical order and blank prefixes are skipped.
func TopCountries(contacts []model.Contact, n int) []CountryCount {
	if n <= 0 || len(contacts) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, c := range contacts {
		prefix := strings.TrimSpace(c.CountryPrefix)
		if prefix == "" {
			continue
		}
		counts[prefix]++
	}
	items := make([]CountryCount, 0, len(counts))
	for prefix, total := range counts {
		items = append(items, CountryCount{Prefix: prefix, QSOs: total})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].QSOs == items[j].QSOs {
			return items[i].Prefix < items[j].Prefix
		}
		return items[i].QSOs > items[j].QSOs
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
