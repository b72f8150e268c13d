package stats

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/qsostat/internal/model"
)

func TestTopCountries(t *testing.T) {
	contacts := []model.Contact{
		{CountryPrefix: "DL"}, {CountryPrefix: "JA"}, {CountryPrefix: "DL"},
		{CountryPrefix: " "}, {CountryPrefix: "K"}, {CountryPrefix: "JA"}, {CountryPrefix: "DL"},
	}
	got := TopCountries(contacts, 2)
	want := []CountryCount{{Prefix: "DL", QSOs: 3}, {Prefix: "JA", QSOs: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TopCountries = %v, want %v", got, want)
	}
	if all := TopCountries(contacts, 10); len(all) != 3 || all[2].Prefix != "K" {
		t.Fatalf("unexpected full ranking: %v", all)
	}
	if TopCountries(contacts, 0) != nil || TopCountries(nil, 3) != nil {
		t.Fatalf("expected nil for empty request")
	}
}

func TestSummaryTopCountries(t *testing.T) {
	res := (&Engine{}).Summary(scenarioContacts(t))
	if len(res.TopCountries) == 0 || res.TopCountries[0].QSOs < res.TopCountries[len(res.TopCountries)-1].QSOs {
		t.Fatalf("top countries not ranked: %v", res.TopCountries)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 2, 1, 0}); got != " @+ " {
		t.Fatalf("Sparkline = %q", got)
	}
	if got := Sparkline([]float64{0, 0}); got != "  " {
		t.Fatalf("Sparkline all zero = %q", got)
	}
	if got := Sparkline(nil); got != "" {
		t.Fatalf("Sparkline empty = %q", got)
	}
	g := Grid{Rows: []GridRow{{Total: 4}, {Total: 1}}}
	if got := Activity(g); got != "@-" {
		t.Fatalf("Activity = %q", got)
	}
}
