package cty

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/qsostat/internal/model"
)

const samplePlist = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
<key>K1ABC</key>
	<dict>
		<key>Country</key><string>Hawaii</string>
		<key>Prefix</key><string>KH6</string>
		<key>Continent</key><string>OC</string>
		<key>ExactCallsign</key><true/>
	</dict>
<key>K</key>
	<dict>
		<key>Country</key><string>United States</string>
		<key>Prefix</key><string>K</string>
		<key>Continent</key><string>NA</string>
		<key>ExactCallsign</key><false/>
	</dict>
<key>DL</key>
	<dict>
		<key>Country</key><string>Fed. Rep. of Germany</string>
		<key>Prefix</key><string>DL</string>
		<key>Continent</key><string>EU</string>
		<key>ExactCallsign</key><false/>
	</dict>
<key>JA</key>
	<dict>
		<key>Country</key><string>Japan</string>
		<key>Prefix</key><string>JA</string>
		<key>Continent</key><string>AS</string>
		<key>ExactCallsign</key><false/>
	</dict>
</dict>
</plist>`

func sampleDB(t *testing.T) *DB {
	t.Helper()
	db, err := Decode(strings.NewReader(samplePlist))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return db
}

func TestLookup(t *testing.T) {
	db := sampleDB(t)
	if db.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", db.Len())
	}
	cases := map[string]string{
		"K1ABC":     "KH6",
		"k1abc/p":   "KH6",
		"K1ABCD":    "K",
		"W1AW":      "",
		"K2XX":      "K",
		"DL1ABC":    "DL",
		"DL/K1ABC":  "DL",
		"JA1ZZZ/MM": "JA",
		"":          "",
	}
	for call, want := range cases {
		info, ok := db.Lookup(call)
		if want == "" {
			if ok {
				t.Fatalf("Lookup(%q) expected miss, got %+v", call, info)
			}
			continue
		}
		if !ok || info.Prefix != want {
			t.Fatalf("Lookup(%q)=%q,%v; want %q", call, info.Prefix, ok, want)
		}
	}
}

func TestEnrichKeepsExistingValues(t *testing.T) {
	db := sampleDB(t)
	contacts := []model.Contact{
		{Call: "DL1ABC"},
		{Call: "JA1XYZ", Continent: "XX", CountryPrefix: " "},
		{Call: "W1AW"},
	}
	out := db.Enrich(contacts)
	if contacts[0].Continent != "" {
		t.Fatalf("input mutated: %+v", contacts[0])
	}
	if out[0].Continent != "EU" || out[0].CountryPrefix != "DL" {
		t.Fatalf("unexpected enrichment: %+v", out[0])
	}
	if out[1].Continent != "XX" || out[1].CountryPrefix != "JA" {
		t.Fatalf("existing continent must be kept: %+v", out[1])
	}
	if out[2].Continent != "" || out[2].CountryPrefix != "" {
		t.Fatalf("unknown call must stay blank: %+v", out[2])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "cty.plist")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "cty.plist")
	if err := os.WriteFile(path, []byte(samplePlist), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	db, err := Load(path)
	if err != nil || db.Len() != 4 {
		t.Fatalf("load: %v", err)
	}
}
