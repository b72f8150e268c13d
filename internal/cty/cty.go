// Package cty resolves callsigns to country and continent using a cty.plist
// prefix database, so contacts logged without those fields can still be
// counted.
package cty

import (
	"fmt"
	"io"
	"os"
	"strings"

	"howett.net/plist"

	"github.com/verte-zerg/qsostat/internal/model"
)

// PrefixInfo is one cty.plist entry.
type PrefixInfo struct {
	Country       string  `plist:"Country"`
	Prefix        string  `plist:"Prefix"`
	ADIF          int     `plist:"ADIF"`
	CQZone        int     `plist:"CQZone"`
	ITUZone       int     `plist:"ITUZone"`
	Continent     string  `plist:"Continent"`
	Latitude      float64 `plist:"Latitude"`
	Longitude     float64 `plist:"Longitude"`
	GMTOffset     float64 `plist:"GMTOffset"`
	ExactCallsign bool    `plist:"ExactCallsign"`
}

// DB is a read-only prefix database. Lookups are safe for concurrent use.
type DB struct {
	entries   map[string]PrefixInfo
	maxKeyLen int
}

// Load reads a cty.plist file.
func Load(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cty plist: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only file.
			_ = cerr
		}
	}()
	return Decode(f)
}

// Decode parses cty.plist data.
func Decode(r io.ReadSeeker) (*DB, error) {
	var raw map[string]PrefixInfo
	if err := plist.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode cty plist: %w", err)
	}
	db := &DB{entries: make(map[string]PrefixInfo, len(raw))}
	for k, v := range raw {
		key := strings.ToUpper(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		db.entries[key] = v
		if len(key) > db.maxKeyLen {
			db.maxKeyLen = len(key)
		}
	}
	return db, nil
}

// Len returns the number of entries.
func (db *DB) Len() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}

var portableSuffixes = []string{"/QRP", "/MM", "/AM", "/P", "/M"}

func normalizeCallsign(cs string) string {
	cs = strings.ToUpper(strings.TrimSpace(cs))
	for _, suf := range portableSuffixes {
		if strings.HasSuffix(cs, suf) {
			return strings.TrimSuffix(cs, suf)
		}
	}
	return cs
}

// Lookup resolves a callsign. Exact-callsign entries only match the whole
// call; everything else matches by longest prefix. For calls like DL/K1ABC the
// shorter segment before the slash is tried first.
func (db *DB) Lookup(call string) (PrefixInfo, bool) {
	if db == nil {
		return PrefixInfo{}, false
	}
	cs := normalizeCallsign(call)
	if cs == "" {
		return PrefixInfo{}, false
	}
	if info, ok := db.entries[cs]; ok {
		return info, true
	}
	if head, tail, found := strings.Cut(cs, "/"); found && head != "" && len(head) < len(tail) {
		if info, ok := db.longestPrefix(head); ok {
			return info, true
		}
	}
	return db.longestPrefix(cs)
}

func (db *DB) longestPrefix(cs string) (PrefixInfo, bool) {
	n := len(cs)
	if n > db.maxKeyLen {
		n = db.maxKeyLen
	}
	for ; n > 0; n-- {
		info, ok := db.entries[cs[:n]]
		if !ok || info.ExactCallsign {
			continue
		}
		return info, true
	}
	return PrefixInfo{}, false
}

// Enrich returns a copy of contacts with blank continent and country prefix
// filled from the callsign. Present values are kept.
func (db *DB) Enrich(contacts []model.Contact) []model.Contact {
	out := make([]model.Contact, len(contacts))
	copy(out, contacts)
	if db == nil {
		return out
	}
	for i := range out {
		c := &out[i]
		needContinent := strings.TrimSpace(c.Continent) == ""
		needCountry := strings.TrimSpace(c.CountryPrefix) == ""
		if !needContinent && !needCountry {
			continue
		}
		info, ok := db.Lookup(c.Call)
		if !ok {
			continue
		}
		if needContinent {
			c.Continent = info.Continent
		}
		if needCountry {
			c.CountryPrefix = info.Prefix
		}
	}
	return out
}
