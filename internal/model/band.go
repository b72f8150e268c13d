package model

import (
	"strconv"
	"strings"
)

// Band identifies one of the six contest bands.
type Band int

// Contest bands in display order.
const (
	Band160 Band = iota
	Band80
	Band40
	Band20
	Band15
	Band10
)

// BandCount is the number of contest bands.
const BandCount = 6

type bandInfo struct {
	label   string
	nominal float64 // MHz
	min     float64 // MHz
	max     float64 // MHz
}

var bandTable = [BandCount]bandInfo{
	{label: "160", nominal: 1.8, min: 1.8, max: 2.0},
	{label: "80", nominal: 3.5, min: 3.5, max: 4.0},
	{label: "40", nominal: 7.0, min: 7.0, max: 7.3},
	{label: "20", nominal: 14.0, min: 14.0, max: 14.35},
	{label: "15", nominal: 21.0, min: 21.0, max: 21.45},
	{label: "10", nominal: 28.0, min: 28.0, max: 29.7},
}

// Bands returns the contest bands in display order.
func Bands() []Band {
	out := make([]Band, BandCount)
	for i := range out {
		out[i] = Band(i)
	}
	return out
}

// Label returns the band name in meters without the unit, e.g. "160".
func (b Band) Label() string {
	if b < 0 || int(b) >= BandCount {
		return "?"
	}
	return bandTable[b].label
}

// MHz returns the nominal band value used by logging software.
func (b Band) MHz() float64 {
	if b < 0 || int(b) >= BandCount {
		return 0
	}
	return bandTable[b].nominal
}

// String implements fmt.Stringer.
func (b Band) String() string {
	return b.Label() + "m"
}

// BandForMHz maps a nominal band value or an in-band frequency to a Band.
func BandForMHz(mhz float64) (Band, bool) {
	for i, info := range bandTable {
		if mhz >= info.min && mhz <= info.max {
			return Band(i), true
		}
	}
	return 0, false
}

// ParseBand accepts "160", "160m" or a MHz value like "1.8".
func ParseBand(label string) (Band, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(label))
	cleaned = strings.TrimSuffix(cleaned, "m")
	if cleaned == "" {
		return 0, false
	}
	for i, info := range bandTable {
		if info.label == cleaned {
			return Band(i), true
		}
	}
	mhz, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return BandForMHz(mhz)
}
