// Package model defines shared data structures.
package model

import "time"

// Contest describes one contest instance in the log database.
type Contest struct {
	ID            int64
	Name          string
	StartDate     time.Time
	PowerCategory string
}

// Contact is a single logged QSO.
type Contact struct {
	Time          time.Time
	ContestID     int64
	ContestName   string
	Call          string
	BandMHz       float64
	Points        int
	Mult1         bool
	Mult2         bool
	IsRun         bool
	Continent     string
	CountryPrefix string
	Section       string
	Radio         int
}

// IsMult reports whether either multiplier flag is set.
func (c Contact) IsMult() bool {
	return c.Mult1 || c.Mult2
}

// ViewerConfig defines selection and computation settings for the viewer.
type ViewerConfig struct {
	DBPath    string
	SortBy    string
	SortDesc  bool
	Increment string
	IdleGap   time.Duration
	CTYPath   string
	Scored    bool
}
