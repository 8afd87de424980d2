package models

import (
	"time"
)

// RaceDateFormat is the canonical wire/storage format for race dates.
const RaceDateFormat = "2006-01-02"

// Race represents a single Grand Prix. Races are uniquely identified by
// their calendar date; no two races ever share a date.
type Race struct {
	Date    time.Time `db:"date" json:"date" validate:"required"`
	Season  string    `db:"season" json:"season" validate:"required"`
	Circuit string    `db:"circuit" json:"circuit" validate:"required"`
	Round   string    `db:"round" json:"round"`
}

// DateKey returns the race date formatted as its canonical identity string.
func (r *Race) DateKey() string {
	return r.Date.Format(RaceDateFormat)
}

// IsBefore reports whether this race precedes the other race chronologically.
func (r *Race) IsBefore(other *Race) bool {
	return r.Date.Before(other.Date)
}

// Season represents an F1 championship year.
type Season struct {
	Season string `db:"season" json:"season" validate:"required"`
}

// Circuit represents a race track.
type Circuit struct {
	Circuit  string `db:"circuit" json:"circuit" validate:"required"`
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location"`
	Country  string `db:"country" json:"country"`
}
