package models

import (
	"strconv"
	"strings"
	"time"
)

// Result is one driver's classification in one race. The upstream feed
// delivers position, points, laps and lap times as free text, so everything
// textual is kept as-is and converted at the ranking boundary via
// ParsePosition and ParseLapTime.
type Result struct {
	RaceDate     time.Time `db:"race_date" json:"race_date"`
	Driver       string    `db:"driver" json:"driver"`
	Constructor  string    `db:"constructor" json:"constructor"`
	Number       string    `db:"number" json:"number"`
	Grid         string    `db:"grid" json:"grid"`
	Position     string    `db:"position" json:"position"`
	PositionText string    `db:"position_text" json:"position_text"`
	Points       string    `db:"points" json:"points"`
	Laps         string    `db:"laps" json:"laps"`
	Time         string    `db:"time" json:"time"`
	FastestLap   string    `db:"fastest_lap" json:"fastest_lap"`
	Status       string    `db:"status" json:"status"`
}

// NumericPosition returns the finishing position as an integer, if the
// stored text is numeric.
func (r *Result) NumericPosition() (int, bool) {
	return ParsePosition(r.Position)
}

// QualifyingResult is one driver's qualifying classification for one race.
type QualifyingResult struct {
	RaceDate time.Time `db:"race_date" json:"race_date"`
	Driver   string    `db:"driver" json:"driver"`
	Position string    `db:"position" json:"position"`
	Q1       string    `db:"q1" json:"q1"`
	Q2       string    `db:"q2" json:"q2"`
	Q3       string    `db:"q3" json:"q3"`
}

// ParsePosition parses a textual finishing position. Non-numeric entries
// ("R", "Retired", "DQ", "") report false and are excluded from every
// ranking computation; they are data, not errors.
func ParsePosition(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	pos, err := strconv.Atoi(s)
	if err != nil || pos <= 0 {
		return 0, false
	}
	return pos, true
}

// ParseLapTime returns the comparable form of a lap time string. Stored lap
// times are fixed-width ("1:32.500"), so lexicographic order equals
// chronological order. Empty values report false.
func ParseLapTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}
