package models

import "time"

// Driver represents an F1 driver, identified by the reference API's driver
// code (e.g. "max_verstappen"). Racing numbers are stored as text because
// the upstream feed is free-text and historical entries may be empty.
type Driver struct {
	Driver      string     `db:"driver" json:"driver" validate:"required"`
	Number      string     `db:"number" json:"number"`
	Forename    string     `db:"forename" json:"forename"`
	Surname     string     `db:"surname" json:"surname"`
	DOB         *time.Time `db:"dob" json:"dob"`
	Nationality string     `db:"nationality" json:"nationality"`
}

// FullName returns the driver's display name.
func (d *Driver) FullName() string {
	if d.Forename == "" {
		return d.Surname
	}
	return d.Forename + " " + d.Surname
}

// Constructor represents an F1 team.
type Constructor struct {
	Constructor string `db:"constructor" json:"constructor" validate:"required"`
	Name        string `db:"name" json:"name"`
	Nationality string `db:"nationality" json:"nationality"`
}

// DriverTeam links a driver to the constructor they raced for in a season.
type DriverTeam struct {
	Season             string `db:"season" json:"season"`
	Driver             string `db:"driver" json:"driver"`
	Constructor        string `db:"constructor" json:"constructor"`
	DriverSeasonNumber string `db:"driver_season_number" json:"driver_season_number"`
}
