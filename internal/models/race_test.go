package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRaceDateKey(t *testing.T) {
	race := Race{Date: time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, "2025-06-15", race.DateKey())
}

func TestRaceIsBefore(t *testing.T) {
	earlier := Race{Date: time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)}
	later := Race{Date: time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)}

	assert.True(t, earlier.IsBefore(&later))
	assert.False(t, later.IsBefore(&earlier))
	assert.False(t, earlier.IsBefore(&earlier))
}
