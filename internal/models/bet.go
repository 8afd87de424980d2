package models

import (
	"time"

	"github.com/google/uuid"
)

// PodiumSlots is the number of ranked top-3 prediction slots on every bet.
const PodiumSlots = 3

// PodiumPick is one ranked slot of a bet's top-3 prediction. Position is
// 1-based and unique per bet.
type PodiumPick struct {
	Position int    `db:"position" json:"position" validate:"required,min=1,max=3"`
	Driver   string `db:"driver" json:"driver" validate:"required"`
}

// Bet is a user's prediction for a single race within a betting group.
// A user holds at most one bet per race. Evaluated and PointsAwarded are
// written exactly once by the settlement writer; evaluated=false -> true
// is a one-way transition.
type Bet struct {
	ID            uuid.UUID    `db:"id" json:"id" validate:"required"`
	UserID        uuid.UUID    `db:"user_id" json:"user_id" validate:"required"`
	GroupID       int64        `db:"group_id" json:"group_id" validate:"required"`
	RaceDate      time.Time    `db:"race_date" json:"race_date" validate:"required"`
	TopThree      []PodiumPick `json:"top_three" validate:"required,len=3,dive"`
	LastFive      *string      `db:"bet_last_5" json:"bet_last_5"`
	LastTen       *string      `db:"bet_last_10" json:"bet_last_10"`
	FastestLap    *string      `db:"bet_fastest_lap" json:"bet_fastest_lap"`
	Evaluated     bool         `db:"evaluated" json:"evaluated"`
	PointsAwarded int          `db:"points_awarded" json:"points_awarded"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
}

// PredictedPodium returns the predicted drivers in slot order 1..3.
func (b *Bet) PredictedPodium() []string {
	drivers := make([]string, 0, len(b.TopThree))
	for slot := 1; slot <= PodiumSlots; slot++ {
		for _, pick := range b.TopThree {
			if pick.Position == slot {
				drivers = append(drivers, pick.Driver)
			}
		}
	}
	return drivers
}
