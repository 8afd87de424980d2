package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a named collection of users betting against each other.
type Group struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" validate:"required,max=100"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id" validate:"required"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BetStat is the cumulative points ledger for one user within one group.
// It is created lazily on first settlement and only ever grows through
// settlements.
type BetStat struct {
	ID        int64     `db:"id" json:"id"`
	GroupID   int64     `db:"group_id" json:"group_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Points    int       `db:"points" json:"points"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
