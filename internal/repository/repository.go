package repository

import (
	"fmt"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Race       RaceRepository
	Result     ResultRepository
	Qualifying QualifyingRepository
	Reference  ReferenceRepository
	Bet        BetRepository
	BetStat    BetStatRepository
	Group      GroupRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Race:       NewPostgresRaceRepository(db),
		Result:     NewPostgresResultRepository(db),
		Qualifying: NewPostgresQualifyingRepository(db),
		Reference:  NewPostgresReferenceRepository(db),
		Bet:        NewPostgresBetRepository(db),
		BetStat:    NewPostgresBetStatRepository(db),
		Group:      NewPostgresGroupRepository(db),
	}, nil
}
