package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// RaceRepository defines the interface for race data access
type RaceRepository interface {
	Upsert(ctx context.Context, race *models.Race) error
	GetByDate(ctx context.Context, date time.Time) (*models.Race, error)
	// GetPrevious returns the race with the greatest date strictly before
	// the given date, or models.ErrNotFound for the chronologically first
	// race.
	GetPrevious(ctx context.Context, date time.Time) (*models.Race, error)
	GetUpTo(ctx context.Context, date time.Time) ([]*models.Race, error)
}

// ResultRepository defines the interface for race result data access
type ResultRepository interface {
	UpsertBatch(ctx context.Context, results []*models.Result) error
	GetByRaceDate(ctx context.Context, date time.Time) ([]models.Result, error)
}

// QualifyingRepository defines the interface for qualifying result data access
type QualifyingRepository interface {
	UpsertBatch(ctx context.Context, results []*models.QualifyingResult) error
	GetByRaceDate(ctx context.Context, date time.Time) ([]models.QualifyingResult, error)
}

// ReferenceRepository defines the interface for static reference data
// (seasons, circuits, drivers, constructors, season line-ups).
type ReferenceRepository interface {
	UpsertSeason(ctx context.Context, season *models.Season) error
	GetLatestSeason(ctx context.Context) (*models.Season, error)
	UpsertCircuit(ctx context.Context, circuit *models.Circuit) error
	UpsertDriver(ctx context.Context, driver *models.Driver) error
	GetDriver(ctx context.Context, code string) (*models.Driver, error)
	UpsertConstructor(ctx context.Context, constructor *models.Constructor) error
	UpsertDriverTeam(ctx context.Context, team *models.DriverTeam) error
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error)
	// GetUnevaluatedDue returns all bets with evaluated=false whose race
	// date is on or before asOf, podium picks included.
	GetUnevaluatedDue(ctx context.Context, asOf time.Time) ([]*models.Bet, error)
	ExistsForUserAndRace(ctx context.Context, userID uuid.UUID, raceDate time.Time) (bool, error)
	// MarkEvaluatedTx latches the bet within the caller's transaction.
	// Returns models.ErrAlreadyEvaluated if the bet was already latched.
	MarkEvaluatedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error
}

// BetStatRepository defines the interface for the cumulative points ledger
type BetStatRepository interface {
	// GetOrCreateTx loads the (group, user) ledger row with a row lock,
	// creating it lazily on first settlement.
	GetOrCreateTx(ctx context.Context, tx pgx.Tx, groupID int64, userID uuid.UUID) (*models.BetStat, error)
	AddPointsTx(ctx context.Context, tx pgx.Tx, id int64, points int) error
	GetByGroup(ctx context.Context, groupID int64) ([]*models.BetStat, error)
}

// GroupRepository defines the interface for betting group data access
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByName(ctx context.Context, name string) (*models.Group, error)
	AddMember(ctx context.Context, groupID int64, userID uuid.UUID) error
}
