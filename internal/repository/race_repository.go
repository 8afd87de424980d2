package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

// Upsert inserts or updates a race keyed by its date
func (r *PostgresRaceRepository) Upsert(ctx context.Context, race *models.Race) error {
	query := `
		INSERT INTO races (date, season, circuit, round)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE SET
			season = EXCLUDED.season, circuit = EXCLUDED.circuit, round = EXCLUDED.round
	`

	_, err := r.db.GetPool().Exec(ctx, query, race.Date, race.Season, race.Circuit, race.Round)
	if err != nil {
		return fmt.Errorf("failed to upsert race: %w", err)
	}

	return nil
}

// GetByDate retrieves the race held on the given date
func (r *PostgresRaceRepository) GetByDate(ctx context.Context, date time.Time) (*models.Race, error) {
	query := `SELECT date, season, circuit, round FROM races WHERE date = $1`

	race := &models.Race{}
	err := r.db.GetPool().QueryRow(ctx, query, date).Scan(
		&race.Date, &race.Season, &race.Circuit, &race.Round,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get race: %w", err)
	}

	return race, nil
}

// GetPrevious retrieves the race immediately preceding the given date
func (r *PostgresRaceRepository) GetPrevious(ctx context.Context, date time.Time) (*models.Race, error) {
	query := `
		SELECT date, season, circuit, round
		FROM races
		WHERE date < $1
		ORDER BY date DESC
		LIMIT 1
	`

	race := &models.Race{}
	err := r.db.GetPool().QueryRow(ctx, query, date).Scan(
		&race.Date, &race.Season, &race.Circuit, &race.Round,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get previous race: %w", err)
	}

	return race, nil
}

// GetUpTo retrieves all races with date on or before the given date
func (r *PostgresRaceRepository) GetUpTo(ctx context.Context, date time.Time) ([]*models.Race, error) {
	query := `
		SELECT date, season, circuit, round
		FROM races
		WHERE date <= $1
		ORDER BY date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query races: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race := &models.Race{}
		if err := rows.Scan(&race.Date, &race.Season, &race.Circuit, &race.Round); err != nil {
			return nil, fmt.Errorf("failed to scan race: %w", err)
		}
		races = append(races, race)
	}

	return races, rows.Err()
}
