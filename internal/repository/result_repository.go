package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// UpsertBatch inserts or updates a batch of race results
func (r *PostgresResultRepository) UpsertBatch(ctx context.Context, results []*models.Result) error {
	query := `
		INSERT INTO results (race_date, driver, constructor, number, grid, position,
		                     position_text, points, laps, time, fastest_lap, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (race_date, driver) DO UPDATE SET
			constructor = EXCLUDED.constructor, number = EXCLUDED.number,
			grid = EXCLUDED.grid, position = EXCLUDED.position,
			position_text = EXCLUDED.position_text, points = EXCLUDED.points,
			laps = EXCLUDED.laps, time = EXCLUDED.time,
			fastest_lap = EXCLUDED.fastest_lap, status = EXCLUDED.status
	`

	for _, result := range results {
		_, err := r.db.GetPool().Exec(ctx, query,
			result.RaceDate, result.Driver, result.Constructor, result.Number,
			result.Grid, result.Position, result.PositionText, result.Points,
			result.Laps, result.Time, result.FastestLap, result.Status,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert result for %s: %w", result.Driver, err)
		}
	}

	return nil
}

// GetByRaceDate retrieves all finishing results for a race
func (r *PostgresResultRepository) GetByRaceDate(ctx context.Context, date time.Time) ([]models.Result, error) {
	query := `
		SELECT race_date, driver, constructor, number, grid, position,
		       position_text, points, laps, time, fastest_lap, status
		FROM results
		WHERE race_date = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		result := models.Result{}
		err := rows.Scan(
			&result.RaceDate, &result.Driver, &result.Constructor, &result.Number,
			&result.Grid, &result.Position, &result.PositionText, &result.Points,
			&result.Laps, &result.Time, &result.FastestLap, &result.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
