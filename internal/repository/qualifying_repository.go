package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PostgresQualifyingRepository implements QualifyingRepository for PostgreSQL
type PostgresQualifyingRepository struct {
	db *database.DB
}

// NewPostgresQualifyingRepository creates a new qualifying repository
func NewPostgresQualifyingRepository(db *database.DB) QualifyingRepository {
	return &PostgresQualifyingRepository{db: db}
}

// UpsertBatch inserts or updates a batch of qualifying results
func (r *PostgresQualifyingRepository) UpsertBatch(ctx context.Context, results []*models.QualifyingResult) error {
	query := `
		INSERT INTO qualifying_results (race_date, driver, position, q1, q2, q3)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (race_date, driver) DO UPDATE SET
			position = EXCLUDED.position, q1 = EXCLUDED.q1,
			q2 = EXCLUDED.q2, q3 = EXCLUDED.q3
	`

	for _, result := range results {
		_, err := r.db.GetPool().Exec(ctx, query,
			result.RaceDate, result.Driver, result.Position,
			result.Q1, result.Q2, result.Q3,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert qualifying result for %s: %w", result.Driver, err)
		}
	}

	return nil
}

// GetByRaceDate retrieves all qualifying results for a race
func (r *PostgresQualifyingRepository) GetByRaceDate(ctx context.Context, date time.Time) ([]models.QualifyingResult, error) {
	query := `
		SELECT race_date, driver, position, q1, q2, q3
		FROM qualifying_results
		WHERE race_date = $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query qualifying results: %w", err)
	}
	defer rows.Close()

	var results []models.QualifyingResult
	for rows.Next() {
		result := models.QualifyingResult{}
		err := rows.Scan(
			&result.RaceDate, &result.Driver, &result.Position,
			&result.Q1, &result.Q2, &result.Q3,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qualifying result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}
