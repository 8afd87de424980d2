package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PostgresReferenceRepository implements ReferenceRepository for PostgreSQL
type PostgresReferenceRepository struct {
	db *database.DB
}

// NewPostgresReferenceRepository creates a new reference data repository
func NewPostgresReferenceRepository(db *database.DB) ReferenceRepository {
	return &PostgresReferenceRepository{db: db}
}

// UpsertSeason inserts a season if it does not exist
func (r *PostgresReferenceRepository) UpsertSeason(ctx context.Context, season *models.Season) error {
	query := `INSERT INTO seasons (season) VALUES ($1) ON CONFLICT (season) DO NOTHING`

	if _, err := r.db.GetPool().Exec(ctx, query, season.Season); err != nil {
		return fmt.Errorf("failed to upsert season: %w", err)
	}
	return nil
}

// GetLatestSeason retrieves the most recent season by numeric year
func (r *PostgresReferenceRepository) GetLatestSeason(ctx context.Context) (*models.Season, error) {
	query := `SELECT season FROM seasons ORDER BY season::integer DESC LIMIT 1`

	season := &models.Season{}
	err := r.db.GetPool().QueryRow(ctx, query).Scan(&season.Season)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest season: %w", err)
	}

	return season, nil
}

// UpsertCircuit inserts or updates a circuit
func (r *PostgresReferenceRepository) UpsertCircuit(ctx context.Context, circuit *models.Circuit) error {
	query := `
		INSERT INTO circuits (circuit, name, location, country)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (circuit) DO UPDATE SET
			name = EXCLUDED.name, location = EXCLUDED.location, country = EXCLUDED.country
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		circuit.Circuit, circuit.Name, circuit.Location, circuit.Country,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert circuit: %w", err)
	}
	return nil
}

// UpsertDriver inserts or updates a driver
func (r *PostgresReferenceRepository) UpsertDriver(ctx context.Context, driver *models.Driver) error {
	query := `
		INSERT INTO drivers (driver, number, forename, surname, dob, nationality)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (driver) DO UPDATE SET
			number = EXCLUDED.number, forename = EXCLUDED.forename,
			surname = EXCLUDED.surname, dob = EXCLUDED.dob,
			nationality = EXCLUDED.nationality
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		driver.Driver, driver.Number, driver.Forename, driver.Surname,
		driver.DOB, driver.Nationality,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert driver: %w", err)
	}
	return nil
}

// GetDriver retrieves a driver by code
func (r *PostgresReferenceRepository) GetDriver(ctx context.Context, code string) (*models.Driver, error) {
	query := `SELECT driver, number, forename, surname, dob, nationality FROM drivers WHERE driver = $1`

	driver := &models.Driver{}
	err := r.db.GetPool().QueryRow(ctx, query, code).Scan(
		&driver.Driver, &driver.Number, &driver.Forename, &driver.Surname,
		&driver.DOB, &driver.Nationality,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return driver, nil
}

// UpsertConstructor inserts or updates a constructor
func (r *PostgresReferenceRepository) UpsertConstructor(ctx context.Context, constructor *models.Constructor) error {
	query := `
		INSERT INTO constructors (constructor, name, nationality)
		VALUES ($1, $2, $3)
		ON CONFLICT (constructor) DO UPDATE SET
			name = EXCLUDED.name, nationality = EXCLUDED.nationality
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		constructor.Constructor, constructor.Name, constructor.Nationality,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert constructor: %w", err)
	}
	return nil
}

// UpsertDriverTeam records which constructor a driver raced for in a season
func (r *PostgresReferenceRepository) UpsertDriverTeam(ctx context.Context, team *models.DriverTeam) error {
	query := `
		INSERT INTO driver_teams (season, driver, constructor, driver_season_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (season, driver) DO UPDATE SET
			constructor = EXCLUDED.constructor,
			driver_season_number = EXCLUDED.driver_season_number
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		team.Season, team.Driver, team.Constructor, team.DriverSeasonNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert driver team: %w", err)
	}
	return nil
}
