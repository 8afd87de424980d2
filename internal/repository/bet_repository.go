package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// Create inserts a new bet together with its three podium picks
func (b *PostgresBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	return b.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bets (id, user_id, group_id, race_date, bet_last_5,
			                  bet_last_10, bet_fastest_lap, evaluated, points_awarded)
			VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, 0)
		`

		_, err := tx.Exec(ctx, query,
			bet.ID, bet.UserID, bet.GroupID, bet.RaceDate,
			bet.LastFive, bet.LastTen, bet.FastestLap,
		)
		if err != nil {
			return fmt.Errorf("failed to create bet: %w", err)
		}

		pickQuery := `INSERT INTO bet_picks (bet_id, position, driver) VALUES ($1, $2, $3)`
		for _, pick := range bet.TopThree {
			if _, err := tx.Exec(ctx, pickQuery, bet.ID, pick.Position, pick.Driver); err != nil {
				return fmt.Errorf("failed to create podium pick: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a bet by ID, podium picks included
func (b *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	query := `
		SELECT id, user_id, group_id, race_date, bet_last_5, bet_last_10,
		       bet_fastest_lap, evaluated, points_awarded, created_at
		FROM bets WHERE id = $1
	`

	bet := &models.Bet{}
	err := b.db.GetPool().QueryRow(ctx, query, id).Scan(
		&bet.ID, &bet.UserID, &bet.GroupID, &bet.RaceDate, &bet.LastFive,
		&bet.LastTen, &bet.FastestLap, &bet.Evaluated, &bet.PointsAwarded, &bet.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	if err := b.attachPicks(ctx, []*models.Bet{bet}); err != nil {
		return nil, err
	}

	return bet, nil
}

// GetUnevaluatedDue retrieves all unevaluated bets for races on or before asOf
func (b *PostgresBetRepository) GetUnevaluatedDue(ctx context.Context, asOf time.Time) ([]*models.Bet, error) {
	query := `
		SELECT id, user_id, group_id, race_date, bet_last_5, bet_last_10,
		       bet_fastest_lap, evaluated, points_awarded, created_at
		FROM bets
		WHERE evaluated = FALSE AND race_date <= $1
		ORDER BY race_date ASC, created_at ASC
	`

	rows, err := b.db.GetPool().Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query unevaluated bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet := &models.Bet{}
		err := rows.Scan(
			&bet.ID, &bet.UserID, &bet.GroupID, &bet.RaceDate, &bet.LastFive,
			&bet.LastTen, &bet.FastestLap, &bet.Evaluated, &bet.PointsAwarded, &bet.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := b.attachPicks(ctx, bets); err != nil {
		return nil, err
	}

	return bets, nil
}

// ExistsForUserAndRace reports whether the user already has a bet for the race
func (b *PostgresBetRepository) ExistsForUserAndRace(ctx context.Context, userID uuid.UUID, raceDate time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bets WHERE user_id = $1 AND race_date = $2)`

	var exists bool
	if err := b.db.GetPool().QueryRow(ctx, query, userID, raceDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check bet existence: %w", err)
	}

	return exists, nil
}

// MarkEvaluatedTx latches the bet's evaluated flag and point award inside
// the caller's settlement transaction. The evaluated=FALSE guard makes the
// latch one-way even under concurrent sweeps.
func (b *PostgresBetRepository) MarkEvaluatedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	query := `
		UPDATE bets SET evaluated = TRUE, points_awarded = $2
		WHERE id = $1 AND evaluated = FALSE
	`

	commandTag, err := tx.Exec(ctx, query, id, points)
	if err != nil {
		return fmt.Errorf("failed to mark bet evaluated: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrAlreadyEvaluated
	}

	return nil
}

// attachPicks loads the ordered podium picks for the given bets
func (b *PostgresBetRepository) attachPicks(ctx context.Context, bets []*models.Bet) error {
	if len(bets) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(bets))
	byID := make(map[uuid.UUID]*models.Bet, len(bets))
	for _, bet := range bets {
		ids = append(ids, bet.ID)
		byID[bet.ID] = bet
	}

	query := `
		SELECT bet_id, position, driver
		FROM bet_picks
		WHERE bet_id = ANY($1)
		ORDER BY bet_id, position
	`

	rows, err := b.db.GetPool().Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query podium picks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var betID uuid.UUID
		pick := models.PodiumPick{}
		if err := rows.Scan(&betID, &pick.Position, &pick.Driver); err != nil {
			return fmt.Errorf("failed to scan podium pick: %w", err)
		}
		if bet, ok := byID[betID]; ok {
			bet.TopThree = append(bet.TopThree, pick)
		}
	}

	return rows.Err()
}
