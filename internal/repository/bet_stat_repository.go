package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PostgresBetStatRepository implements BetStatRepository for PostgreSQL
type PostgresBetStatRepository struct {
	db *database.DB
}

// NewPostgresBetStatRepository creates a new bet stat repository
func NewPostgresBetStatRepository(db *database.DB) BetStatRepository {
	return &PostgresBetStatRepository{db: db}
}

// GetOrCreateTx loads the ledger row for (group, user) with FOR UPDATE,
// creating it lazily. The row lock serializes concurrent settlements of
// the same user's bets.
func (r *PostgresBetStatRepository) GetOrCreateTx(ctx context.Context, tx pgx.Tx, groupID int64, userID uuid.UUID) (*models.BetStat, error) {
	insertQuery := `
		INSERT INTO bet_stats (group_id, user_id, points)
		VALUES ($1, $2, 0)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	if _, err := tx.Exec(ctx, insertQuery, groupID, userID); err != nil {
		return nil, fmt.Errorf("failed to create bet stat: %w", err)
	}

	selectQuery := `
		SELECT id, group_id, user_id, points, updated_at
		FROM bet_stats
		WHERE group_id = $1 AND user_id = $2
		FOR UPDATE
	`

	stat := &models.BetStat{}
	err := tx.QueryRow(ctx, selectQuery, groupID, userID).Scan(
		&stat.ID, &stat.GroupID, &stat.UserID, &stat.Points, &stat.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load bet stat: %w", err)
	}

	return stat, nil
}

// AddPointsTx adds points to the ledger row inside the caller's transaction
func (r *PostgresBetStatRepository) AddPointsTx(ctx context.Context, tx pgx.Tx, id int64, points int) error {
	query := `UPDATE bet_stats SET points = points + $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := tx.Exec(ctx, query, id, points)
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetByGroup retrieves all ledgers of a group ordered by points descending
func (r *PostgresBetStatRepository) GetByGroup(ctx context.Context, groupID int64) ([]*models.BetStat, error) {
	query := `
		SELECT id, group_id, user_id, points, updated_at
		FROM bet_stats
		WHERE group_id = $1
		ORDER BY points DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bet stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.BetStat
	for rows.Next() {
		stat := &models.BetStat{}
		err := rows.Scan(&stat.ID, &stat.GroupID, &stat.UserID, &stat.Points, &stat.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet stat: %w", err)
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}
