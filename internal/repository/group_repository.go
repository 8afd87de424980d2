package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PostgresGroupRepository implements GroupRepository for PostgreSQL
type PostgresGroupRepository struct {
	db *database.DB
}

// NewPostgresGroupRepository creates a new group repository
func NewPostgresGroupRepository(db *database.DB) GroupRepository {
	return &PostgresGroupRepository{db: db}
}

// Create inserts a new betting group and enrolls the owner as a member
func (r *PostgresGroupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO groups (name, owner_id)
			VALUES ($1, $2)
			RETURNING id, created_at
		`

		err := tx.QueryRow(ctx, query, group.Name, group.OwnerID).Scan(&group.ID, &group.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return models.ErrDuplicateKey
			}
			return fmt.Errorf("failed to create group: %w", err)
		}

		memberQuery := `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`
		if _, err := tx.Exec(ctx, memberQuery, group.ID, group.OwnerID); err != nil {
			return fmt.Errorf("failed to enroll group owner: %w", err)
		}

		return nil
	})
}

// GetByName retrieves a group by its unique name
func (r *PostgresGroupRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	query := `SELECT id, name, owner_id, created_at FROM groups WHERE name = $1`

	group := &models.Group{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(
		&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// AddMember enrolls a user into a group; joining twice is a no-op
func (r *PostgresGroupRepository) AddMember(ctx context.Context, groupID int64, userID uuid.UUID) error {
	query := `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`

	if _, err := r.db.GetPool().Exec(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}

	return nil
}
