package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	applogger "github.com/max-friebertshaeuser/F1Insight/internal/logger"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
)

// Settler persists a computed bet outcome.
type Settler interface {
	Settle(ctx context.Context, bet *models.Bet, points int) error
}

// TxRunner runs a function inside a database transaction. Satisfied by
// *database.DB.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// SettlementService atomically credits a bet's points to the user's group
// ledger and latches the bet as evaluated.
type SettlementService struct {
	db     TxRunner
	bets   repository.BetRepository
	stats  repository.BetStatRepository
	logger *logrus.Logger
	audit  *applogger.AuditLogger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	db TxRunner,
	bets repository.BetRepository,
	stats repository.BetStatRepository,
	logger *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		db:     db,
		bets:   bets,
		stats:  stats,
		logger: logger,
		audit:  applogger.NewAuditLogger(logger),
	}
}

// Settle performs the settlement in one transaction: load-or-create the
// BetStat ledger row under a row lock, add the points, latch the bet. All
// three mutations commit together or not at all, so a retry after partial
// failure can never double-count.
func (s *SettlementService) Settle(ctx context.Context, bet *models.Bet, points int) error {
	if bet.Evaluated {
		return models.ErrAlreadyEvaluated
	}

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		stat, err := s.stats.GetOrCreateTx(ctx, tx, bet.GroupID, bet.UserID)
		if err != nil {
			return fmt.Errorf("failed to load ledger: %w", err)
		}

		if err := s.stats.AddPointsTx(ctx, tx, stat.ID, points); err != nil {
			return fmt.Errorf("failed to credit points: %w", err)
		}

		return s.bets.MarkEvaluatedTx(ctx, tx, bet.ID, points)
	})
	if err != nil {
		return err
	}

	bet.Evaluated = true
	bet.PointsAwarded = points

	s.audit.LogBetSettlement(bet.ID, bet.UserID, bet.GroupID, bet.RaceDate, points)

	return nil
}
