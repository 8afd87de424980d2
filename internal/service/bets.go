package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/max-friebertshaeuser/F1Insight/internal/models"
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
)

// BetService handles bet submission for betting groups.
type BetService struct {
	bets     repository.BetRepository
	races    repository.RaceRepository
	validate *validator.Validate
	logger   *logrus.Logger
}

// NewBetService creates a new bet service
func NewBetService(
	bets repository.BetRepository,
	races repository.RaceRepository,
	logger *logrus.Logger,
) *BetService {
	return &BetService{
		bets:     bets,
		races:    races,
		validate: validator.New(),
		logger:   logger,
	}
}

// SubmitBet validates and stores a new bet. The prediction must carry
// exactly three distinct podium picks on positions 1 to 3, the race must
// exist, and the user must not already hold a bet for it.
func (s *BetService) SubmitBet(ctx context.Context, bet *models.Bet) error {
	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}

	if err := s.validate.Struct(bet); err != nil {
		return fmt.Errorf("invalid bet: %w", err)
	}
	if err := validatePodium(bet.TopThree); err != nil {
		return err
	}

	if _, err := s.races.GetByDate(ctx, bet.RaceDate); err != nil {
		if err == models.ErrNotFound {
			return fmt.Errorf("no race on %s", bet.RaceDate.Format(models.RaceDateFormat))
		}
		return fmt.Errorf("failed to look up race: %w", err)
	}

	exists, err := s.bets.ExistsForUserAndRace(ctx, bet.UserID, bet.RaceDate)
	if err != nil {
		return fmt.Errorf("failed to check existing bets: %w", err)
	}
	if exists {
		return models.ErrDuplicateBet
	}

	if err := s.bets.Create(ctx, bet); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"bet_id":    bet.ID,
		"user_id":   bet.UserID,
		"race_date": bet.RaceDate.Format(models.RaceDateFormat),
	}).Info("Bet submitted")

	return nil
}

// validatePodium checks that each slot 1..3 is filled exactly once and
// that no driver appears in two slots.
func validatePodium(picks []models.PodiumPick) error {
	if len(picks) != models.PodiumSlots {
		return fmt.Errorf("expected %d podium picks, got %d", models.PodiumSlots, len(picks))
	}

	slots := make(map[int]struct{}, len(picks))
	drivers := make(map[string]struct{}, len(picks))
	for _, pick := range picks {
		if _, dup := slots[pick.Position]; dup {
			return fmt.Errorf("duplicate podium position %d", pick.Position)
		}
		slots[pick.Position] = struct{}{}

		if _, dup := drivers[pick.Driver]; dup {
			return fmt.Errorf("driver %s picked twice", pick.Driver)
		}
		drivers[pick.Driver] = struct{}{}
	}

	return nil
}
