package service

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	applogger "github.com/max-friebertshaeuser/F1Insight/internal/logger"
	"github.com/max-friebertshaeuser/F1Insight/internal/metrics"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
	"github.com/max-friebertshaeuser/F1Insight/internal/scoring"
)

// SweepSummary reports the outcome of a single evaluation sweep.
type SweepSummary struct {
	Candidates         int
	Evaluated          int
	SkippedNoReference int
	Failed             int
	Duration           time.Duration
}

// EvaluationService runs the bet evaluation sweep: it collects every
// unevaluated bet whose race date has passed, scores it against the race
// and its reference race, and hands the outcome to the settler.
type EvaluationService struct {
	races   repository.RaceRepository
	results repository.ResultRepository
	bets    repository.BetRepository
	settler Settler
	logger  *logrus.Logger
	audit   *applogger.AuditLogger

	// resultCache holds result sets keyed by race date so a sweep over
	// many bets for the same race weekend loads each set once.
	resultCache *cache.Cache
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(
	races repository.RaceRepository,
	results repository.ResultRepository,
	bets repository.BetRepository,
	settler Settler,
	logger *logrus.Logger,
) *EvaluationService {
	return &EvaluationService{
		races:       races,
		results:     results,
		bets:        bets,
		settler:     settler,
		logger:      logger,
		audit:       applogger.NewAuditLogger(logger),
		resultCache: cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Run executes one evaluation sweep as of the current UTC date. A bet that
// fails to score or settle is logged and skipped; the sweep itself only
// fails when the store cannot serve the candidate set or the race calendar.
func (s *EvaluationService) Run(ctx context.Context) (*SweepSummary, error) {
	start := time.Now()
	asOf := start.UTC().Truncate(24 * time.Hour)

	metrics.SweepsTotal.Inc()

	candidates, err := s.bets.GetUnevaluatedDue(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load unevaluated bets: %w", err)
	}

	calendar, err := s.loadCalendar(ctx, asOf)
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{Candidates: len(candidates)}

	s.logger.WithFields(logrus.Fields{
		"candidates": len(candidates),
		"as_of":      asOf.Format(models.RaceDateFormat),
	}).Info("Starting bet evaluation sweep")

	for _, bet := range candidates {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, err := s.evaluate(ctx, bet, calendar)
		if err == models.ErrNoReferenceRace {
			summary.SkippedNoReference++
			metrics.BetsSkippedTotal.Inc()
			s.logger.WithFields(logrus.Fields{
				"bet_id":    bet.ID,
				"race_date": bet.RaceDate.Format(models.RaceDateFormat),
			}).Info("Skipping bet, race has no predecessor")
			continue
		}
		if err != nil {
			summary.Failed++
			metrics.SettlementFailuresTotal.Inc()
			s.logger.WithError(err).WithField("bet_id", bet.ID).
				Error("Failed to evaluate bet")
			continue
		}

		if err := s.settler.Settle(ctx, bet, outcome.Total()); err != nil {
			summary.Failed++
			metrics.SettlementFailuresTotal.Inc()
			s.logger.WithError(err).WithField("bet_id", bet.ID).
				Error("Failed to settle bet")
			continue
		}

		summary.Evaluated++
		metrics.BetsEvaluatedTotal.Inc()
	}

	summary.Duration = time.Since(start)
	metrics.SweepDuration.Observe(summary.Duration.Seconds())
	metrics.LastSweepEvaluated.Set(float64(summary.Evaluated))

	s.audit.LogSweepCompleted(summary.Candidates, summary.Evaluated,
		summary.SkippedNoReference, summary.Failed, summary.Duration)

	return summary, nil
}

// evaluate scores a single bet. It returns models.ErrNoReferenceRace when
// the bet's race is the chronologically first on record.
func (s *EvaluationService) evaluate(ctx context.Context, bet *models.Bet, calendar []models.Race) (scoring.Outcome, error) {
	race, ok := findRace(calendar, bet.RaceDate)
	if !ok {
		return scoring.Outcome{}, fmt.Errorf("no race on record for %s",
			bet.RaceDate.Format(models.RaceDateFormat))
	}

	reference, ok := scoring.PreviousRace(calendar, race)
	if !ok {
		return scoring.Outcome{}, models.ErrNoReferenceRace
	}

	evalResults, err := s.resultsFor(ctx, race)
	if err != nil {
		return scoring.Outcome{}, err
	}

	refResults, err := s.resultsFor(ctx, reference)
	if err != nil {
		return scoring.Outcome{}, err
	}

	return scoring.Score(bet, evalResults, refResults), nil
}

// loadCalendar fetches all races up to the sweep date. An empty calendar
// means the race data never loaded, which makes every evaluation
// meaningless, so the sweep aborts.
func (s *EvaluationService) loadCalendar(ctx context.Context, asOf time.Time) ([]models.Race, error) {
	races, err := s.races.GetUpTo(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load race calendar: %w", err)
	}
	if len(races) == 0 {
		return nil, fmt.Errorf("no race data on record up to %s", asOf.Format(models.RaceDateFormat))
	}

	calendar := make([]models.Race, 0, len(races))
	for _, race := range races {
		calendar = append(calendar, *race)
	}
	return calendar, nil
}

// resultsFor loads a race's result set through the sweep-local cache.
func (s *EvaluationService) resultsFor(ctx context.Context, race models.Race) ([]models.Result, error) {
	key := race.DateKey()
	if cached, ok := s.resultCache.Get(key); ok {
		return cached.([]models.Result), nil
	}

	results, err := s.results.GetByRaceDate(ctx, race.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for %s: %w", key, err)
	}

	s.resultCache.Set(key, results, cache.DefaultExpiration)
	return results, nil
}

func findRace(calendar []models.Race, date time.Time) (models.Race, bool) {
	for _, race := range calendar {
		if race.Date.Equal(date) {
			return race, true
		}
	}
	return models.Race{}, false
}
