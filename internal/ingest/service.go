// Package ingest synchronizes reference data (seasons, circuits, drivers,
// constructors, races, classifications) from an Ergast-compatible API into
// the local store.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/max-friebertshaeuser/F1Insight/internal/metrics"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
)

// SyncService pulls reference data from the API and upserts it through the
// repositories. Every write is an upsert, so re-running a sync is safe.
type SyncService struct {
	client     *Client
	races      repository.RaceRepository
	results    repository.ResultRepository
	qualifying repository.QualifyingRepository
	reference  repository.ReferenceRepository
	logger     *logrus.Logger
}

// NewSyncService creates a new reference data sync service
func NewSyncService(
	client *Client,
	races repository.RaceRepository,
	results repository.ResultRepository,
	qualifying repository.QualifyingRepository,
	reference repository.ReferenceRepository,
	logger *logrus.Logger,
) *SyncService {
	return &SyncService{
		client:     client,
		races:      races,
		results:    results,
		qualifying: qualifying,
		reference:  reference,
		logger:     logger,
	}
}

// SyncAll performs a full historical load: every season, circuit, driver,
// constructor, race and classification the API knows about.
func (s *SyncService) SyncAll(ctx context.Context) error {
	if err := s.syncSeasonsAndCircuits(ctx); err != nil {
		return err
	}
	return s.syncSeasonScoped(ctx, "")
}

// SyncLatest refreshes the base tables and then resyncs only the most
// recent season on record. This is the cheap incremental path the
// scheduler runs between race weekends.
func (s *SyncService) SyncLatest(ctx context.Context) error {
	if err := s.syncSeasonsAndCircuits(ctx); err != nil {
		return err
	}

	latest, err := s.reference.GetLatestSeason(ctx)
	if err == models.ErrNotFound {
		return s.syncSeasonScoped(ctx, "")
	}
	if err != nil {
		return fmt.Errorf("failed to determine latest season: %w", err)
	}

	return s.syncSeasonScoped(ctx, latest.Season)
}

// SyncSeason synchronizes a single season's data.
func (s *SyncService) SyncSeason(ctx context.Context, season string) error {
	if err := s.syncSeasonsAndCircuits(ctx); err != nil {
		return err
	}
	return s.syncSeasonScoped(ctx, season)
}

func (s *SyncService) syncSeasonsAndCircuits(ctx context.Context) error {
	seasons, err := s.client.Seasons(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch seasons: %w", err)
	}
	for _, season := range seasons {
		if err := s.reference.UpsertSeason(ctx, &models.Season{Season: season.Season}); err != nil {
			return fmt.Errorf("failed to store season %s: %w", season.Season, err)
		}
	}
	s.logger.WithField("count", len(seasons)).Info("Seasons synchronized")

	circuits, err := s.client.Circuits(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch circuits: %w", err)
	}
	for _, c := range circuits {
		circuit := &models.Circuit{
			Circuit:  c.CircuitID,
			Name:     c.CircuitName,
			Location: c.Location.Locality,
			Country:  c.Location.Country,
		}
		if err := s.reference.UpsertCircuit(ctx, circuit); err != nil {
			return fmt.Errorf("failed to store circuit %s: %w", c.CircuitID, err)
		}
	}
	s.logger.WithField("count", len(circuits)).Info("Circuits synchronized")

	return nil
}

// syncSeasonScoped loads drivers, constructors, races, results and
// qualifying for one season, or everything when season is empty.
func (s *SyncService) syncSeasonScoped(ctx context.Context, season string) error {
	if err := s.syncDrivers(ctx, season); err != nil {
		return err
	}
	if err := s.syncConstructors(ctx, season); err != nil {
		return err
	}
	if err := s.syncRaces(ctx, season); err != nil {
		return err
	}
	if err := s.syncResults(ctx, season); err != nil {
		return err
	}
	return s.syncQualifying(ctx, season)
}

func (s *SyncService) syncDrivers(ctx context.Context, season string) error {
	drivers, err := s.client.Drivers(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to fetch drivers: %w", err)
	}

	for _, d := range drivers {
		driver := &models.Driver{
			Driver:      d.DriverID,
			Number:      d.PermanentNumber,
			Forename:    d.GivenName,
			Surname:     d.FamilyName,
			Nationality: d.Nationality,
		}
		if dob, err := time.Parse(models.RaceDateFormat, d.DateOfBirth); err == nil {
			driver.DOB = &dob
		}
		if err := s.reference.UpsertDriver(ctx, driver); err != nil {
			return fmt.Errorf("failed to store driver %s: %w", d.DriverID, err)
		}
	}

	s.logger.WithField("count", len(drivers)).Info("Drivers synchronized")
	return nil
}

func (s *SyncService) syncConstructors(ctx context.Context, season string) error {
	constructors, err := s.client.Constructors(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to fetch constructors: %w", err)
	}

	for _, c := range constructors {
		constructor := &models.Constructor{
			Constructor: c.ConstructorID,
			Name:        c.Name,
			Nationality: c.Nationality,
		}
		if err := s.reference.UpsertConstructor(ctx, constructor); err != nil {
			return fmt.Errorf("failed to store constructor %s: %w", c.ConstructorID, err)
		}
	}

	s.logger.WithField("count", len(constructors)).Info("Constructors synchronized")
	return nil
}

func (s *SyncService) syncRaces(ctx context.Context, season string) error {
	races, err := s.client.Races(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to fetch races: %w", err)
	}

	stored := 0
	for _, r := range races {
		date, err := time.Parse(models.RaceDateFormat, r.Date)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"season": r.Season,
				"round":  r.Round,
				"date":   r.Date,
			}).Warn("Skipping race with unparseable date")
			continue
		}

		race := &models.Race{
			Date:    date,
			Season:  r.Season,
			Circuit: r.Circuit.CircuitID,
			Round:   r.Round,
		}
		if err := s.races.Upsert(ctx, race); err != nil {
			return fmt.Errorf("failed to store race %s: %w", r.Date, err)
		}
		stored++
		metrics.RacesIngestedTotal.Inc()
	}

	s.logger.WithField("count", stored).Info("Races synchronized")
	return nil
}

func (s *SyncService) syncResults(ctx context.Context, season string) error {
	races, err := s.client.Results(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to fetch results: %w", err)
	}

	for _, r := range races {
		date, err := time.Parse(models.RaceDateFormat, r.Date)
		if err != nil {
			continue
		}

		results := make([]*models.Result, 0, len(r.Results))
		for _, res := range r.Results {
			results = append(results, &models.Result{
				RaceDate:     date,
				Driver:       res.Driver.DriverID,
				Constructor:  res.Constructor.ConstructorID,
				Number:       res.Number,
				Grid:         res.Grid,
				Position:     res.Position,
				PositionText: res.PositionText,
				Points:       res.Points,
				Laps:         res.Laps,
				Time:         res.raceTime(),
				FastestLap:   res.fastestLapTime(),
				Status:       res.Status,
			})

			team := &models.DriverTeam{
				Season:             r.Season,
				Driver:             res.Driver.DriverID,
				Constructor:        res.Constructor.ConstructorID,
				DriverSeasonNumber: res.Number,
			}
			if err := s.reference.UpsertDriverTeam(ctx, team); err != nil {
				return fmt.Errorf("failed to store season line-up: %w", err)
			}
		}

		if err := s.results.UpsertBatch(ctx, results); err != nil {
			return fmt.Errorf("failed to store results for %s: %w", r.Date, err)
		}
	}

	s.logger.WithField("races", len(races)).Info("Race results synchronized")
	return nil
}

func (s *SyncService) syncQualifying(ctx context.Context, season string) error {
	races, err := s.client.Qualifying(ctx, season)
	if err != nil {
		return fmt.Errorf("failed to fetch qualifying: %w", err)
	}

	for _, r := range races {
		date, err := time.Parse(models.RaceDateFormat, r.Date)
		if err != nil {
			continue
		}

		results := make([]*models.QualifyingResult, 0, len(r.QualifyingResults))
		for _, q := range r.QualifyingResults {
			results = append(results, &models.QualifyingResult{
				RaceDate: date,
				Driver:   q.Driver.DriverID,
				Position: q.Position,
				Q1:       q.Q1,
				Q2:       q.Q2,
				Q3:       q.Q3,
			})
		}

		if err := s.qualifying.UpsertBatch(ctx, results); err != nil {
			return fmt.Errorf("failed to store qualifying for %s: %w", r.Date, err)
		}
	}

	s.logger.WithField("races", len(races)).Info("Qualifying results synchronized")
	return nil
}
