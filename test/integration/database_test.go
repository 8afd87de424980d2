//go:build integration

package integration

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/max-friebertshaeuser/F1Insight/internal/database"
	applogger "github.com/max-friebertshaeuser/F1Insight/internal/logger"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
	"github.com/max-friebertshaeuser/F1Insight/internal/repository"
	"github.com/max-friebertshaeuser/F1Insight/internal/service"
)

const skipIntegration = "Skipping integration test in short mode"

var testDrivers = []string{"verstappen", "norris", "leclerc", "hamilton", "russell", "piastri"}

func date(day int) time.Time {
	return time.Date(2025, 5, day, 0, 0, 0, 0, time.UTC)
}

// seedReferenceData inserts the season, circuit, drivers and two races every
// bet-related test needs.
func seedReferenceData(t *testing.T, ctx context.Context, repos *repository.Repositories) {
	t.Helper()

	require.NoError(t, repos.Reference.UpsertSeason(ctx, &models.Season{Season: "2025"}))
	require.NoError(t, repos.Reference.UpsertCircuit(ctx, &models.Circuit{
		Circuit: "imola", Name: "Autodromo Enzo e Dino Ferrari", Country: "Italy",
	}))

	for _, d := range testDrivers {
		require.NoError(t, repos.Reference.UpsertDriver(ctx, &models.Driver{Driver: d}))
	}

	for _, day := range []int{4, 11} {
		require.NoError(t, repos.Race.Upsert(ctx, &models.Race{
			Date: date(day), Season: "2025", Circuit: "imola",
		}))
	}
}

func seedResults(t *testing.T, ctx context.Context, repos *repository.Repositories, day int) {
	t.Helper()

	require.NoError(t, repos.Reference.UpsertConstructor(ctx, &models.Constructor{Constructor: "mclaren"}))

	results := make([]*models.Result, 0, len(testDrivers))
	for i, d := range testDrivers {
		results = append(results, &models.Result{
			RaceDate:    date(day),
			Driver:      d,
			Constructor: "mclaren",
			Position:    strconv.Itoa(i + 1),
		})
	}
	require.NoError(t, repos.Result.UpsertBatch(ctx, results))
}

func TestRepositoryRoundTrips(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	seedReferenceData(t, ctx, repos)

	t.Run("RaceRepository", func(t *testing.T) {
		race, err := repos.Race.GetByDate(ctx, date(11))
		require.NoError(t, err)
		assert.Equal(t, "2025", race.Season)

		previous, err := repos.Race.GetPrevious(ctx, date(11))
		require.NoError(t, err)
		assert.Equal(t, date(4), previous.Date)

		_, err = repos.Race.GetPrevious(ctx, date(4))
		assert.ErrorIs(t, err, models.ErrNotFound)

		upTo, err := repos.Race.GetUpTo(ctx, date(30))
		require.NoError(t, err)
		assert.Len(t, upTo, 2)
	})

	t.Run("ResultRepository", func(t *testing.T) {
		seedResults(t, ctx, repos, 4)

		results, err := repos.Result.GetByRaceDate(ctx, date(4))
		require.NoError(t, err)
		assert.Len(t, results, len(testDrivers))

		// Upserting again must not duplicate rows.
		seedResults(t, ctx, repos, 4)
		results, err = repos.Result.GetByRaceDate(ctx, date(4))
		require.NoError(t, err)
		assert.Len(t, results, len(testDrivers))
	})

	t.Run("GroupAndBetRepository", func(t *testing.T) {
		owner := uuid.New()
		group := &models.Group{Name: "paddock-club", OwnerID: owner}
		require.NoError(t, repos.Group.Create(ctx, group))
		assert.NotZero(t, group.ID)

		assert.ErrorIs(t, repos.Group.Create(ctx, &models.Group{Name: "paddock-club", OwnerID: owner}),
			models.ErrDuplicateKey)

		bet := &models.Bet{
			ID:       uuid.New(),
			UserID:   owner,
			GroupID:  group.ID,
			RaceDate: date(11),
			TopThree: []models.PodiumPick{
				{Position: 1, Driver: "verstappen"},
				{Position: 2, Driver: "norris"},
				{Position: 3, Driver: "leclerc"},
			},
		}
		require.NoError(t, repos.Bet.Create(ctx, bet))

		loaded, err := repos.Bet.GetByID(ctx, bet.ID)
		require.NoError(t, err)
		assert.Len(t, loaded.TopThree, 3)
		assert.False(t, loaded.Evaluated)

		exists, err := repos.Bet.ExistsForUserAndRace(ctx, owner, date(11))
		require.NoError(t, err)
		assert.True(t, exists)

		due, err := repos.Bet.GetUnevaluatedDue(ctx, date(30))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, bet.ID, due[0].ID)
	})
}

func TestSettlementIsAtomicAndExactlyOnce(t *testing.T) {
	if testing.Short() {
		t.Skip(skipIntegration)
	}

	ctx := context.Background()
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)

	seedReferenceData(t, ctx, repos)

	owner := uuid.New()
	group := &models.Group{Name: "points-ledger", OwnerID: owner}
	require.NoError(t, repos.Group.Create(ctx, group))

	bet := &models.Bet{
		ID:       uuid.New(),
		UserID:   owner,
		GroupID:  group.ID,
		RaceDate: date(11),
		TopThree: []models.PodiumPick{
			{Position: 1, Driver: "verstappen"},
			{Position: 2, Driver: "norris"},
			{Position: 3, Driver: "leclerc"},
		},
	}
	require.NoError(t, repos.Bet.Create(ctx, bet))

	log := applogger.NewLogger("error", "test")
	settler := service.NewSettlementService(db, repos.Bet, repos.BetStat, log)

	require.NoError(t, settler.Settle(ctx, bet, 5))
	assert.True(t, bet.Evaluated)

	stats, err := repos.BetStat.GetByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 5, stats[0].Points)

	// A second settlement of the same bet must not double-credit.
	err = settler.Settle(ctx, bet, 5)
	assert.ErrorIs(t, err, models.ErrAlreadyEvaluated)

	reloaded, err := repos.Bet.GetByID(ctx, bet.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Evaluated)
	assert.Equal(t, 5, reloaded.PointsAwarded)

	stats, err = repos.BetStat.GetByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 5, stats[0].Points)
}
