package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/max-friebertshaeuser/F1Insight/internal/logger"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// MockRaceRepository mocks race repository
type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) Upsert(ctx context.Context, race *models.Race) error {
	args := m.Called(ctx, race)
	return args.Error(0)
}

func (m *MockRaceRepository) GetByDate(ctx context.Context, date time.Time) (*models.Race, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetPrevious(ctx context.Context, date time.Time) (*models.Race, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetUpTo(ctx context.Context, date time.Time) ([]*models.Race, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Race), args.Error(1)
}

// MockResultRepository mocks result repository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) UpsertBatch(ctx context.Context, results []*models.Result) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockResultRepository) GetByRaceDate(ctx context.Context, date time.Time) ([]models.Result, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Result), args.Error(1)
}

// MockBetRepository mocks bet repository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetUnevaluatedDue(ctx context.Context, asOf time.Time) ([]*models.Bet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) ExistsForUserAndRace(ctx context.Context, userID uuid.UUID, raceDate time.Time) (bool, error) {
	args := m.Called(ctx, userID, raceDate)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) MarkEvaluatedTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, points int) error {
	args := m.Called(ctx, tx, id, points)
	return args.Error(0)
}

// MockSettler mocks the settlement writer
type MockSettler struct {
	mock.Mock
}

func (m *MockSettler) Settle(ctx context.Context, bet *models.Bet, points int) error {
	args := m.Called(ctx, bet, points)
	return args.Error(0)
}

func testDate(day int) time.Time {
	return time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
}

func testRace(day int) *models.Race {
	return &models.Race{Date: testDate(day), Season: "2025", Circuit: "test_circuit"}
}

func testBet(day int) *models.Bet {
	return &models.Bet{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		GroupID:  1,
		RaceDate: testDate(day),
		TopThree: []models.PodiumPick{
			{Position: 1, Driver: "verstappen"},
			{Position: 2, Driver: "norris"},
			{Position: 3, Driver: "leclerc"},
		},
	}
}

func testResults(day int, drivers ...string) []models.Result {
	results := make([]models.Result, 0, len(drivers))
	for i, d := range drivers {
		results = append(results, models.Result{
			RaceDate: testDate(day),
			Driver:   d,
			Position: strconv.Itoa(i + 1),
		})
	}
	return results
}

func newTestEvaluator(races *MockRaceRepository, results *MockResultRepository, bets *MockBetRepository, settler *MockSettler) *EvaluationService {
	log := logger.NewLogger("error", "test")
	return NewEvaluationService(races, results, bets, settler, log)
}

func TestSweepEvaluatesDueBets(t *testing.T) {
	races := new(MockRaceRepository)
	results := new(MockResultRepository)
	bets := new(MockBetRepository)
	settler := new(MockSettler)

	bet := testBet(8)
	bets.On("GetUnevaluatedDue", mock.Anything, mock.Anything).Return([]*models.Bet{bet}, nil)
	races.On("GetUpTo", mock.Anything, mock.Anything).Return([]*models.Race{testRace(1), testRace(8)}, nil)
	results.On("GetByRaceDate", mock.Anything, testDate(8)).
		Return(testResults(8, "verstappen", "norris", "leclerc", "hamilton", "russell"), nil)
	results.On("GetByRaceDate", mock.Anything, testDate(1)).
		Return(testResults(1, "hamilton", "russell", "piastri", "alonso", "sainz"), nil)
	// Exact podium match scores 3 set hits plus the order bonus.
	settler.On("Settle", mock.Anything, bet, 5).Return(nil)

	svc := newTestEvaluator(races, results, bets, settler)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Candidates)
	assert.Equal(t, 1, summary.Evaluated)
	assert.Equal(t, 0, summary.SkippedNoReference)
	assert.Equal(t, 0, summary.Failed)
	settler.AssertExpectations(t)
}

func TestSweepSkipsFirstRaceOnRecord(t *testing.T) {
	races := new(MockRaceRepository)
	results := new(MockResultRepository)
	bets := new(MockBetRepository)
	settler := new(MockSettler)

	bet := testBet(1)
	bets.On("GetUnevaluatedDue", mock.Anything, mock.Anything).Return([]*models.Bet{bet}, nil)
	races.On("GetUpTo", mock.Anything, mock.Anything).Return([]*models.Race{testRace(1), testRace(8)}, nil)

	svc := newTestEvaluator(races, results, bets, settler)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Evaluated)
	assert.Equal(t, 1, summary.SkippedNoReference)
	settler.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepFailsWhenBetStoreUnavailable(t *testing.T) {
	races := new(MockRaceRepository)
	results := new(MockResultRepository)
	bets := new(MockBetRepository)
	settler := new(MockSettler)

	bets.On("GetUnevaluatedDue", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	svc := newTestEvaluator(races, results, bets, settler)
	summary, err := svc.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, summary)
}

func TestSweepFailsWithoutRaceData(t *testing.T) {
	races := new(MockRaceRepository)
	results := new(MockResultRepository)
	bets := new(MockBetRepository)
	settler := new(MockSettler)

	bets.On("GetUnevaluatedDue", mock.Anything, mock.Anything).Return([]*models.Bet{testBet(8)}, nil)
	races.On("GetUpTo", mock.Anything, mock.Anything).Return([]*models.Race{}, nil)

	svc := newTestEvaluator(races, results, bets, settler)
	_, err := svc.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no race data")
}

func TestSweepContinuesPastSettlementFailure(t *testing.T) {
	races := new(MockRaceRepository)
	results := new(MockResultRepository)
	bets := new(MockBetRepository)
	settler := new(MockSettler)

	failing := testBet(8)
	healthy := testBet(8)
	bets.On("GetUnevaluatedDue", mock.Anything, mock.Anything).
		Return([]*models.Bet{failing, healthy}, nil)
	races.On("GetUpTo", mock.Anything, mock.Anything).Return([]*models.Race{testRace(1), testRace(8)}, nil)
	results.On("GetByRaceDate", mock.Anything, mock.Anything).
		Return(testResults(8, "verstappen", "norris", "leclerc"), nil)
	settler.On("Settle", mock.Anything, failing, mock.Anything).Return(errors.New("deadlock")).Once()
	settler.On("Settle", mock.Anything, healthy, mock.Anything).Return(nil).Once()

	svc := newTestEvaluator(races, results, bets, settler)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Evaluated)
	assert.Equal(t, 1, summary.Failed)
}

func TestSweepCachesResultSetsAcrossBets(t *testing.T) {
	races := new(MockRaceRepository)
	results := new(MockResultRepository)
	bets := new(MockBetRepository)
	settler := new(MockSettler)

	first := testBet(8)
	second := testBet(8)
	bets.On("GetUnevaluatedDue", mock.Anything, mock.Anything).
		Return([]*models.Bet{first, second}, nil)
	races.On("GetUpTo", mock.Anything, mock.Anything).Return([]*models.Race{testRace(1), testRace(8)}, nil)
	results.On("GetByRaceDate", mock.Anything, testDate(8)).
		Return(testResults(8, "verstappen", "norris", "leclerc"), nil).Once()
	results.On("GetByRaceDate", mock.Anything, testDate(1)).
		Return(testResults(1, "hamilton", "russell"), nil).Once()
	settler.On("Settle", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestEvaluator(races, results, bets, settler)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Evaluated)
	results.AssertExpectations(t)
}
