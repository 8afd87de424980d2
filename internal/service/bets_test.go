package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/max-friebertshaeuser/F1Insight/internal/logger"
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

func newTestBetService(bets *MockBetRepository, races *MockRaceRepository) *BetService {
	log := logger.NewLogger("error", "test")
	return NewBetService(bets, races, log)
}

func TestSubmitBetStoresValidBet(t *testing.T) {
	bets := new(MockBetRepository)
	races := new(MockRaceRepository)
	bet := testBet(8)

	races.On("GetByDate", mock.Anything, bet.RaceDate).Return(testRace(8), nil)
	bets.On("ExistsForUserAndRace", mock.Anything, bet.UserID, bet.RaceDate).Return(false, nil)
	bets.On("Create", mock.Anything, bet).Return(nil)

	svc := newTestBetService(bets, races)
	err := svc.SubmitBet(context.Background(), bet)

	require.NoError(t, err)
	bets.AssertExpectations(t)
}

func TestSubmitBetRejectsDuplicate(t *testing.T) {
	bets := new(MockBetRepository)
	races := new(MockRaceRepository)
	bet := testBet(8)

	races.On("GetByDate", mock.Anything, bet.RaceDate).Return(testRace(8), nil)
	bets.On("ExistsForUserAndRace", mock.Anything, bet.UserID, bet.RaceDate).Return(true, nil)

	svc := newTestBetService(bets, races)
	err := svc.SubmitBet(context.Background(), bet)

	assert.ErrorIs(t, err, models.ErrDuplicateBet)
	bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitBetRejectsUnknownRace(t *testing.T) {
	bets := new(MockBetRepository)
	races := new(MockRaceRepository)
	bet := testBet(8)

	races.On("GetByDate", mock.Anything, bet.RaceDate).Return(nil, models.ErrNotFound)

	svc := newTestBetService(bets, races)
	err := svc.SubmitBet(context.Background(), bet)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no race on")
}

func TestSubmitBetRejectsMalformedPodium(t *testing.T) {
	tests := []struct {
		name  string
		picks []models.PodiumPick
	}{
		{
			name: "duplicate position",
			picks: []models.PodiumPick{
				{Position: 1, Driver: "verstappen"},
				{Position: 1, Driver: "norris"},
				{Position: 3, Driver: "leclerc"},
			},
		},
		{
			name: "duplicate driver",
			picks: []models.PodiumPick{
				{Position: 1, Driver: "verstappen"},
				{Position: 2, Driver: "verstappen"},
				{Position: 3, Driver: "leclerc"},
			},
		},
		{
			name: "too few picks",
			picks: []models.PodiumPick{
				{Position: 1, Driver: "verstappen"},
				{Position: 2, Driver: "norris"},
			},
		},
		{
			name:  "no picks",
			picks: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bets := new(MockBetRepository)
			races := new(MockRaceRepository)
			bet := testBet(8)
			bet.TopThree = tt.picks

			svc := newTestBetService(bets, races)
			err := svc.SubmitBet(context.Background(), bet)

			require.Error(t, err)
			bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}
