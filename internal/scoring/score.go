package scoring

import (
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// Point values for the individual scoring rules.
const (
	PointsPerPodiumHit  = 1
	PointsExactOrder    = 2
	PointsLastFiveHit   = 2
	PointsLastTenHit    = 2
	PointsFastestLapHit = 2

	// MaxPoints is the highest total a single bet can score.
	MaxPoints = models.PodiumSlots*PointsPerPodiumHit + PointsExactOrder +
		PointsLastFiveHit + PointsLastTenHit + PointsFastestLapHit
)

// Outcome is the per-rule breakdown of a scored bet.
type Outcome struct {
	PodiumHits    int  // predicted drivers present in the actual top-3 set
	ExactOrder    bool // predicted sequence equals the actual podium exactly
	LastFiveHit   bool // best recovery from the reference race's bottom-5
	LastTenHit    bool // best recovery from the reference race's 6th-10th worst
	FastestLapHit bool // actual fastest-lap holder matched
}

// Total returns the point award for the outcome. All rules are additive;
// nothing ever subtracts.
func (o Outcome) Total() int {
	total := o.PodiumHits * PointsPerPodiumHit
	if o.ExactOrder {
		total += PointsExactOrder
	}
	if o.LastFiveHit {
		total += PointsLastFiveHit
	}
	if o.LastTenHit {
		total += PointsLastTenHit
	}
	if o.FastestLapHit {
		total += PointsFastestLapHit
	}
	return total
}

// Score evaluates a bet against the results of its race and the results of
// the reference race (the chronologically preceding one). It is
// deterministic over its inputs and performs no I/O.
func Score(bet *models.Bet, evalResults, refResults []models.Result) Outcome {
	outcome := Outcome{}

	predicted := bet.PredictedPodium()
	actual := podium(evalResults)

	actualSet := make(map[string]struct{}, len(actual))
	for _, d := range actual {
		actualSet[d] = struct{}{}
	}
	for _, d := range predicted {
		if _, ok := actualSet[d]; ok {
			outcome.PodiumHits++
		}
	}
	outcome.ExactOrder = equalOrder(predicted, actual)

	bottomFive := worstDrivers(refResults, 0, 5)
	if recovered, ok := bestFinisherFrom(evalResults, bottomFive); ok {
		outcome.LastFiveHit = bet.LastFive != nil && *bet.LastFive == recovered
	}

	midFive := worstDrivers(refResults, 5, 10)
	if recovered, ok := bestFinisherFrom(evalResults, midFive); ok {
		outcome.LastTenHit = bet.LastTen != nil && *bet.LastTen == recovered
	}

	if holder, ok := fastestLapDriver(evalResults); ok {
		outcome.FastestLapHit = bet.FastestLap != nil && *bet.FastestLap == holder
	}

	return outcome
}

// equalOrder reports whether two driver sequences match position for
// position. Sequences of different length never match, so a short actual
// podium can never earn the order bonus against a full prediction.
func equalOrder(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
