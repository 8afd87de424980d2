package scoring

import (
	"sort"

	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// rankedEntry pairs a driver with their numeric finishing position.
type rankedEntry struct {
	position int
	driver   string
}

// rankAscending extracts the numerically classified entries of a result set
// and sorts them best-first. Entries whose position does not parse are
// excluded entirely.
func rankAscending(results []models.Result) []rankedEntry {
	ranked := make([]rankedEntry, 0, len(results))
	for _, r := range results {
		pos, ok := r.NumericPosition()
		if !ok {
			continue
		}
		ranked = append(ranked, rankedEntry{position: pos, driver: r.Driver})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].position < ranked[j].position
	})

	return ranked
}

// podium returns the drivers finishing 1st..3rd, best-first. Shorter when
// fewer than three drivers are classified.
func podium(results []models.Result) []string {
	ranked := rankAscending(results)
	n := len(ranked)
	if n > 3 {
		n = 3
	}

	drivers := make([]string, 0, n)
	for _, e := range ranked[:n] {
		drivers = append(drivers, e.driver)
	}
	return drivers
}

// worstDrivers returns the classified drivers of a result set sorted
// worst-first, sliced to the half-open rank window [from, to) counted from
// the back of the field. worstDrivers(results, 0, 5) is the bottom-5 set,
// worstDrivers(results, 5, 10) the 6th-to-10th-worst set. Windows past the
// end of the field are simply shorter.
func worstDrivers(results []models.Result, from, to int) []string {
	ranked := rankAscending(results)

	// Reverse into worst-first order.
	for i, j := 0, len(ranked)-1; i < j; i, j = i+1, j-1 {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	}

	if from > len(ranked) {
		from = len(ranked)
	}
	if to > len(ranked) {
		to = len(ranked)
	}

	drivers := make([]string, 0, to-from)
	for _, e := range ranked[from:to] {
		drivers = append(drivers, e.driver)
	}
	return drivers
}

// bestFinisherFrom scans the classified finishers of a race best-first and
// returns the first driver belonging to the given set. Reports false when
// no member of the set is classified in the race.
func bestFinisherFrom(results []models.Result, set []string) (string, bool) {
	members := make(map[string]struct{}, len(set))
	for _, d := range set {
		members[d] = struct{}{}
	}

	for _, e := range rankAscending(results) {
		if _, ok := members[e.driver]; ok {
			return e.driver, true
		}
	}
	return "", false
}

// fastestLapDriver returns the driver with the lowest recorded fastest-lap
// time. Entries without a lap time are excluded; reports false when none
// recorded one.
func fastestLapDriver(results []models.Result) (string, bool) {
	bestDriver := ""
	bestTime := ""
	found := false

	for _, r := range results {
		lap, ok := models.ParseLapTime(r.FastestLap)
		if !ok {
			continue
		}
		if !found || lap < bestTime {
			bestDriver = r.Driver
			bestTime = lap
			found = true
		}
	}

	return bestDriver, found
}
