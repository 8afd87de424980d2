// Package scoring computes bet outcomes against official race results.
// All functions are pure over in-memory data; the package never touches
// a data store.
package scoring

import (
	"github.com/max-friebertshaeuser/F1Insight/internal/models"
)

// PreviousRace returns the race with the greatest date strictly before the
// target race's date. The second return value is false when the target is
// chronologically first; callers must treat that as a deferral, not an
// error.
func PreviousRace(races []models.Race, target models.Race) (models.Race, bool) {
	var best models.Race
	found := false

	for _, race := range races {
		if !race.IsBefore(&target) {
			continue
		}
		if !found || best.IsBefore(&race) {
			best = race
			found = true
		}
	}

	return best, found
}
