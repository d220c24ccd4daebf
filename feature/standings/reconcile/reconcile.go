// Package reconcile merges freshly fetched standings into the dataset
// under field-specific overwrite rules: the medal tally is authoritative
// and replaced wholesale, event results only fill gaps, and curated
// projections survive unless the source observed something strictly newer.
package reconcile

import (
	"errors"
	"fmt"

	"olympics-tracker/feature/standings/models"
)

// ErrValidation means the fetched standings failed structural validation
// and were rejected without touching the snapshot.
var ErrValidation = errors.New("fetched standings rejected")

// Apply merges fetched standings into the snapshot in place. Validation
// runs first; on error the snapshot is left untouched.
//
// Merge policy:
//   - Medal tally: replaced wholesale per country (authoritative source),
//     re-sorted and re-ranked.
//   - Event results: set only where the fetch supplies a non-empty result
//     for a known event. An event that is COMPLETED and already carries a
//     result is never overwritten.
//   - Projections: an incoming entry replaces the stored one only when its
//     observation time is strictly newer; unmatched incoming entries for
//     known events are added.
//   - Events-completed counter: adopted when the source reported one.
//   - Provenance and last-updated reflect this fetch.
func Apply(snap *models.Snapshot, fetched *models.Standings) error {
	if err := models.ValidateTally(fetched.Medals); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	medals := make([]models.MedalEntry, len(fetched.Medals))
	copy(medals, fetched.Medals)
	models.RankTally(medals)
	snap.Medals = medals

	for id, result := range fetched.Results {
		if result == "" {
			continue
		}
		e := snap.FindEvent(id)
		if e == nil {
			continue
		}
		if e.Status == models.StatusCompleted && e.Result != "" {
			continue
		}
		e.Result = result
	}

	for _, in := range fetched.Projections {
		matched := false
		for i := range snap.Projections {
			cur := &snap.Projections[i]
			if cur.Athlete != in.Athlete || cur.EventID != in.EventID {
				continue
			}
			matched = true
			if in.ObservedAt.After(cur.ObservedAt) {
				*cur = in
			}
		}
		if !matched && (in.EventID == "" || snap.FindEvent(in.EventID) != nil) {
			snap.Projections = append(snap.Projections, in)
		}
	}

	if fetched.EventsCompleted >= 0 {
		snap.EventsCompleted = fetched.EventsCompleted
	}

	snap.Provenance = fetched.Source
	snap.LastUpdated = fetched.FetchedAt
	return nil
}
