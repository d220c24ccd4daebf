// Package lifecycle advances event statuses from wall-clock time alone.
// The current time is injected so the transition logic stays a pure,
// testable function with no failure mode.
package lifecycle

import (
	"time"

	"olympics-tracker/feature/standings/models"
)

// Advance transitions events based on the given time:
//
//   - SCHEDULED or IN_PROGRESS events whose end has passed become COMPLETED
//   - SCHEDULED events inside their window become IN_PROGRESS
//
// COMPLETED never reverts, and events with a zero end time (slot still
// TBD) are left alone. Running Advance twice with the same or a later
// time produces no further change for already-settled events.
//
// Returns the IDs of events that reached COMPLETED in this pass.
func Advance(now time.Time, snap *models.Snapshot) []string {
	var completed []string
	for i := range snap.Events {
		e := &snap.Events[i]
		if e.Status == models.StatusCompleted {
			continue
		}
		if e.End.IsZero() {
			continue
		}
		if !e.End.After(now) {
			e.Status = models.StatusCompleted
			completed = append(completed, e.ID)
			continue
		}
		if e.Status == models.StatusScheduled && !e.Start.IsZero() && !e.Start.After(now) {
			e.Status = models.StatusInProgress
		}
	}
	return completed
}
