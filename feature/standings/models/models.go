package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
)

// EventStatus is the lifecycle state of a scheduled event.
// Transitions are monotonic: Scheduled -> InProgress -> Completed.
type EventStatus string

const (
	StatusScheduled  EventStatus = "SCHEDULED"
	StatusInProgress EventStatus = "IN_PROGRESS"
	StatusCompleted  EventStatus = "COMPLETED"
)

// Provenance identifies which source produced the stored standings data.
type Provenance string

const (
	// ProvenancePrimary means the last successful update came from the scraped source.
	ProvenancePrimary Provenance = "PRIMARY"
	// ProvenanceFallback means the last successful update came from the lookup service.
	ProvenanceFallback Provenance = "FALLBACK"
	// ProvenanceNone means the last refresh cycle obtained no fresh standings.
	ProvenanceNone Provenance = "NONE"
)

// Event is a single scheduled competition entry.
type Event struct {
	// ID is the stable schedule identifier, e.g. "alp-w-slalom".
	ID string `json:"id"`
	// Title is the display name shown on the page.
	Title string `json:"title"`
	// Discipline groups events, e.g. "alpine", "hockey".
	Discipline string `json:"discipline"`
	// Start and End bound the scheduled competition window.
	// A zero End means the slot is still TBD and is never auto-completed.
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// Status is the lifecycle state; Completed never reverts.
	Status EventStatus `json:"status"`
	// Result is the outcome payload once known, e.g. "🥇 SHIFFRIN (USA)".
	Result string `json:"result,omitempty"`
	// WikiSlug is the URL fragment of the event's Wikipedia article,
	// used by the primary adapter to scrape results for completed events.
	WikiSlug string `json:"wiki_slug,omitempty"`
	// Opponent marks a tournament game (hockey, curling): the opposing
	// country's name. Its result is a score against the focus country,
	// e.g. "USA wins 5-0", not a gold medalist.
	Opponent string `json:"opponent,omitempty"`
}

// MedalEntry is one country's row in the medal tally.
type MedalEntry struct {
	Country string `json:"country"`
	// Code is the IOC 3-letter country code.
	Code   string `json:"code"`
	Flag   string `json:"flag,omitempty"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Total  int    `json:"total"`
	Rank   int    `json:"rank"`
}

// AthleteProjection is a curated note about an athlete's chances in an event.
// Automated fetches may replace it only with a strictly newer observation.
type AthleteProjection struct {
	Athlete    string    `json:"athlete"`
	EventID    string    `json:"event_id"`
	Note       string    `json:"note"`
	ObservedAt time.Time `json:"observed_at"`
}

// MedalForecast is the curated projected medal range for the focus country.
// It is never written by automated fetches.
type MedalForecast struct {
	GoldLow   int `json:"projected_gold_low"`
	GoldMid   int `json:"projected_gold_mid"`
	GoldHigh  int `json:"projected_gold_high"`
	TotalLow  int `json:"projected_total_low"`
	TotalMid  int `json:"projected_total_mid"`
	TotalHigh int `json:"projected_total_high"`
}

// Snapshot is the complete persisted dataset. It is owned by the store;
// refresh cycles mutate a working copy and replace it atomically.
type Snapshot struct {
	Events      []Event             `json:"events"`
	Medals      []MedalEntry        `json:"medal_table"`
	Projections []AthleteProjection `json:"athlete_projections"`
	Forecast    MedalForecast       `json:"forecast"`

	// EventsCompleted/EventsTotal mirror the official completed-events counter.
	EventsCompleted int `json:"events_completed"`
	EventsTotal     int `json:"events_total"`

	// LastUpdated is the time of the last successful standings fetch.
	LastUpdated time.Time `json:"last_updated"`
	// LastChecked advances on every refresh cycle, fresh or stale.
	LastChecked time.Time `json:"last_checked"`
	// Provenance names the source of the most recent successful update.
	Provenance Provenance `json:"provenance"`
}

// Standings is the canonical shape both source adapters produce.
type Standings struct {
	Medals []MedalEntry
	// Results maps event IDs to newly observed result payloads.
	Results map[string]string
	// Projections carries source-supplied projection updates, if any.
	Projections []AthleteProjection
	// EventsCompleted is the official counter, or -1 when unreported.
	EventsCompleted int
	FetchedAt       time.Time
	Source          Provenance
}

// ErrInvalidTally flags a medal tally that fails structural validation.
var ErrInvalidTally = errors.New("invalid medal tally")

// Validate checks a single tally entry: counts non-negative, total consistent.
func (m MedalEntry) Validate() error {
	if m.Code == "" {
		return fmt.Errorf("%w: entry %q has no country code", ErrInvalidTally, m.Country)
	}
	if m.Gold < 0 || m.Silver < 0 || m.Bronze < 0 {
		return fmt.Errorf("%w: %s has negative counts (%d/%d/%d)", ErrInvalidTally, m.Code, m.Gold, m.Silver, m.Bronze)
	}
	if m.Gold+m.Silver+m.Bronze != m.Total {
		return fmt.Errorf("%w: %s total %d != %d+%d+%d", ErrInvalidTally, m.Code, m.Total, m.Gold, m.Silver, m.Bronze)
	}
	return nil
}

// ValidateTally checks every entry and rejects duplicate country codes.
// The check is all-or-nothing: one bad entry fails the whole collection.
func ValidateTally(entries []MedalEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, m := range entries {
		if err := m.Validate(); err != nil {
			return err
		}
		if _, dup := seen[m.Code]; dup {
			return fmt.Errorf("%w: duplicate entry for %s", ErrInvalidTally, m.Code)
		}
		seen[m.Code] = struct{}{}
	}
	return nil
}

// RankTally sorts entries by gold, then silver, then bronze descending
// (code as the final tie-break for determinism) and assigns ranks.
func RankTally(entries []MedalEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Silver != b.Silver {
			return a.Silver > b.Silver
		}
		if a.Bronze != b.Bronze {
			return a.Bronze > b.Bronze
		}
		return a.Code < b.Code
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// Validate checks the snapshot's structural invariants before it is persisted.
func (s *Snapshot) Validate() error {
	if err := ValidateTally(s.Medals); err != nil {
		return err
	}
	ids := make(map[string]struct{}, len(s.Events))
	for _, e := range s.Events {
		if e.ID == "" {
			return fmt.Errorf("event %q has no id", e.Title)
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("duplicate event id %q", e.ID)
		}
		ids[e.ID] = struct{}{}
		switch e.Status {
		case StatusScheduled, StatusInProgress, StatusCompleted:
		default:
			return fmt.Errorf("event %q has unknown status %q", e.ID, e.Status)
		}
	}
	for _, p := range s.Projections {
		if p.EventID != "" {
			if _, ok := ids[p.EventID]; !ok {
				return fmt.Errorf("projection for %q references unknown event %q", p.Athlete, p.EventID)
			}
		}
	}
	if s.EventsCompleted < 0 || s.EventsTotal < 0 {
		return fmt.Errorf("negative event counters (%d/%d)", s.EventsCompleted, s.EventsTotal)
	}
	switch s.Provenance {
	case ProvenancePrimary, ProvenanceFallback, ProvenanceNone:
	default:
		return fmt.Errorf("unknown provenance %q", s.Provenance)
	}
	return nil
}

// FindEvent returns a pointer to the event with the given id, or nil.
func (s *Snapshot) FindEvent(id string) *Event {
	for i := range s.Events {
		if s.Events[i].ID == id {
			return &s.Events[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot via a JSON round trip.
func (s *Snapshot) Clone() (*Snapshot, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out Snapshot
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
