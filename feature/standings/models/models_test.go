package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTally(t *testing.T) {
	tests := []struct {
		name      string
		entries   []MedalEntry
		expectErr string
	}{
		{
			name:    "empty tally is valid",
			entries: []MedalEntry{},
		},
		{
			name: "consistent entries pass",
			entries: []MedalEntry{
				{Country: "Norway", Code: "NOR", Gold: 10, Silver: 8, Bronze: 5, Total: 23},
				{Country: "United States", Code: "USA", Gold: 7, Silver: 9, Bronze: 6, Total: 22},
			},
		},
		{
			name: "negative count rejected",
			entries: []MedalEntry{
				{Country: "Norway", Code: "NOR", Gold: -1, Silver: 0, Bronze: 0, Total: -1},
			},
			expectErr: "negative",
		},
		{
			name: "total mismatch rejected",
			entries: []MedalEntry{
				{Country: "Norway", Code: "NOR", Gold: 3, Silver: 2, Bronze: 1, Total: 7},
			},
			expectErr: "total",
		},
		{
			name: "missing code rejected",
			entries: []MedalEntry{
				{Country: "Norway", Gold: 1, Silver: 0, Bronze: 0, Total: 1},
			},
			expectErr: "no country code",
		},
		{
			name: "duplicate code rejected",
			entries: []MedalEntry{
				{Country: "Norway", Code: "NOR", Gold: 1, Total: 1},
				{Country: "Norge", Code: "NOR", Gold: 2, Total: 2},
			},
			expectErr: "duplicate",
		},
		{
			name: "one bad entry fails the whole collection",
			entries: []MedalEntry{
				{Country: "Norway", Code: "NOR", Gold: 1, Total: 1},
				{Country: "Germany", Code: "GER", Gold: 1, Silver: 1, Total: 5},
			},
			expectErr: "total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTally(tt.entries)
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTally)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

func TestRankTally(t *testing.T) {
	entries := []MedalEntry{
		{Code: "USA", Gold: 7, Silver: 9, Bronze: 6, Total: 22},
		{Code: "NOR", Gold: 10, Silver: 8, Bronze: 5, Total: 23},
		{Code: "GER", Gold: 7, Silver: 9, Bronze: 6, Total: 22},
		{Code: "ITA", Gold: 7, Silver: 10, Bronze: 1, Total: 18},
	}

	RankTally(entries)

	// Gold first, then silver, then bronze; ties broken by code.
	assert.Equal(t, "NOR", entries[0].Code)
	assert.Equal(t, "ITA", entries[1].Code)
	assert.Equal(t, "GER", entries[2].Code)
	assert.Equal(t, "USA", entries[3].Code)
	for i, m := range entries {
		assert.Equal(t, i+1, m.Rank)
	}
}

func TestRankTally_Deterministic(t *testing.T) {
	a := []MedalEntry{
		{Code: "SUI", Gold: 2, Silver: 2, Bronze: 2, Total: 6},
		{Code: "AUT", Gold: 2, Silver: 2, Bronze: 2, Total: 6},
	}
	b := []MedalEntry{a[1], a[0]}

	RankTally(a)
	RankTally(b)

	assert.Equal(t, a, b)
}

func TestSnapshotValidate(t *testing.T) {
	valid := func() *Snapshot {
		return &Snapshot{
			Events: []Event{
				{ID: "alp-w-slalom", Title: "Women's Slalom", Status: StatusScheduled},
				{ID: "hok-m-final", Title: "Men's Hockey Final", Status: StatusCompleted},
			},
			Medals: []MedalEntry{
				{Country: "Norway", Code: "NOR", Gold: 1, Total: 1, Rank: 1},
			},
			Projections: []AthleteProjection{
				{Athlete: "Shiffrin", EventID: "alp-w-slalom", Note: "favorite"},
			},
			EventsCompleted: 1,
			EventsTotal:     116,
			Provenance:      ProvenancePrimary,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Snapshot)
		expectErr string
	}{
		{
			name:   "valid snapshot",
			mutate: func(s *Snapshot) {},
		},
		{
			name:      "duplicate event id",
			mutate:    func(s *Snapshot) { s.Events[1].ID = "alp-w-slalom" },
			expectErr: "duplicate event id",
		},
		{
			name:      "event without id",
			mutate:    func(s *Snapshot) { s.Events[0].ID = "" },
			expectErr: "no id",
		},
		{
			name:      "unknown status",
			mutate:    func(s *Snapshot) { s.Events[0].Status = "PAUSED" },
			expectErr: "unknown status",
		},
		{
			name:      "projection referencing unknown event",
			mutate:    func(s *Snapshot) { s.Projections[0].EventID = "ghost" },
			expectErr: "unknown event",
		},
		{
			name:      "negative counter",
			mutate:    func(s *Snapshot) { s.EventsCompleted = -1 },
			expectErr: "negative event counters",
		},
		{
			name:      "unknown provenance",
			mutate:    func(s *Snapshot) { s.Provenance = "GUESS" },
			expectErr: "unknown provenance",
		},
		{
			name:      "invalid tally surfaces",
			mutate:    func(s *Snapshot) { s.Medals[0].Total = 9 },
			expectErr: "total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := valid()
			tt.mutate(snap)
			err := snap.Validate()
			if tt.expectErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
		})
	}
}

func TestSnapshotClone(t *testing.T) {
	snap := &Snapshot{
		Events:      []Event{{ID: "e1", Title: "Event", Status: StatusScheduled, Start: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)}},
		Medals:      []MedalEntry{{Country: "Norway", Code: "NOR", Gold: 1, Total: 1, Rank: 1}},
		Projections: []AthleteProjection{{Athlete: "Shiffrin", EventID: "e1", Note: "favorite"}},
		EventsTotal: 116,
		Provenance:  ProvenancePrimary,
	}

	clone, err := snap.Clone()
	require.NoError(t, err)
	assert.Equal(t, snap, clone)

	// Mutating the clone must not leak into the original.
	clone.Events[0].Status = StatusCompleted
	clone.Medals[0].Gold = 99
	assert.Equal(t, StatusScheduled, snap.Events[0].Status)
	assert.Equal(t, 1, snap.Medals[0].Gold)
}

func TestFindEvent(t *testing.T) {
	snap := &Snapshot{Events: []Event{{ID: "e1"}, {ID: "e2"}}}

	e := snap.FindEvent("e2")
	require.NotNil(t, e)
	assert.Equal(t, "e2", e.ID)

	// The pointer addresses the snapshot's slice, not a copy.
	e.Result = "🥇 SHIFFRIN (USA)"
	assert.Equal(t, "🥇 SHIFFRIN (USA)", snap.Events[1].Result)

	assert.Nil(t, snap.FindEvent("missing"))
}

func TestCountryLookups(t *testing.T) {
	assert.Equal(t, "Norway", CountryName("NOR"))
	assert.Equal(t, "🇳🇴", CountryFlag("NOR"))
	assert.Equal(t, "🏳️", CountryFlag("XXX"))
	assert.Equal(t, "USA", CountryCode("United States"))
	assert.Equal(t, "GER", CountryCode("German"))
	assert.Equal(t, "", CountryCode("Atlantis"))
}
