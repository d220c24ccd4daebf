package refresh

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"olympics-tracker/core/store"
	"olympics-tracker/feature/standings/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var cycleTime = time.Date(2026, 2, 11, 18, 0, 0, 0, time.UTC)

// stubSource returns a canned fetch outcome and records whether it ran.
type stubSource struct {
	name      string
	standings *models.Standings
	err       error
	called    bool
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, current *models.Snapshot) (*models.Standings, error) {
	s.called = true
	if s.err != nil {
		return nil, s.err
	}
	return s.standings, nil
}

// failingStore wraps a real store but refuses writes.
type failingStore struct {
	*store.Store
}

func (f *failingStore) Replace(snap *models.Snapshot) error {
	return store.ErrWrite
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(store.Config{Path: filepath.Join(t.TempDir(), "dataset.json")}, zap.NewNop())
	require.NoError(t, st.Replace(&models.Snapshot{
		Events: []models.Event{
			{ID: "alp-w-slalom", Title: "Women's Slalom", Status: models.StatusInProgress,
				Start: cycleTime.Add(-3 * time.Hour), End: cycleTime.Add(-1 * time.Hour)},
			{ID: "hok-m-final", Title: "Men's Hockey Final", Status: models.StatusScheduled,
				Start: cycleTime.Add(48 * time.Hour), End: cycleTime.Add(51 * time.Hour)},
		},
		Medals: []models.MedalEntry{
			{Country: "Norway", Code: "NOR", Gold: 5, Silver: 3, Bronze: 2, Total: 10, Rank: 1},
		},
		EventsCompleted: 10,
		EventsTotal:     116,
		Provenance:      models.ProvenancePrimary,
		LastUpdated:     cycleTime.Add(-6 * time.Hour),
		LastChecked:     cycleTime.Add(-6 * time.Hour),
	}))
	return st
}

func fetched(source models.Provenance) *models.Standings {
	return &models.Standings{
		Medals: []models.MedalEntry{
			{Country: "Norway", Code: "NOR", Gold: 6, Silver: 3, Bronze: 2, Total: 11},
			{Country: "United States", Code: "USA", Gold: 4, Silver: 5, Bronze: 3, Total: 12},
		},
		Results:         map[string]string{"alp-w-slalom": "🥇 SHIFFRIN (USA)"},
		EventsCompleted: 11,
		FetchedAt:       cycleTime,
		Source:          source,
	}
}

func TestRun_PrimarySucceeds(t *testing.T) {
	st := seededStore(t)
	primary := &stubSource{name: "primary", standings: fetched(models.ProvenancePrimary)}
	fallback := &stubSource{name: "fallback"}

	o := NewOrchestrator(st, primary, fallback, zap.NewNop()).
		WithClock(func() time.Time { return cycleTime })

	res, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, res.State)
	assert.False(t, res.Stale)
	assert.Equal(t, models.ProvenancePrimary, res.Provenance)
	assert.Equal(t, []string{"alp-w-slalom"}, res.Completed)
	assert.NotEmpty(t, res.CycleID)
	assert.False(t, fallback.called, "fallback must not run when primary succeeds")

	snap, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, snap.Medals, 2)
	assert.Equal(t, 11, snap.EventsCompleted)
	assert.Equal(t, models.StatusCompleted, snap.FindEvent("alp-w-slalom").Status)
	assert.Equal(t, "🥇 SHIFFRIN (USA)", snap.FindEvent("alp-w-slalom").Result)
	assert.Equal(t, models.ProvenancePrimary, snap.Provenance)
	assert.Equal(t, cycleTime, snap.LastUpdated)
	assert.Equal(t, cycleTime, snap.LastChecked)
}

func TestRun_FallbackCoversPrimaryFailure(t *testing.T) {
	st := seededStore(t)
	primary := &stubSource{name: "primary", err: errors.New("scrape failed")}
	fallback := &stubSource{name: "fallback", standings: fetched(models.ProvenanceFallback)}

	o := NewOrchestrator(st, primary, fallback, zap.NewNop()).
		WithClock(func() time.Time { return cycleTime })

	res, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, res.State)
	assert.False(t, res.Stale)
	assert.Equal(t, models.ProvenanceFallback, res.Provenance)
	assert.True(t, fallback.called)

	snap, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, models.ProvenanceFallback, snap.Provenance)
}

func TestRun_BothSourcesFailIsStaleNotError(t *testing.T) {
	st := seededStore(t)
	primaryErr := errors.New("scrape failed")
	fallbackErr := errors.New("no credential")
	primary := &stubSource{name: "primary", err: primaryErr}
	fallback := &stubSource{name: "fallback", err: fallbackErr}

	o := NewOrchestrator(st, primary, fallback, zap.NewNop()).
		WithClock(func() time.Time { return cycleTime })

	res, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, res.State)
	assert.True(t, res.Stale)
	assert.Equal(t, models.ProvenanceNone, res.Provenance)
	assert.ErrorIs(t, res.FetchErr, primaryErr)
	assert.ErrorIs(t, res.FetchErr, fallbackErr)
	// Lifecycle still advanced.
	assert.Equal(t, []string{"alp-w-slalom"}, res.Completed)

	snap, err := st.Load()
	require.NoError(t, err)
	// Data kept, provenance demoted, freshness check stamped anyway.
	assert.Len(t, snap.Medals, 1)
	assert.Equal(t, models.ProvenanceNone, snap.Provenance)
	assert.Equal(t, cycleTime.Add(-6*time.Hour), snap.LastUpdated)
	assert.Equal(t, cycleTime, snap.LastChecked)
	assert.Equal(t, models.StatusCompleted, snap.FindEvent("alp-w-slalom").Status)
}

func TestRun_InvalidFetchDegradesToStale(t *testing.T) {
	st := seededStore(t)
	bad := fetched(models.ProvenancePrimary)
	bad.Medals[0].Total = 99
	primary := &stubSource{name: "primary", standings: bad}
	fallback := &stubSource{name: "fallback", err: errors.New("unused")}

	o := NewOrchestrator(st, primary, fallback, zap.NewNop()).
		WithClock(func() time.Time { return cycleTime })

	res, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, res.State)
	assert.True(t, res.Stale)
	assert.Error(t, res.FetchErr)

	snap, err := st.Load()
	require.NoError(t, err)
	// The rejected tally never reached the snapshot.
	assert.Len(t, snap.Medals, 1)
	assert.Equal(t, 10, snap.Medals[0].Total)
	assert.Equal(t, models.ProvenanceNone, snap.Provenance)
}

func TestRun_MissingDatasetAborts(t *testing.T) {
	st := store.New(store.Config{Path: filepath.Join(t.TempDir(), "missing.json")}, zap.NewNop())
	primary := &stubSource{name: "primary", standings: fetched(models.ProvenancePrimary)}
	fallback := &stubSource{name: "fallback"}

	o := NewOrchestrator(st, primary, fallback, zap.NewNop())

	res, err := o.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, StateAborted, res.State)
	assert.False(t, primary.called, "no fetch may run without a dataset")
}

func TestRun_PersistFailureAborts(t *testing.T) {
	st := seededStore(t)
	primary := &stubSource{name: "primary", standings: fetched(models.ProvenancePrimary)}
	fallback := &stubSource{name: "fallback"}

	o := NewOrchestrator(&failingStore{st}, primary, fallback, zap.NewNop()).
		WithClock(func() time.Time { return cycleTime })

	res, err := o.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrWrite)
	assert.Equal(t, StateAborted, res.State)

	// The on-disk dataset is untouched.
	snap, err := st.Load()
	require.NoError(t, err)
	assert.Len(t, snap.Medals, 1)
	assert.Equal(t, 10, snap.EventsCompleted)
}
