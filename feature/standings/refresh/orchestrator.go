// Package refresh sequences one full refresh cycle: primary fetch,
// fallback, lifecycle advancement, reconciliation, and a single atomic
// persist. Source failures degrade the cycle to stale instead of aborting
// it; only a store failure is fatal.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"olympics-tracker/feature/standings/lifecycle"
	"olympics-tracker/feature/standings/models"
	"olympics-tracker/feature/standings/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the position of a refresh cycle in its state machine.
type State string

const (
	StateStart             State = "START"
	StatePrimaryAttempted  State = "PRIMARY_ATTEMPTED"
	StateFallbackAttempted State = "FALLBACK_ATTEMPTED"
	StateFetched           State = "FETCHED"
	StateStale             State = "STALE"
	StateReconciled        State = "RECONCILED"
	StatePersisted         State = "PERSISTED"
	StateAborted           State = "ABORTED"
)

// Source fetches current standings into the canonical shape. The current
// snapshot is passed so the query can be scoped to known events.
type Source interface {
	Name() string
	Fetch(ctx context.Context, current *models.Snapshot) (*models.Standings, error)
}

// Store is the persistence surface the orchestrator needs.
type Store interface {
	Load() (*models.Snapshot, error)
	Replace(snap *models.Snapshot) error
}

// Result describes the outcome of one refresh cycle.
type Result struct {
	// CycleID correlates the cycle's log lines.
	CycleID string
	// State is the terminal state the cycle reached.
	State State
	// Stale is true when no fresh standings were persisted.
	Stale bool
	// Provenance of the persisted standings data for this cycle.
	Provenance models.Provenance
	// Completed lists events the lifecycle pass marked COMPLETED.
	Completed []string
	// FetchErr explains why the cycle went stale, if it did.
	FetchErr error
}

// Orchestrator runs refresh cycles. One instance may run many cycles, but
// cycles are never concurrent; the external trigger serializes them.
type Orchestrator struct {
	store    Store
	primary  Source
	fallback Source
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrchestrator wires the pipeline.
func NewOrchestrator(store Store, primary, fallback Source, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Run executes one refresh cycle. A non-nil error means the cycle aborted
// and the persisted snapshot is unchanged; a stale cycle is not an error.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	res := &Result{CycleID: uuid.NewString(), State: StateStart}
	l := o.logger.With(zap.String("cycle_id", res.CycleID))
	l.Info("Refresh cycle started")

	working, err := o.store.Load()
	if err != nil {
		res.State = StateAborted
		return res, fmt.Errorf("load snapshot: %w", err)
	}

	standings := o.fetch(ctx, working, l, res)

	// Lifecycle always runs: time-based transitions must happen even when
	// both sources failed.
	now := o.now().UTC()
	res.Completed = lifecycle.Advance(now, working)
	if len(res.Completed) > 0 {
		l.Info("Events completed by schedule", zap.Strings("events", res.Completed))
	}

	if standings != nil {
		if err := reconcile.Apply(working, standings); err != nil {
			if !errors.Is(err, reconcile.ErrValidation) {
				res.State = StateAborted
				return res, fmt.Errorf("reconcile: %w", err)
			}
			l.Warn("Fetched standings rejected, cycle degraded to stale", zap.Error(err))
			res.FetchErr = err
			standings = nil
		} else {
			res.State = StateReconciled
			res.Provenance = standings.Source
		}
	}

	if standings == nil {
		res.Stale = true
		res.Provenance = models.ProvenanceNone
		working.Provenance = models.ProvenanceNone
	}
	working.LastChecked = now

	if err := o.store.Replace(working); err != nil {
		res.State = StateAborted
		return res, fmt.Errorf("persist snapshot: %w", err)
	}
	res.State = StatePersisted

	l.Info("Refresh cycle persisted",
		zap.Bool("stale", res.Stale),
		zap.String("provenance", string(res.Provenance)),
		zap.Int("events_completed_now", len(res.Completed)))
	return res, nil
}

// fetch tries the primary source, then the fallback. Returns nil when both
// failed; the cycle continues as stale.
func (o *Orchestrator) fetch(ctx context.Context, current *models.Snapshot, l *zap.Logger, res *Result) *models.Standings {
	res.State = StatePrimaryAttempted
	standings, primaryErr := o.primary.Fetch(ctx, current)
	if primaryErr == nil {
		res.State = StateFetched
		l.Info("Primary fetch succeeded",
			zap.String("source", o.primary.Name()),
			zap.Int("countries", len(standings.Medals)))
		return standings
	}
	l.Warn("Primary fetch failed",
		zap.String("source", o.primary.Name()),
		zap.Error(primaryErr))

	res.State = StateFallbackAttempted
	standings, fallbackErr := o.fallback.Fetch(ctx, current)
	if fallbackErr == nil {
		res.State = StateFetched
		l.Info("Fallback fetch succeeded",
			zap.String("source", o.fallback.Name()),
			zap.Int("countries", len(standings.Medals)))
		return standings
	}
	l.Warn("Fallback fetch failed",
		zap.String("source", o.fallback.Name()),
		zap.Error(fallbackErr))

	res.FetchErr = errors.Join(primaryErr, fallbackErr)
	res.State = StateStale
	return nil
}
