// Package wiki is the primary source adapter. It scrapes the public medal
// table page into the canonical standings shape and, for completed events
// that still lack a result, the corresponding event articles.
//
// The parse is defensive: missing structural markers yield ErrParse, never
// a crash, and a recognized table with zero data rows is an explicit
// empty-but-valid result rather than a silent failure.
package wiki

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"olympics-tracker/feature/standings/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

var (
	// ErrNetwork means the source was unreachable or timed out.
	ErrNetwork = errors.New("primary source unreachable")
	// ErrParse means the page structure was not recognized.
	ErrParse = errors.New("primary source unparsable")
)

// maxBodyBytes caps the response size we are willing to parse.
const maxBodyBytes = 10 << 20

// Adapter fetches and parses the primary source. It has no side effects
// beyond outbound HTTP; it never touches the dataset store.
type Adapter struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewAdapter creates the primary source adapter.
func NewAdapter(cfg Config, logger *zap.Logger) *Adapter {
	return &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger: logger,
		now:    time.Now,
	}
}

// Name identifies the adapter in cycle logs.
func (a *Adapter) Name() string {
	return "wikipedia"
}

// Fetch retrieves the medal table page and maps it into canonical
// standings. The current snapshot is consulted only to pick completed
// events whose results are worth scraping; per-event lookup failures are
// logged and skipped, never fatal.
func (a *Adapter) Fetch(ctx context.Context, current *models.Snapshot) (*models.Standings, error) {
	body, err := a.get(ctx, a.cfg.MedalURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	medals, err := parseMedalTable(doc)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateTally(medals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	standings := &models.Standings{
		Medals:          medals,
		Results:         a.scrapeResults(ctx, current),
		EventsCompleted: parseEventsCompleted(doc.Text()),
		FetchedAt:       a.now().UTC(),
		Source:          models.ProvenancePrimary,
	}

	a.logger.Info("Primary source parsed",
		zap.Int("countries", len(medals)),
		zap.Int("event_results", len(standings.Results)),
		zap.Int("events_completed", standings.EventsCompleted))
	return standings, nil
}

// statusError is a non-2xx response. 4xx codes are definitive answers
// (the article does not exist yet), not transient conditions.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code < 400 || e.code >= 500
}

// get fetches a URL with bounded retries. Transport failures and 5xx
// retry; 4xx is classified immediately, and a body we received but cannot
// parse is the caller's problem.
func (a *Adapter) get(ctx context.Context, url string) ([]byte, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	var lastErr error
	for attempt := 1; attempt <= a.cfg.MaxRetries; attempt++ {
		body, err := a.getOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
		if attempt == a.cfg.MaxRetries {
			break
		}
		sleep := bo.NextBackOff()
		if sleep == backoff.Stop {
			break
		}
		a.logger.Debug("Retrying fetch",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", sleep),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())
		case <-time.After(sleep):
		}
	}
	return nil, fmt.Errorf("%w: GET %s: %v", ErrNetwork, url, lastErr)
}

func (a *Adapter) getOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// scrapeResults looks up results for completed events that lack one and
// carry a wiki slug, capped at MaxResultLookups per cycle. Events with an
// opponent are tournament games and yield a score, not a medalist.
func (a *Adapter) scrapeResults(ctx context.Context, current *models.Snapshot) map[string]string {
	if current == nil {
		return nil
	}
	results := make(map[string]string)
	looked := 0
	for _, e := range current.Events {
		if e.Status != models.StatusCompleted || e.Result != "" || e.WikiSlug == "" {
			continue
		}
		if looked >= a.cfg.MaxResultLookups {
			break
		}
		looked++

		var result string
		var err error
		if e.Opponent != "" {
			result, err = a.tournamentResult(ctx, e.WikiSlug, e.Opponent)
		} else {
			result, err = a.eventResult(ctx, e.WikiSlug)
		}
		if err != nil {
			a.logger.Debug("Event result lookup failed",
				zap.String("event", e.ID),
				zap.Error(err))
			continue
		}
		if result != "" {
			results[e.ID] = result
			a.logger.Info("Event result found",
				zap.String("event", e.ID),
				zap.String("result", result))
		}
	}
	return results
}
