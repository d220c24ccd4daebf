// Package fallback is the secondary source adapter. It queries a
// natural-language lookup service for current standings and maps the
// free-form response into the canonical shape.
//
// The service is non-deterministic, so the adapter is a strict
// parse-then-validate boundary: the raw response is treated as untyped
// input, mapped into typed entries, and rejected entirely if anything
// fails structural validation. Loosely-typed data never crosses the
// adapter boundary.
package fallback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"olympics-tracker/feature/standings/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	// ErrUnavailable means the service could not be used at all: missing
	// credential, transport failure, or a service/auth error.
	ErrUnavailable = errors.New("fallback source unavailable")
	// ErrParse means the response could not be mapped to a valid tally.
	ErrParse = errors.New("fallback response unparsable")
)

// Adapter queries the lookup service. Invoked only after the primary
// source has failed.
type Adapter struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewAdapter creates the fallback adapter.
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
	return "lookup-service"
}

// request/response shapes of the messages API.
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Tools     []apiTool    `json:"tools"`
	Messages  []apiMessage `json:"messages"`
}

type apiTool struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// rawStandings is the loose shape the prompt asks the service to return.
type rawStandings struct {
	EventsCompleted *int        `json:"events_completed"`
	MedalTable      []rawEntry  `json:"medal_table"`
	NewResults      []rawResult `json:"new_results"`
}

type rawEntry struct {
	Country string `json:"country"`
	Code    string `json:"code"`
	Gold    int    `json:"gold"`
	Silver  int    `json:"silver"`
	Bronze  int    `json:"bronze"`
	Total   int    `json:"total"`
}

type rawResult struct {
	EventIDHint string `json:"event_id_hint"`
	Result      string `json:"result"`
}

// Fetch queries the service for current standings scoped to today and the
// configured games edition, then maps and validates the response.
func (a *Adapter) Fetch(ctx context.Context, current *models.Snapshot) (*models.Standings, error) {
	if a.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no credential configured", ErrUnavailable)
	}

	text, err := a.query(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := decodePayload(text)
	if err != nil {
		return nil, err
	}

	medals := make([]models.MedalEntry, 0, len(payload.MedalTable))
	for _, raw := range payload.MedalTable {
		code := strings.ToUpper(strings.TrimSpace(raw.Code))
		if code == "" {
			code = models.CountryCode(raw.Country)
		}
		if code == "" {
			return nil, fmt.Errorf("%w: entry %q has no resolvable country", ErrParse, raw.Country)
		}
		country := raw.Country
		if country == "" {
			country = models.CountryName(code)
		}
		medals = append(medals, models.MedalEntry{
			Country: country,
			Code:    code,
			Flag:    models.CountryFlag(code),
			Gold:    raw.Gold,
			Silver:  raw.Silver,
			Bronze:  raw.Bronze,
			Total:   raw.Total,
		})
	}

	// The service is non-deterministic; a response failing validation is
	// a parse failure, never silently accepted.
	if err := models.ValidateTally(medals); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	models.RankTally(medals)

	results := make(map[string]string)
	for _, raw := range payload.NewResults {
		if raw.EventIDHint == "" || raw.Result == "" {
			continue
		}
		// Only hints that name a known event are usable.
		if current != nil && current.FindEvent(raw.EventIDHint) != nil {
			results[raw.EventIDHint] = raw.Result
		}
	}

	completed := -1
	if payload.EventsCompleted != nil {
		completed = *payload.EventsCompleted
	}

	a.logger.Info("Fallback response accepted",
		zap.Int("countries", len(medals)),
		zap.Int("event_results", len(results)))

	return &models.Standings{
		Medals:          medals,
		Results:         results,
		EventsCompleted: completed,
		FetchedAt:       a.now().UTC(),
		Source:          models.ProvenanceFallback,
	}, nil
}

// query issues the messages request and returns the joined text blocks.
func (a *Adapter) query(ctx context.Context) (string, error) {
	body, err := json.Marshal(apiRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		Tools:     []apiTool{{Type: "web_search_20250305", Name: "web_search"}},
		Messages:  []apiMessage{{Role: "user", Content: a.buildPrompt()}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.cfg.APIKey)
	req.Header.Set("anthropic-version", a.cfg.APIVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: service returned status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	var parts []string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no text content in response", ErrParse)
	}
	return strings.Join(parts, "\n"), nil
}

// buildPrompt scopes the query to the configured games and today's date.
func (a *Adapter) buildPrompt() string {
	return fmt.Sprintf(`Search for the current %s medal table and any results from today, %s.

Return ONLY valid JSON with this exact structure (no markdown, no explanation):
{
  "events_completed": <number>,
  "medal_table": [
    {"country": "Norway", "code": "NOR", "gold": 0, "silver": 0, "bronze": 0, "total": 0},
    ...
  ],
  "new_results": [
    {"event_id_hint": "brief description like alpine-womens-slalom", "result": "short result like 🥇 SHIFFRIN GOLD"}
  ]
}

Include ALL countries that have won at least one medal. Sort by gold medals descending.`,
		a.cfg.GamesName, a.now().UTC().Format("January 2, 2006"))
}

// decodePayload extracts the JSON object from the free-form response text,
// tolerating markdown fences and prose on either side of the object.
func decodePayload(text string) (*rawStandings, error) {
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var payload rawStandings
	if err := json.Unmarshal([]byte(clean), &payload); err == nil {
		return &payload, nil
	}

	// The direct decode failed; carve out the outermost object and retry.
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrParse)
	}
	payload = rawStandings{}
	if err := json.Unmarshal([]byte(clean[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &payload, nil
}
