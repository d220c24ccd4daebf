package render

import (
	"strings"
	"testing"
	"time"

	"olympics-tracker/feature/standings/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `<html>
<p>{{FOCUS_GOLD}}/{{FOCUS_SILVER}}/{{FOCUS_BRONZE}} of {{FOCUS_TOTAL}}</p>
<p>{{PROJ_GOLD_LOW}}-{{PROJ_GOLD_MID}}-{{PROJ_GOLD_HIGH}} {{PROJ_TOTAL_LOW}}-{{PROJ_TOTAL_MID}}-{{PROJ_TOTAL_HIGH}}</p>
<p>{{EVENTS_DONE}}/{{EVENTS_TOTAL}} events, {{TOTAL_MEDALS}} medals, {{COUNTRIES_COUNT}} countries</p>
<table>{{MEDAL_TABLE_ROWS}}</table>
<script>const s = {{SCHEDULE_JSON}}; const a = {{ATHLETES_JSON}};</script>
<footer>{{LAST_UPDATED}} {{LAST_CHECKED}} {{PROVENANCE}}</footer>
</html>`

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Events: []models.Event{
			{ID: "alp-w-slalom", Title: "Women's Slalom", Status: models.StatusCompleted, Result: "🥇 SHIFFRIN (USA)"},
			{ID: "hok-m-final", Title: "Men's Hockey Final", Status: models.StatusScheduled},
		},
		Medals: []models.MedalEntry{
			{Country: "Norway", Code: "NOR", Flag: "🇳🇴", Gold: 5, Silver: 3, Bronze: 2, Total: 10, Rank: 1},
			{Country: "United States", Code: "USA", Flag: "🇺🇸", Gold: 4, Silver: 4, Bronze: 3, Total: 11, Rank: 2},
			{Country: "Italy", Code: "ITA", Flag: "🇮🇹", Gold: 3, Silver: 2, Bronze: 5, Total: 10, Rank: 3},
		},
		Projections: []models.AthleteProjection{
			{Athlete: "Shiffrin", EventID: "alp-w-slalom", Note: "favorite"},
		},
		Forecast: models.MedalForecast{
			GoldLow: 8, GoldMid: 10, GoldHigh: 13,
			TotalLow: 22, TotalMid: 26, TotalHigh: 31,
		},
		EventsCompleted: 12,
		EventsTotal:     116,
		LastUpdated:     time.Date(2026, 2, 11, 14, 30, 0, 0, time.UTC),
		LastChecked:     time.Date(2026, 2, 11, 15, 0, 0, 0, time.UTC),
		Provenance:      models.ProvenancePrimary,
	}
}

func TestRender_Substitution(t *testing.T) {
	r := New(Config{FocusCountry: "USA"})

	out, err := r.Render([]byte(testTemplate), testSnapshot())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "4/4/3 of 11")
	assert.Contains(t, page, "8-10-13 22-26-31")
	assert.Contains(t, page, "12/116 events, 31 medals, 3 countries")
	assert.Contains(t, page, "Feb 11, 2:30 PM UTC")
	assert.Contains(t, page, "Feb 11, 3:00 PM UTC")
	assert.Contains(t, page, "PRIMARY")
	assert.NotContains(t, page, "{{")
}

func TestRender_FocusRowAndOrder(t *testing.T) {
	r := New(Config{FocusCountry: "USA"})

	out, err := r.Render([]byte(testTemplate), testSnapshot())
	require.NoError(t, err)
	page := string(out)

	// Rows come out in rank order with the focus country highlighted.
	nor := strings.Index(page, "Norway")
	usa := strings.Index(page, "United States")
	ita := strings.Index(page, "Italy")
	assert.True(t, nor < usa && usa < ita, "rows not in rank order")
	assert.Contains(t, page, `class="focus-row"`)
	assert.Equal(t, 1, strings.Count(page, "focus-row"))
}

func TestRender_EmbeddedJSONRoundTrips(t *testing.T) {
	r := New(Config{FocusCountry: "USA"})
	snap := testSnapshot()

	out, err := r.Render([]byte(testTemplate), snap)
	require.NoError(t, err)
	page := string(out)

	start := strings.Index(page, "const s = ") + len("const s = ")
	end := strings.Index(page, "; const a")
	var events []models.Event
	require.NoError(t, json.Unmarshal([]byte(page[start:end]), &events))
	assert.Equal(t, snap.Events, events)
}

func TestRender_FocusCountryAbsent(t *testing.T) {
	r := New(Config{FocusCountry: "USA"})
	snap := testSnapshot()
	snap.Medals = snap.Medals[:1] // NOR only

	out, err := r.Render([]byte(testTemplate), snap)
	require.NoError(t, err)

	// Absent focus country renders as zeros, not an error.
	assert.Contains(t, string(out), "0/0/0 of 0")
}

func TestRender_UnresolvedTokenFails(t *testing.T) {
	r := New(Config{FocusCountry: "USA"})
	tpl := testTemplate + "\n<p>{{NO_SUCH_TOKEN}} {{ALSO_MISSING}} {{NO_SUCH_TOKEN}}</p>"

	_, err := r.Render([]byte(tpl), testSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unresolved template tokens")
	// Deduplicated and sorted.
	assert.Contains(t, err.Error(), "{{ALSO_MISSING}}, {{NO_SUCH_TOKEN}}")
}

func TestRender_Deterministic(t *testing.T) {
	r := New(Config{FocusCountry: "USA"})

	a, err := r.Render([]byte(testTemplate), testSnapshot())
	require.NoError(t, err)
	b, err := r.Render([]byte(testTemplate), testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRender_NeverTimestamps(t *testing.T) {
	r := New(Config{FocusCountry: "USA"})
	snap := testSnapshot()
	snap.LastUpdated = time.Time{}
	snap.Provenance = models.ProvenanceNone

	out, err := r.Render([]byte(testTemplate), snap)
	require.NoError(t, err)
	assert.Contains(t, string(out), "never")
	assert.Contains(t, string(out), "NONE")
}
