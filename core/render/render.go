package render

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"olympics-tracker/feature/standings/models"

	"github.com/goccy/go-json"
)

// Config holds configuration for the page renderer.
type Config struct {
	// TemplatePath is the location of the fixed page template.
	TemplatePath string `mapstructure:"template_path" default:"web/template.html"`
	// OutputPath is where the build command writes the rendered document.
	OutputPath string `mapstructure:"output_path" default:"public/index.html"`
	// FocusCountry is the IOC code highlighted on the page.
	FocusCountry string `mapstructure:"focus_country" default:"USA"`
}

// tokenPattern matches substitution tokens like {{MEDAL_TABLE_ROWS}}.
var tokenPattern = regexp.MustCompile(`\{\{[A-Z0-9_]+\}\}`)

// Renderer turns a snapshot into the display document by token substitution.
// It is deterministic: the same snapshot always yields the same document.
type Renderer struct {
	cfg Config
}

// New creates a renderer.
func New(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render substitutes the snapshot's values into the template. Any token
// left unresolved after substitution is a build error, not silent output.
func (r *Renderer) Render(template []byte, snap *models.Snapshot) ([]byte, error) {
	focus := r.focusEntry(snap)

	medals := make([]models.MedalEntry, len(snap.Medals))
	copy(medals, snap.Medals)
	sort.Slice(medals, func(i, j int) bool { return medals[i].Rank < medals[j].Rank })

	totalMedals := 0
	var rows strings.Builder
	for _, m := range medals {
		totalMedals += m.Total
		rowClass := ""
		if m.Code == r.cfg.FocusCountry {
			rowClass = ` class="focus-row"`
		}
		fmt.Fprintf(&rows,
			`<tr%s><td class="rank">%d</td><td><span class="flag">%s</span><span class="country">%s</span></td><td class="num gold-num">%d</td><td class="num silver-num">%d</td><td class="num bronze-num">%d</td><td class="num total-cell">%d</td></tr>`+"\n",
			rowClass, m.Rank, m.Flag, m.Country, m.Gold, m.Silver, m.Bronze, m.Total)
	}

	scheduleJSON, err := json.Marshal(snap.Events)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}
	athletesJSON, err := json.Marshal(snap.Projections)
	if err != nil {
		return nil, fmt.Errorf("marshal projections: %w", err)
	}

	replacements := map[string]string{
		"{{FOCUS_GOLD}}":        strconv.Itoa(focus.Gold),
		"{{FOCUS_SILVER}}":      strconv.Itoa(focus.Silver),
		"{{FOCUS_BRONZE}}":      strconv.Itoa(focus.Bronze),
		"{{FOCUS_TOTAL}}":       strconv.Itoa(focus.Total),
		"{{PROJ_GOLD_LOW}}":     strconv.Itoa(snap.Forecast.GoldLow),
		"{{PROJ_GOLD_MID}}":     strconv.Itoa(snap.Forecast.GoldMid),
		"{{PROJ_GOLD_HIGH}}":    strconv.Itoa(snap.Forecast.GoldHigh),
		"{{PROJ_TOTAL_LOW}}":    strconv.Itoa(snap.Forecast.TotalLow),
		"{{PROJ_TOTAL_MID}}":    strconv.Itoa(snap.Forecast.TotalMid),
		"{{PROJ_TOTAL_HIGH}}":   strconv.Itoa(snap.Forecast.TotalHigh),
		"{{EVENTS_DONE}}":       strconv.Itoa(snap.EventsCompleted),
		"{{EVENTS_TOTAL}}":      strconv.Itoa(snap.EventsTotal),
		"{{MEDAL_TABLE_ROWS}}":  rows.String(),
		"{{TOTAL_MEDALS}}":      strconv.Itoa(totalMedals),
		"{{COUNTRIES_COUNT}}":   strconv.Itoa(len(medals)),
		"{{SCHEDULE_JSON}}":     string(scheduleJSON),
		"{{ATHLETES_JSON}}":     string(athletesJSON),
		"{{LAST_UPDATED}}":      displayTime(snap.LastUpdated),
		"{{LAST_CHECKED}}":      displayTime(snap.LastChecked),
		"{{PROVENANCE}}":        string(snap.Provenance),
	}

	out := string(template)
	for token, value := range replacements {
		out = strings.ReplaceAll(out, token, value)
	}

	if unresolved := tokenPattern.FindAllString(out, -1); len(unresolved) > 0 {
		return nil, fmt.Errorf("unresolved template tokens: %s", strings.Join(dedupe(unresolved), ", "))
	}

	return []byte(out), nil
}

// focusEntry returns the focus country's tally row, zero-valued when absent.
func (r *Renderer) focusEntry(snap *models.Snapshot) models.MedalEntry {
	for _, m := range snap.Medals {
		if m.Code == r.cfg.FocusCountry {
			return m
		}
	}
	return models.MedalEntry{Code: r.cfg.FocusCountry}
}

func displayTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format("Jan 02, 3:04 PM MST")
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
