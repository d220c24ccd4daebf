package wiki

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"olympics-tracker/feature/standings/models"

	"github.com/PuerkitoBio/goquery"
)

var (
	// codePattern finds an IOC code in parentheses, e.g. "Norway (NOR)".
	codePattern = regexp.MustCompile(`\(([A-Z]{3})\)`)
	// bareCodePattern matches a link whose whole text is an IOC code.
	bareCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	// completedPatterns extract the official completed-events counter.
	completedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*of\s*\d+\s*events?\s*completed`),
		regexp.MustCompile(`(?i)completed events\D*(\d+)`),
	}
)

// parseMedalTable extracts tally rows from the first sortable wikitable.
// No such table means the page layout changed: ErrParse. Rows that exist
// but cannot be mapped also mean ErrParse, while a recognized table with
// no data rows at all is a valid empty tally.
func parseMedalTable(doc *goquery.Document) ([]models.MedalEntry, error) {
	table := doc.Find("table.wikitable.sortable").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: medal table markers not found", ErrParse)
	}

	var entries []models.MedalEntry
	candidates := 0
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		text := row.Text()
		if row.Find("th").Length() > 0 && strings.Contains(text, "Gold") {
			return
		}
		if strings.Contains(text, "Totals") {
			return
		}

		cells := row.Find("th, td")
		if cells.Length() < 5 {
			return
		}
		candidates++

		code := extractCode(row)
		if code == "" {
			return
		}

		var numbers []int
		cells.Each(func(_ int, cell *goquery.Selection) {
			clean := strings.TrimSpace(cell.Text())
			if n, err := strconv.Atoi(clean); err == nil {
				numbers = append(numbers, n)
			}
		})
		if len(numbers) < 4 {
			return
		}

		// Last four numeric cells are gold, silver, bronze, total;
		// anything before them is the rank column.
		n := len(numbers)
		entries = append(entries, models.MedalEntry{
			Country: models.CountryName(code),
			Code:    code,
			Flag:    models.CountryFlag(code),
			Gold:    numbers[n-4],
			Silver:  numbers[n-3],
			Bronze:  numbers[n-2],
			Total:   numbers[n-1],
		})
	})

	if candidates > 0 && len(entries) == 0 {
		return nil, fmt.Errorf("%w: %d table rows, none parseable", ErrParse, candidates)
	}

	models.RankTally(entries)
	return entries, nil
}

// extractCode finds the IOC code in a tally row, first from a "(NOR)"
// suffix, then from a link whose text is the bare code.
func extractCode(row *goquery.Selection) string {
	if m := codePattern.FindStringSubmatch(row.Text()); m != nil {
		return m[1]
	}
	code := ""
	row.Find("a").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		text := strings.TrimSpace(link.Text())
		if bareCodePattern.MatchString(text) {
			code = text
			return false
		}
		return true
	})
	return code
}

// parseEventsCompleted extracts the official counter, or -1 when absent.
func parseEventsCompleted(text string) int {
	for _, p := range completedPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return -1
}

// Tense signals deciding whether an event article describes a finished
// competition. A page with only future signals has not happened yet.
var (
	futureSignals = []string{
		"will be held",
		"will be started",
		"the event will",
		"will take place",
	}
	pastSignals = []string{
		"was held",
		"was won",
		"won the competition",
		"won the gold",
		"won the event",
		"claimed gold",
		"took gold",
		"finished first",
		"became the champion",
		"became the olympic champion",
		"won the olympic",
	}
)

// prosePatterns find "<Name> of <Country> won the competition" style
// sentences in the article text.
var prosePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][a-zà-þ]+(?:\s+[A-Z][a-zà-þ]+)+)\s+(?:of\s+)?(\w+)\s+won\s+the\s+competition`),
	regexp.MustCompile(`([A-Z][a-zà-þ]+(?:\s+[A-Z][a-zà-þ]+)+)\s+(?:of\s+)?(\w+)\s+claimed\s+(?:the\s+)?(?:olympic\s+)?gold`),
	regexp.MustCompile(`([A-Z][a-zà-þ]+(?:\s+[A-Z][a-zà-þ]+)+)\s+(?:of\s+)?(\w+)\s+won\s+(?:the\s+)?(?:olympic\s+)?gold`),
}

// garbageSurnames are section words the scrape strategies sometimes pick
// up instead of a medalist.
var garbageSurnames = map[string]struct{}{
	"ROUND": {}, "FINAL": {}, "QUALIFICATION": {}, "TRAINING": {},
	"OFFICIAL": {}, "SESSION": {}, "MEDAL": {}, "EVENT": {},
	"COMPETITION": {}, "OLYMPIC": {}, "WINTER": {}, "GAMES": {},
}

// eventResult scrapes the gold medalist from an event article. It returns
// "" without error when the event has not finished or no confident match
// exists; garbage matches are rejected rather than guessed at.
func (a *Adapter) eventResult(ctx context.Context, slug string) (string, error) {
	body, err := a.get(ctx, a.cfg.BaseURL+slug)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	lower := strings.ToLower(text)

	hasFuture := containsAny(lower, futureSignals)
	hasPast := containsAny(lower, pastSignals)
	if hasFuture && !hasPast {
		return "", nil
	}

	winner, code := medalistFromProse(text)
	if winner == "" {
		winner, code = medalistFromMedalRows(doc)
	}
	if winner == "" {
		return "", nil
	}

	fields := strings.Fields(winner)
	surname := strings.ToUpper(fields[len(fields)-1])
	if len(surname) < 2 {
		return "", nil
	}
	if _, bad := garbageSurnames[surname]; bad {
		return "", nil
	}

	if code != "" {
		return fmt.Sprintf("🥇 %s (%s)", surname, code), nil
	}
	return "🥇 " + surname, nil
}

// medalistFromProse applies the sentence patterns to the article text.
func medalistFromProse(text string) (string, string) {
	for _, p := range prosePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		code := models.CountryCode(m[2])
		if looksLikeName(name) && code != "" {
			return name, code
		}
	}
	return "", ""
}

// medalistFromMedalRows scans table rows whose header names the gold
// medal. A silver mention elsewhere on the page is required so that a
// stray "Gold" heading cannot be mistaken for a results section.
func medalistFromMedalRows(doc *goquery.Document) (string, string) {
	if !strings.Contains(doc.Text(), "Silver") {
		return "", ""
	}

	var name, code string
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		header := strings.TrimSpace(row.Find("th").First().Text())
		if !strings.HasPrefix(header, "Gold") && !strings.HasPrefix(header, "1st") {
			return true
		}

		candidate := strings.TrimSpace(row.Find("td a").First().Text())
		if !looksLikeName(candidate) {
			return true
		}
		name = candidate

		if m := codePattern.FindStringSubmatch(row.Text()); m != nil {
			code = m[1]
		}
		if code == "" {
			row.Find("td a").Each(func(_ int, link *goquery.Selection) {
				if code == "" {
					code = models.CountryCode(strings.TrimSpace(link.Text()))
				}
			})
		}
		return false
	})
	return name, code
}

// looksLikeName accepts two or more capitalized words.
func looksLikeName(s string) bool {
	words := strings.Fields(s)
	if len(words) < 2 || len(s) <= 4 {
		return false
	}
	for _, w := range words {
		r := []rune(w)
		if !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return true
}

// scoreSep accepts the en-dash Wikipedia uses plus hyphen and minus.
const scoreSep = `[–\-−]`

// periodScores is the optional per-period breakdown, e.g. "(1–0, 3–0, 1–0)".
const periodScores = `(?:\s*\([^)]*\))?`

// tournamentResult scrapes a game score for a tournament event (hockey,
// curling) from the tournament article: a score line pairing the focus
// country with the named opponent, in either order. Returns "" without
// error when no confident score line exists, e.g. the game is unplayed.
func (a *Adapter) tournamentResult(ctx context.Context, slug, opponent string) (string, error) {
	body, err := a.get(ctx, a.cfg.BaseURL+slug)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")

	focus := regexp.QuoteMeta(models.CountryName(a.cfg.FocusCountry))
	opp := regexp.QuoteMeta(opponent)

	focusFirst := regexp.MustCompile(
		`(?i)` + focus + `\s+(\d+)` + scoreSep + `(\d+)` + periodScores + `\s+` + opp)
	opponentFirst := regexp.MustCompile(
		`(?i)` + opp + `\s+(\d+)` + scoreSep + `(\d+)` + periodScores + `\s+` + focus)

	var focusScore, oppScore int
	if m := focusFirst.FindStringSubmatch(text); m != nil {
		focusScore, _ = strconv.Atoi(m[1])
		oppScore, _ = strconv.Atoi(m[2])
	} else if m := opponentFirst.FindStringSubmatch(text); m != nil {
		oppScore, _ = strconv.Atoi(m[1])
		focusScore, _ = strconv.Atoi(m[2])
	} else {
		return "", nil
	}

	switch {
	case focusScore > oppScore:
		return fmt.Sprintf("%s wins %d-%d", a.cfg.FocusCountry, focusScore, oppScore), nil
	case focusScore < oppScore:
		return fmt.Sprintf("Lost %d-%d", focusScore, oppScore), nil
	default:
		return fmt.Sprintf("Draw %d-%d", focusScore, oppScore), nil
	}
}

func containsAny(text string, signals []string) bool {
	for _, sig := range signals {
		if strings.Contains(text, sig) {
			return true
		}
	}
	return false
}
