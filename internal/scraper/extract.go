package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/matchcenter/yallakora-scraper/internal/config"
	"github.com/matchcenter/yallakora-scraper/internal/logger"
	"github.com/matchcenter/yallakora-scraper/internal/match"
	"golang.org/x/net/html"
)

// Markup markers used by the match-center page
var (
	groupingSelector = cascadia.MustCompile("div.matchCard.matchesList")
	titleSelector    = cascadia.MustCompile("h2")
	teamASelector    = cascadia.MustCompile("div.teams.teamA")
	teamBSelector    = cascadia.MustCompile("div.teams.teamB")
	resultSelector   = cascadia.MustCompile("div.MResult")
	scoreSelector    = cascadia.MustCompile("span.score")
	timeSelector     = cascadia.MustCompile("span.time")

	entrySelectors = map[match.Status]cascadia.Selector{
		match.StatusFinished:   cascadia.MustCompile("div.item.finish.liItem"),
		match.StatusFuture:     cascadia.MustCompile("div.item.future.liItem"),
		match.StatusInProgress: cascadia.MustCompile("div.item.now.liItem"),
	}
)

// Extraction is the result of extracting one document
type Extraction struct {
	Groupings int             // championship groupings found on the page
	Processed int             // groupings actually walked
	Outcomes  []match.Outcome // one per entry, plus one per skipped grouping
	Records   []match.Record  // extracted records in discovery order
}

// Extractor turns a parsed match-center page into match records
type Extractor struct {
	groupings config.Groupings
	log       *logger.Logger
	metrics   *logger.Metrics
}

// NewExtractor creates an Extractor. With config.GroupingsFirst only the first
// championship grouping on the page is read; config.GroupingsAll reads every one.
func NewExtractor(groupings config.Groupings, log *logger.Logger, metrics *logger.Metrics) *Extractor {
	if log == nil {
		log = logger.Discard()
	}
	return &Extractor{
		groupings: groupings,
		log:       log,
		metrics:   metrics,
	}
}

// Extract walks doc and returns every match it can read. A page without
// championship groupings yields an empty Extraction, not an error.
func (e *Extractor) Extract(doc *goquery.Document) *Extraction {
	result := &Extraction{
		Outcomes: make([]match.Outcome, 0),
		Records:  make([]match.Record, 0),
	}

	groupings := findGroupings(doc.Selection)
	result.Groupings = groupings.Length()
	e.metrics.SetGauge("groupings.found", float64(result.Groupings))

	if result.Groupings == 0 {
		e.log.Warn("No championships found on the page", nil)
		return result
	}

	e.log.Info("Found championships", logger.Fields{
		"count": result.Groupings,
		"mode":  string(e.groupings),
	})

	if e.groupings != config.GroupingsAll {
		groupings = groupings.First()
	}

	groupings.Each(func(i int, grouping *goquery.Selection) {
		result.Processed++

		outcomes, err := e.extractGrouping(grouping)
		if err != nil {
			title := textOf(grouping.FindMatcher(titleSelector).First())
			e.log.Warn("Skipping championship", logger.Fields{
				"index":        i,
				"championship": title,
				"reason":       err.Error(),
			})
			e.metrics.IncrCounter("groupings.skipped")
			result.Outcomes = append(result.Outcomes, match.SkippedGrouping(title, err.Error()))
			return
		}

		result.Outcomes = append(result.Outcomes, outcomes...)
	})

	result.Records = match.Records(result.Outcomes)
	e.metrics.AddCounter("records.extracted", int64(len(result.Records)))
	e.metrics.AddCounter("entries.skipped", int64(match.CountSkipped(result.Outcomes, match.ScopeEntry)))

	return result
}

// findGroupings returns grouping nodes that are not nested inside another grouping
func findGroupings(root *goquery.Selection) *goquery.Selection {
	return root.FindMatcher(groupingSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsMatcher(groupingSelector).Length() == 0
	})
}

// extractGrouping reads every entry of one championship grouping. A failure
// anywhere inside the grouping abandons the grouping as a whole.
func (e *Extractor) extractGrouping(grouping *goquery.Selection) (outcomes []match.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcomes = nil
			err = fmt.Errorf("malformed championship markup: %v", r)
		}
	}()

	title := textOf(grouping.FindMatcher(titleSelector).First())
	if title == "" {
		return nil, fmt.Errorf("missing championship title")
	}

	entries := collectEntries(grouping)
	e.log.Debug("Found matches in championship", logger.Fields{
		"championship": title,
		"count":        len(entries),
	})

	outcomes = make([]match.Outcome, 0, len(entries))
	for _, item := range entries {
		outcome := extractEntry(title, item.status, item.sel)
		if outcome.Skipped {
			e.log.Warn("Skipping match entry", logger.Fields{
				"championship": title,
				"status":       string(item.status),
				"reason":       outcome.SkipReason,
			})
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

type entry struct {
	status match.Status
	sel    *goquery.Selection
}

// collectEntries returns finished, then future, then in-progress entries.
// A node carrying more than one status marker is kept under the first.
func collectEntries(grouping *goquery.Selection) []entry {
	entries := make([]entry, 0)
	seen := make(map[*html.Node]bool)

	for _, status := range match.Statuses {
		grouping.FindMatcher(entrySelectors[status]).Each(func(_ int, sel *goquery.Selection) {
			node := sel.Get(0)
			if seen[node] {
				return
			}
			seen[node] = true
			entries = append(entries, entry{status: status, sel: sel})
		})
	}

	return entries
}

// extractEntry builds the outcome for one fixture
func extractEntry(championship string, status match.Status, sel *goquery.Selection) match.Outcome {
	teamA := sel.FindMatcher(teamASelector).First()
	teamB := sel.FindMatcher(teamBSelector).First()

	if teamA.Length() == 0 {
		return match.SkippedEntry(championship, status, "missing first team")
	}
	if teamB.Length() == 0 {
		return match.SkippedEntry(championship, status, "missing second team")
	}

	firstTeam := textOf(teamA)
	secondTeam := textOf(teamB)
	if firstTeam == "" || secondTeam == "" {
		return match.SkippedEntry(championship, status, "empty team name")
	}

	var scoreParts []string
	result := sel.FindMatcher(resultSelector).First()
	if result.Length() > 0 {
		result.FindMatcher(scoreSelector).Each(func(_ int, s *goquery.Selection) {
			scoreParts = append(scoreParts, textOf(s))
		})
	}

	kickoff := textOf(result.FindMatcher(timeSelector).First())
	if kickoff == "" {
		kickoff = textOf(sel.FindMatcher(timeSelector).First())
	}

	rec := match.NewRecord(championship, firstTeam, secondTeam, scoreParts, kickoff)
	return match.Extracted(status, rec)
}

// textOf returns the text of sel with runs of whitespace collapsed to one space
func textOf(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}
