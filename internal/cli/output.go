package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/matchcenter/yallakora-scraper/internal/calendar"
	"github.com/matchcenter/yallakora-scraper/internal/match"
	"github.com/matchcenter/yallakora-scraper/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText  OutputFormat = "text"
	FormatJSON  OutputFormat = "json"
	FormatTable OutputFormat = "table"
	FormatICS   OutputFormat = "ics"
)

func parseFormat(name string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case FormatText, FormatJSON, FormatTable, FormatICS:
		return format, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be 'text', 'json', 'table' or 'ics')", name)
}

// OutputResult contains data to be output
type OutputResult struct {
	RunID       string          `json:"run_id,omitempty"`
	CheckedAt   time.Time       `json:"checked_at"`
	Date        string          `json:"date"`
	Path        string          `json:"path"`
	Groupings   int             `json:"groupings_found"`
	MatchCount  int             `json:"match_count"`
	Matches     []match.Record  `json:"matches"`
	Skipped     []match.Outcome `json:"skipped,omitempty"`
	Transitions []string        `json:"transitions,omitempty"`
}

// NewOutputResult builds the printable summary of a successful run
func NewOutputResult(result *pipeline.Result, runID string) *OutputResult {
	out := &OutputResult{
		RunID:      runID,
		CheckedAt:  time.Now().UTC(),
		Date:       result.Date.String(),
		Path:       result.Path,
		MatchCount: len(result.Records),
		Matches:    result.Records,
	}

	if result.Extraction != nil {
		out.Groupings = result.Extraction.Groupings
		for _, o := range result.Extraction.Outcomes {
			if o.Skipped {
				out.Skipped = append(out.Skipped, o)
			}
		}
	}

	for _, s := range result.Transitions {
		out.Transitions = append(out.Transitions, string(s))
	}

	return out
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatTable:
		return writeTable(w, result)
	case FormatICS:
		return writeICS(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text, one block per championship
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.MatchCount == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	championships, byChampionship := match.GroupByChampionship(result.Matches)
	for _, championship := range championships {
		records := byChampionship[championship]
		fmt.Fprintf(w, "\n%s (%d matches):\n", championship, len(records))
		for _, rec := range records {
			fmt.Fprintf(w, "  %s\n", rec)
		}
	}

	if verbose && len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped (%d):\n", len(result.Skipped))
		for _, o := range result.Skipped {
			fmt.Fprintf(w, "  %s %s: %s\n", o.Scope, o.Championship, o.SkipReason)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d matches across %d championships\n", result.MatchCount, len(championships))
	if result.Path != "" {
		fmt.Fprintf(w, "Saved to %s\n", result.Path)
	}

	return nil
}

// writeTable outputs one row per match
func writeTable(w io.Writer, result *OutputResult) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, 0, len(match.Header))
	for _, h := range match.Header {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, rec := range result.Matches {
		t.AppendRow(table.Row{rec.Championship, rec.FirstTeam, rec.SecondTeam, rec.Score, rec.Time})
	}
	t.AppendFooter(table.Row{"", "", "", "total", result.MatchCount})

	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// writeICS outputs the matches as an iCalendar file
func writeICS(w io.Writer, result *OutputResult) error {
	date, err := match.Normalize(result.Date)
	if err != nil {
		return fmt.Errorf("calendar output needs a date: %w", err)
	}
	_, err = io.WriteString(w, calendar.GenerateICS(date, result.Matches, calendar.Location(), time.Now()))
	return err
}
