// Package filter narrows a list of match records down for display or announcement.
//
// Criteria:
//   - Championships (substring matching, case-insensitive)
//   - Teams (substring matching on either side, case-insensitive, optionally fuzzy)
//   - Played only (records carrying a score)
//   - Scheduled only (records without a score)
//
// Filtering never touches saved files; the CSV always holds every match found.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Teams = []string{"الأهلي"}
//	f.PlayedOnly = true
//	shown := f.Apply(records)
package filter

import (
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/matchcenter/yallakora-scraper/internal/match"
)

// DefaultFuzzyThreshold is the Jaro-Winkler similarity a team name needs to
// match a misspelled query
const DefaultFuzzyThreshold = 0.9

// Filter represents record filtering criteria
type Filter struct {
	// Championship filtering (case-insensitive substring match)
	Championships []string `json:"championships,omitempty"`

	// Team filtering, matches either team (case-insensitive substring match)
	Teams []string `json:"teams,omitempty"`

	PlayedOnly    bool `json:"played_only,omitempty"`
	ScheduledOnly bool `json:"scheduled_only,omitempty"`

	// FuzzyThreshold, when positive, also accepts team names whose similarity
	// to a query reaches it
	FuzzyThreshold float64 `json:"fuzzy_threshold,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all records until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Championships: []string{},
		Teams:         []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return len(f.Championships) == 0 &&
		len(f.Teams) == 0 &&
		!f.PlayedOnly &&
		!f.ScheduledOnly
}

// Validate rejects criteria that can never match
func (f *Filter) Validate() error {
	if f.PlayedOnly && f.ScheduledOnly {
		return fmt.Errorf("played-only and scheduled-only cannot be combined")
	}
	if f.FuzzyThreshold < 0 || f.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must be between 0 and 1, got %v", f.FuzzyThreshold)
	}
	return nil
}

// Matches checks if a record matches all active filter criteria.
// An empty filter matches all records.
func (f *Filter) Matches(rec match.Record) bool {
	if f.IsEmpty() {
		return true
	}

	if f.PlayedOnly && !rec.HasScore() {
		return false
	}
	if f.ScheduledOnly && rec.HasScore() {
		return false
	}

	if len(f.Championships) > 0 && !containsAny(rec.Championship, f.Championships) {
		return false
	}

	if len(f.Teams) > 0 && !f.teamMatches(rec.FirstTeam) && !f.teamMatches(rec.SecondTeam) {
		return false
	}

	return true
}

// Apply returns the records matching the filter, in their original order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(records []match.Record) []match.Record {
	if f.IsEmpty() {
		return records
	}

	filtered := make([]match.Record, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec) {
			filtered = append(filtered, rec)
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "Championships: الدوري المصري | Teams: الأهلي, الزمالك | Played only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if len(f.Championships) > 0 {
		parts = append(parts, "Championships: "+strings.Join(f.Championships, ", "))
	}
	if len(f.Teams) > 0 {
		parts = append(parts, "Teams: "+strings.Join(f.Teams, ", "))
	}
	if f.PlayedOnly {
		parts = append(parts, "Played only")
	}
	if f.ScheduledOnly {
		parts = append(parts, "Scheduled only")
	}

	return strings.Join(parts, " | ")
}

func (f *Filter) teamMatches(team string) bool {
	if containsAny(team, f.Teams) {
		return true
	}
	if f.FuzzyThreshold <= 0 {
		return false
	}

	lower := strings.ToLower(team)
	for _, query := range f.Teams {
		query = strings.ToLower(strings.TrimSpace(query))
		if query == "" {
			continue
		}
		if matchr.JaroWinkler(lower, query, false) >= f.FuzzyThreshold {
			return true
		}
	}
	return false
}

// containsAny reports whether s contains one of needles, ignoring case.
// Blank needles never match.
func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
