package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/matchcenter/yallakora-scraper/internal/match"
)

// Longest announcement each channel accepts, in characters
const (
	MaxLength         = 280
	TelegramMaxLength = 4096
)

// Summary describes a successful run
type Summary struct {
	Date    match.Date
	Path    string
	Records []match.Record
}

// Notifier defines the interface for announcing a run
type Notifier interface {
	// Notify announces the given run summary
	Notify(summary Summary) error
}

// formatAnnouncement renders a summary as one post: a headline followed by one
// line per match, grouped under each championship. Text longer than limit
// characters is cut and ends with an ellipsis.
func formatAnnouncement(summary Summary, limit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "⚽ %s: %d matches\n", summary.Date, len(summary.Records))

	championships, byChampionship := match.GroupByChampionship(summary.Records)
	for _, championship := range championships {
		fmt.Fprintf(&b, "\n🏆 %s\n", championship)
		for _, rec := range byChampionship[championship] {
			if rec.HasScore() {
				fmt.Fprintf(&b, "%s %s %s\n", rec.FirstTeam, rec.Score, rec.SecondTeam)
			} else {
				fmt.Fprintf(&b, "%s - %s (%s)\n", rec.FirstTeam, rec.SecondTeam, rec.Time)
			}
		}
	}

	text := strings.TrimRight(b.String(), "\n")

	// limits count characters, not bytes
	if utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		text = string(runes[:limit-3]) + "..."
	}

	return text
}
