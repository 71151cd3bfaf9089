package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matchcenter/yallakora-scraper/internal/match"
)

// SortOrder represents the available sorting options for printed matches
type SortOrder string

const (
	SortNone         SortOrder = ""
	SortByTime       SortOrder = "time"
	SortByTeam       SortOrder = "team"
	SortChampionship SortOrder = "championship"
)

func parseSortOrder(name string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(name)))
	switch order {
	case SortNone, SortByTime, SortByTeam, SortChampionship:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'time', 'team' or 'championship')", name)
}

// sortRecords orders records for display. The sort is stable, so records that
// compare equal keep their page order.
func sortRecords(records []match.Record, order SortOrder) {
	switch order {
	case SortByTime:
		sort.SliceStable(records, func(i, j int) bool {
			return compareByTime(records[i], records[j])
		})
	case SortByTeam:
		sort.SliceStable(records, func(i, j int) bool {
			return strings.ToLower(records[i].FirstTeam) < strings.ToLower(records[j].FirstTeam)
		})
	case SortChampionship:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Championship < records[j].Championship
		})
	}
}

// compareByTime puts clock times (HH:MM) first in order, then anything else
// (live minutes, TBD) in page order
func compareByTime(i, j match.Record) bool {
	hi, mi, okI := i.Kickoff()
	hj, mj, okJ := j.Kickoff()

	if okI && okJ {
		return hi*60+mi < hj*60+mj
	}
	return okI && !okJ
}
