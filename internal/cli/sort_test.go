package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matchcenter/yallakora-scraper/internal/match"
)

func TestSortRecords(t *testing.T) {
	records := func() []match.Record {
		return []match.Record{
			{Championship: "B", FirstTeam: "zamalek", Time: "22:00"},
			{Championship: "A", FirstTeam: "Ahly", Time: "TBD"},
			{Championship: "B", FirstTeam: "Masry", Time: "45'"},
			{Championship: "A", FirstTeam: "Enppi", Time: "18:30"},
		}
	}
	firstTeams := func(rs []match.Record) []string {
		names := make([]string, 0, len(rs))
		for _, r := range rs {
			names = append(names, r.FirstTeam)
		}
		return names
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortNone, []string{"zamalek", "Ahly", "Masry", "Enppi"}},
		{SortByTime, []string{"Enppi", "zamalek", "Ahly", "Masry"}},
		{SortByTeam, []string{"Ahly", "Enppi", "Masry", "zamalek"}},
		{SortChampionship, []string{"Ahly", "Enppi", "zamalek", "Masry"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			rs := records()
			sortRecords(rs, tt.order)
			if diff := cmp.Diff(tt.want, firstTeams(rs)); diff != "" {
				t.Errorf("sortRecords(%q) mismatch (-want +got):\n%s", tt.order, diff)
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	for _, valid := range []string{"", "time", "TEAM", "championship"} {
		if _, err := parseSortOrder(valid); err != nil {
			t.Errorf("parseSortOrder(%q) error: %v", valid, err)
		}
	}
	if _, err := parseSortOrder("score"); err == nil {
		t.Error("parseSortOrder(score) should fail")
	}
}
