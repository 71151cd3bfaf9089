package match

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name       string
		scoreParts []string
		kickoff    string
		wantScore  string
		wantTime   string
	}{
		{"full score and time", []string{"2", "1"}, "20:00", "2 - 1", "20:00"},
		{"no score parts", nil, "18:30", ScoreUnavailable, "18:30"},
		{"single score part", []string{"3"}, "18:30", ScoreUnavailable, "18:30"},
		{"extra score parts ignored", []string{"0", "0", "4"}, "", "0 - 0", TimeUnavailable},
		{"missing time", []string{"1", "1"}, "", "1 - 1", TimeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord("League", "Team A", "Team B", tt.scoreParts, tt.kickoff)
			if rec.Score != tt.wantScore {
				t.Errorf("Score = %q, want %q", rec.Score, tt.wantScore)
			}
			if rec.Time != tt.wantTime {
				t.Errorf("Time = %q, want %q", rec.Time, tt.wantTime)
			}
			if rec.HasScore() != (tt.wantScore != ScoreUnavailable) {
				t.Errorf("HasScore() = %v for score %q", rec.HasScore(), rec.Score)
			}
		})
	}
}

func TestRecord_FieldsMatchHeader(t *testing.T) {
	rec := Record{
		Championship: "Egyptian League",
		FirstTeam:    "Al Ahly",
		SecondTeam:   "Zamalek",
		Score:        "2 - 1",
		Time:         "20:00",
	}

	want := []string{"Egyptian League", "Al Ahly", "Zamalek", "2 - 1", "20:00"}
	if diff := cmp.Diff(want, rec.Fields()); diff != "" {
		t.Errorf("Fields() mismatch (-want +got):\n%s", diff)
	}
	if len(rec.Fields()) != len(Header) {
		t.Errorf("Fields() has %d values, Header has %d", len(rec.Fields()), len(Header))
	}
}

func TestOutcomes(t *testing.T) {
	a := NewRecord("Cup", "A", "B", []string{"1", "0"}, "19:00")
	b := NewRecord("Cup", "C", "D", nil, "")

	outcomes := []Outcome{
		Extracted(StatusFinished, a),
		SkippedEntry("Cup", StatusFinished, "missing second team"),
		Extracted(StatusFuture, b),
		SkippedGrouping("", "missing title"),
	}

	if diff := cmp.Diff([]Record{a, b}, Records(outcomes)); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
	if got := CountSkipped(outcomes, ScopeEntry); got != 1 {
		t.Errorf("CountSkipped(entry) = %d, want 1", got)
	}
	if got := CountSkipped(outcomes, ScopeGrouping); got != 1 {
		t.Errorf("CountSkipped(grouping) = %d, want 1", got)
	}
}

func TestOutcome_JSON(t *testing.T) {
	rec := NewRecord("Cup", "A", "B", []string{"2", "1"}, "")

	tests := []struct {
		name       string
		outcome    Outcome
		wantRecord bool
	}{
		{"extracted entry", Extracted(StatusFinished, rec), true},
		{"skipped entry", SkippedEntry("Cup", StatusFuture, "missing first team"), false},
		{"skipped grouping", SkippedGrouping("Cup", "malformed championship markup"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.outcome)
			if err != nil {
				t.Fatalf("json.Marshal() error: %v", err)
			}
			if got := strings.Contains(string(data), `"record"`); got != tt.wantRecord {
				t.Errorf("json = %s, record present = %v, want %v", data, got, tt.wantRecord)
			}
		})
	}
}

func TestGroupByChampionship(t *testing.T) {
	records := []Record{
		{Championship: "Premier League", FirstTeam: "A"},
		{Championship: "La Liga", FirstTeam: "B"},
		{Championship: "Premier League", FirstTeam: "C"},
	}

	order, groups := GroupByChampionship(records)

	if diff := cmp.Diff([]string{"Premier League", "La Liga"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if len(groups["Premier League"]) != 2 || groups["Premier League"][1].FirstTeam != "C" {
		t.Errorf("Premier League group = %+v", groups["Premier League"])
	}
}

func TestRecord_Kickoff(t *testing.T) {
	tests := []struct {
		time       string
		wantHour   int
		wantMinute int
		wantOK     bool
	}{
		{"00:00", 0, 0, true},
		{"20:15", 20, 15, true},
		{"23:59", 23, 59, true},
		{"24:00", 0, 0, false},
		{"12:60", 0, 0, false},
		{TimeUnavailable, 0, 0, false},
		{"90'", 0, 0, false},
		{"2:15", 0, 0, false},
		{"-1:30", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			h, m, ok := Record{Time: tt.time}.Kickoff()
			if h != tt.wantHour || m != tt.wantMinute || ok != tt.wantOK {
				t.Errorf("Kickoff(%q) = %d, %d, %v, want %d, %d, %v", tt.time, h, m, ok, tt.wantHour, tt.wantMinute, tt.wantOK)
			}
		})
	}
}
