package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/matchcenter/yallakora-scraper/internal/match"
)

func mustDate(t *testing.T, s string) match.Date {
	t.Helper()
	d, err := match.Normalize(s)
	if err != nil {
		t.Fatalf("Normalize(%q) error: %v", s, err)
	}
	return d
}

var fixedNow = time.Date(2025, 9, 29, 8, 0, 0, 0, time.UTC)

func TestGenerateICS(t *testing.T) {
	date := mustDate(t, "29-09-2025")
	records := []match.Record{
		{Championship: "الدوري المصري الممتاز", FirstTeam: "الأهلي", SecondTeam: "الزمالك", Score: "2 - 1", Time: "20:00"},
		{Championship: "الدوري المصري الممتاز", FirstTeam: "بيراميدز", SecondTeam: "المصري", Score: match.ScoreUnavailable, Time: "22:00"},
	}

	ics := GenerateICS(date, records, time.UTC, fixedNow)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//yallakora-scraper//match center//AR",
		"X-WR-CALNAME:Matches 29-09-2025",
		"DTSTAMP:20250929T080000Z",
		"DTSTART:20250929T200000Z",
		"DTEND:20250929T220000Z",
		"SUMMARY:الأهلي 2 - 1 الزمالك",
		"SUMMARY:بيراميدز vs المصري",
		"DESCRIPTION:الدوري المصري الممتاز\\nKickoff: 20:00",
		"CATEGORIES:الدوري المصري الممتاز",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("VEVENT count = %d, want 2", got)
	}

	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		if strings.Contains(line, "\n") {
			t.Errorf("line contains a bare newline: %q", line)
		}
	}
}

func TestGenerateICS_KickoffZone(t *testing.T) {
	date := mustDate(t, "15-01-2025")
	records := []match.Record{{Championship: "Cup", FirstTeam: "A", SecondTeam: "B", Score: match.ScoreUnavailable, Time: "19:30"}}

	ics := GenerateICS(date, records, Location(), fixedNow)

	// Cairo is UTC+2 in January
	if !strings.Contains(ics, "DTSTART:20250115T173000Z") {
		t.Errorf("kickoff not converted from Cairo time:\n%s", ics)
	}
}

func TestGenerateICS_AllDayWithoutKickoff(t *testing.T) {
	date := mustDate(t, "31-12-2025")
	records := []match.Record{
		{Championship: "Cup", FirstTeam: "A", SecondTeam: "B", Score: match.ScoreUnavailable, Time: match.TimeUnavailable},
		{Championship: "Cup", FirstTeam: "C", SecondTeam: "D", Score: "0 - 0", Time: "45'"},
	}

	ics := GenerateICS(date, records, time.UTC, fixedNow)

	if got := strings.Count(ics, "DTSTART;VALUE=DATE:20251231"); got != 2 {
		t.Errorf("all-day DTSTART count = %d, want 2", got)
	}
	if !strings.Contains(ics, "DTEND;VALUE=DATE:20260101") {
		t.Error("all-day event should end the next day")
	}
}

func TestGenerateICS_SpecialCharacters(t *testing.T) {
	date := mustDate(t, "01-05-2025")
	records := []match.Record{{Championship: "Cup; Final, Leg 2", FirstTeam: "A\\B", SecondTeam: "C", Score: match.ScoreUnavailable, Time: "18:00"}}

	ics := GenerateICS(date, records, time.UTC, fixedNow)

	if !strings.Contains(ics, "CATEGORIES:Cup\\; Final\\, Leg 2") {
		t.Errorf("special characters should be escaped:\n%s", ics)
	}
	if !strings.Contains(ics, "SUMMARY:A\\\\B vs C") {
		t.Errorf("backslash should be escaped:\n%s", ics)
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS(mustDate(t, "01-05-2025"), nil, time.UTC, fixedNow)

	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("no records should produce no events")
	}
	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Errorf("calendar envelope missing:\n%s", ics)
	}
}

func TestEventID(t *testing.T) {
	date := mustDate(t, "29-09-2025")
	a := match.Record{Championship: "Cup", FirstTeam: "A", SecondTeam: "B", Score: "1 - 0", Time: "20:00"}
	live := a
	live.Score = "2 - 0"
	other := a
	other.SecondTeam = "C"

	if EventID(date, a) != EventID(date, live) {
		t.Error("EventID should not change as the score changes")
	}
	if EventID(date, a) == EventID(date, other) {
		t.Error("different fixtures should have different IDs")
	}
	if EventID(date, a) == EventID(mustDate(t, "30-09-2025"), a) {
		t.Error("the same fixture on another day should have another ID")
	}
}
