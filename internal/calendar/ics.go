// Package calendar renders a day's matches as an iCalendar (.ics) file.
package calendar

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // kickoff zone must resolve on hosts without a zoneinfo database

	"github.com/google/uuid"
	"github.com/matchcenter/yallakora-scraper/internal/match"
)

// Zone is the time zone the match center lists kickoff times in
const Zone = "Africa/Cairo"

// MatchDuration is the length given to a match with a known kickoff
const MatchDuration = 2 * time.Hour

// Location returns the kickoff time zone, falling back to UTC+2
func Location() *time.Location {
	loc, err := time.LoadLocation(Zone)
	if err != nil {
		return time.FixedZone("EET", 2*60*60)
	}
	return loc
}

// GenerateICS generates one calendar with an event per match. Matches without
// an HH:MM kickoff become all-day events.
func GenerateICS(date match.Date, records []match.Record, loc *time.Location, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//yallakora-scraper//match center//AR\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS("Matches "+date.String())))

	for _, rec := range records {
		writeEvent(&ics, date, rec, loc, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, date match.Date, rec match.Record, loc *time.Location, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	// UID stays the same across runs so calendar clients update instead of duplicating
	ics.WriteString(fmt.Sprintf("UID:%s@yallakora.com\r\n", EventID(date, rec)))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(now)))

	if hour, minute, ok := rec.Kickoff(); ok {
		start := time.Date(date.Year, time.Month(date.Month), date.Day, hour, minute, 0, 0, loc)
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(start.Add(MatchDuration))))
	} else {
		day := time.Date(date.Year, time.Month(date.Month), date.Day, 0, 0, 0, 0, time.UTC)
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", day.Format("20060102")))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", day.AddDate(0, 0, 1).Format("20060102")))
	}

	summary := fmt.Sprintf("%s vs %s", rec.FirstTeam, rec.SecondTeam)
	if rec.HasScore() {
		summary = fmt.Sprintf("%s %s %s", rec.FirstTeam, rec.Score, rec.SecondTeam)
	}
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary)))

	description := fmt.Sprintf("%s\nKickoff: %s", rec.Championship, rec.Time)
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))
	ics.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", escapeICS(rec.Championship)))

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// EventID derives a stable identifier for a match on a date
func EventID(date match.Date, rec match.Record) string {
	name := strings.Join([]string{date.String(), rec.Championship, rec.FirstTeam, rec.SecondTeam}, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 text escaping
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
