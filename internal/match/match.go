package match

import (
	"fmt"
	"strconv"
)

const (
	// ScoreUnavailable is used when a fixture has no published score.
	ScoreUnavailable = "- - -"
	// TimeUnavailable is used when a fixture has no published kickoff or state time.
	TimeUnavailable = "TBD"
)

// Header holds the column names in persisted order.
var Header = []string{"championship", "first_team", "second_team", "score", "time"}

// Status is the state a fixture is listed under on the match-center page
type Status string

const (
	StatusFinished   Status = "finished"
	StatusFuture     Status = "future"
	StatusInProgress Status = "now"
)

// Statuses lists the fixture states in the order entries are collected.
var Statuses = []Status{StatusFinished, StatusFuture, StatusInProgress}

// Record represents one extracted football match
type Record struct {
	Championship string `json:"championship"`
	FirstTeam    string `json:"first_team"`
	SecondTeam   string `json:"second_team"`
	Score        string `json:"score"`
	Time         string `json:"time"`
}

// NewRecord creates a Record, substituting sentinels for a missing score or time.
// The first two score parts are joined as "<left> - <right>"; fewer than two parts
// yield ScoreUnavailable.
func NewRecord(championship, firstTeam, secondTeam string, scoreParts []string, kickoff string) Record {
	score := ScoreUnavailable
	if len(scoreParts) >= 2 {
		score = FormatScore(scoreParts[0], scoreParts[1])
	}
	if kickoff == "" {
		kickoff = TimeUnavailable
	}
	return Record{
		Championship: championship,
		FirstTeam:    firstTeam,
		SecondTeam:   secondTeam,
		Score:        score,
		Time:         kickoff,
	}
}

// FormatScore joins the two sides of a score
func FormatScore(left, right string) string {
	return fmt.Sprintf("%s - %s", left, right)
}

// Fields returns the record values in column order
func (r Record) Fields() []string {
	return []string{r.Championship, r.FirstTeam, r.SecondTeam, r.Score, r.Time}
}

// HasScore reports whether the record carries a real score
func (r Record) HasScore() bool {
	return r.Score != ScoreUnavailable
}

// Kickoff returns the hour and minute of an HH:MM time. Live minutes such
// as 45' and TBD are not clock times.
func (r Record) Kickoff() (hour, minute int, ok bool) {
	s := r.Time
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, false
	}
	h, errH := strconv.Atoi(s[0:2])
	m, errM := strconv.Atoi(s[3:5])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// String renders the record for text output.
func (r Record) String() string {
	return fmt.Sprintf("%s %s %s (%s)", r.FirstTeam, r.Score, r.SecondTeam, r.Time)
}

// Scope tells whether an Outcome describes a single entry or a whole grouping
type Scope string

const (
	ScopeEntry    Scope = "entry"
	ScopeGrouping Scope = "grouping"
)

// Outcome is the result of processing one fixture entry or one championship grouping.
// Record is set for extracted entries and nil for skipped ones.
type Outcome struct {
	Scope        Scope   `json:"scope"`
	Championship string  `json:"championship,omitempty"`
	Status       Status  `json:"status,omitempty"`
	Record       *Record `json:"record,omitempty"`
	Skipped      bool    `json:"skipped"`
	SkipReason   string  `json:"skip_reason,omitempty"`
}

// Extracted builds a successful entry outcome
func Extracted(status Status, rec Record) Outcome {
	return Outcome{
		Scope:        ScopeEntry,
		Championship: rec.Championship,
		Status:       status,
		Record:       &rec,
	}
}

// SkippedEntry builds an outcome for an entry that produced no record
func SkippedEntry(championship string, status Status, reason string) Outcome {
	return Outcome{
		Scope:        ScopeEntry,
		Championship: championship,
		Status:       status,
		Skipped:      true,
		SkipReason:   reason,
	}
}

// SkippedGrouping builds an outcome for a championship grouping that was abandoned
func SkippedGrouping(championship, reason string) Outcome {
	return Outcome{
		Scope:        ScopeGrouping,
		Championship: championship,
		Skipped:      true,
		SkipReason:   reason,
	}
}

// Records returns the records of all extracted outcomes, in order.
func Records(outcomes []Outcome) []Record {
	records := make([]Record, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Skipped || o.Scope != ScopeEntry || o.Record == nil {
			continue
		}
		records = append(records, *o.Record)
	}
	return records
}

// CountSkipped returns how many outcomes of the given scope were skipped
func CountSkipped(outcomes []Outcome, scope Scope) int {
	n := 0
	for _, o := range outcomes {
		if o.Skipped && o.Scope == scope {
			n++
		}
	}
	return n
}

// GroupByChampionship groups records by championship, keeping first-seen order of
// championships and discovery order within each.
func GroupByChampionship(records []Record) ([]string, map[string][]Record) {
	order := make([]string, 0)
	groups := make(map[string][]Record)
	for _, r := range records {
		if _, ok := groups[r.Championship]; !ok {
			order = append(order, r.Championship)
		}
		groups[r.Championship] = append(groups[r.Championship], r)
	}
	return order, groups
}
