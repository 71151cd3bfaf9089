package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/matchcenter/yallakora-scraper/internal/logger"
	"github.com/matchcenter/yallakora-scraper/internal/match"
	"github.com/matchcenter/yallakora-scraper/internal/scraper"
	"github.com/matchcenter/yallakora-scraper/internal/storage"
)

// State is a step of a run
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateFetching    State = "fetching"
	StateExtracting  State = "extracting"
	StateSerializing State = "serializing"
	StateSuccess     State = "success"
	StateFailure     State = "failure"
)

// Reason explains why a run failed
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonInvalidDateFormat Reason = "InvalidDateFormat"
	ReasonFetchError        Reason = "FetchError"
	ReasonNoMatchesFound    Reason = "NoMatchesFound"
	ReasonWriteError        Reason = "WriteError"
)

// ErrNoMatchesFound is returned when the page lists no readable matches for the date
var ErrNoMatchesFound = errors.New("no matches found")

// Fetcher returns the parsed match-center page for a date
type Fetcher interface {
	Fetch(ctx context.Context, date match.Date) (*goquery.Document, error)
}

// Extractor reads match records from a parsed page
type Extractor interface {
	Extract(doc *goquery.Document) *scraper.Extraction
}

// Saver persists records for a date and returns where they went
type Saver interface {
	Save(records []match.Record, date match.Date) (string, error)
}

// Options tune a Runner
type Options struct {
	// LenientDates accepts day 31 in every month, skipping the calendar check
	LenientDates bool
}

// Runner executes scrape runs
type Runner struct {
	fetcher   Fetcher
	extractor Extractor
	saver     Saver
	opts      Options
	log       *logger.Logger
	metrics   *logger.Metrics
}

// NewRunner creates a Runner. log and metrics may be nil.
func NewRunner(fetcher Fetcher, extractor Extractor, saver Saver, opts Options, log *logger.Logger, metrics *logger.Metrics) *Runner {
	if log == nil {
		log = logger.Discard()
	}
	return &Runner{
		fetcher:   fetcher,
		extractor: extractor,
		saver:     saver,
		opts:      opts,
		log:       log,
		metrics:   metrics,
	}
}

// Result describes a finished run
type Result struct {
	State       State
	Reason      Reason
	Err         error
	Input       string
	Date        match.Date
	Extraction  *scraper.Extraction
	Records     []match.Record
	Path        string
	Transitions []State
	Duration    time.Duration
}

// Succeeded reports whether the run saved a file
func (r *Result) Succeeded() bool {
	return r.State == StateSuccess
}

func (r *Result) enter(state State, log *logger.Logger) {
	r.Transitions = append(r.Transitions, state)
	r.State = state
	log.Debug("Pipeline state", logger.Fields{"state": string(state)})
}

func (r *Result) fail(reason Reason, err error, log *logger.Logger) *Result {
	r.Reason = reason
	r.Err = err
	r.enter(StateFailure, log)
	return r
}

// Run scrapes the date given as dd-mm-yyyy text
func (rn *Runner) Run(ctx context.Context, input string) *Result {
	start := time.Now()
	result := &Result{
		State:       StateIdle,
		Input:       input,
		Transitions: []State{StateIdle},
	}
	defer func() {
		result.Duration = time.Since(start)
		rn.metrics.RecordTiming("run", result.Duration)
	}()

	result.enter(StateValidating, rn.log)
	date, err := rn.normalize(input)
	if err != nil {
		rn.log.Error("Invalid date format. Please use dd-mm-yyyy format.", logger.Fields{"input": input}, err)
		return result.fail(ReasonInvalidDateFormat, err, rn.log)
	}
	result.Date = date

	result.enter(StateFetching, rn.log)
	doc, err := rn.fetcher.Fetch(ctx, date)
	if err != nil {
		if !errors.Is(err, scraper.ErrFetch) {
			err = fmt.Errorf("%w: %w", scraper.ErrFetch, err)
		}
		return result.fail(ReasonFetchError, err, rn.log)
	}

	result.enter(StateExtracting, rn.log)
	extraction := rn.extractor.Extract(doc)
	result.Extraction = extraction
	result.Records = extraction.Records

	if len(extraction.Records) == 0 {
		rn.log.Info("No matches found", logger.Fields{
			"date":      date.String(),
			"groupings": extraction.Groupings,
		})
		return result.fail(ReasonNoMatchesFound, fmt.Errorf("%w for %s", ErrNoMatchesFound, date), rn.log)
	}

	result.enter(StateSerializing, rn.log)
	path, err := rn.saver.Save(extraction.Records, date)
	if errors.Is(err, storage.ErrNothingToSave) {
		return result.fail(ReasonNoMatchesFound, fmt.Errorf("%w for %s: %w", ErrNoMatchesFound, date, err), rn.log)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrWrite) {
			err = fmt.Errorf("%w: %w", storage.ErrWrite, err)
		}
		rn.log.Error("Error saving to CSV", logger.Fields{"date": date.String()}, err)
		return result.fail(ReasonWriteError, err, rn.log)
	}

	result.Path = path
	result.enter(StateSuccess, rn.log)
	rn.log.Info("Successfully saved matches", logger.Fields{
		"count": len(extraction.Records),
		"path":  path,
	})
	return result
}

func (rn *Runner) normalize(input string) (match.Date, error) {
	if rn.opts.LenientDates {
		return match.Normalize(input)
	}
	return match.NormalizeStrict(input)
}
