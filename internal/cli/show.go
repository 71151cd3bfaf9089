package cli

import (
	"fmt"
	"time"

	"github.com/matchcenter/yallakora-scraper/internal/config"
	"github.com/matchcenter/yallakora-scraper/internal/filter"
	"github.com/matchcenter/yallakora-scraper/internal/match"
	"github.com/matchcenter/yallakora-scraper/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagShowDate   string
	flagShowSort   string
	flagShowOutput string
	flagShowFormat string

	flagShowTeams         []string
	flagShowChampionships []string
	flagShowPlayed        bool
	flagShowScheduled     bool
	flagShowFuzzy         bool
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [file.csv]",
		Short: "Print matches saved by an earlier run",
		Long: `Print a matches_<dd-mm-yyyy>.csv file. The file is given as an argument
or found in the output directory with --date.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runShow,
	}

	cmd.Flags().StringVarP(&flagShowDate, "date", "d", "", "Date of the saved file as dd-mm-yyyy")
	cmd.Flags().StringVarP(&flagShowOutput, "output", "o", config.DefaultDir, "Directory the file was written to")
	cmd.Flags().StringVar(&flagShowFormat, "format", "text", "Output format: text, json, table or ics")
	cmd.Flags().StringVar(&flagShowSort, "sort", "", "Sort matches by time, team or championship")
	cmd.Flags().StringSliceVar(&flagShowTeams, "team", nil, "Only show matches of these teams (repeatable)")
	cmd.Flags().StringSliceVar(&flagShowChampionships, "championship", nil, "Only show matches of these championships (repeatable)")
	cmd.Flags().BoolVar(&flagShowPlayed, "played", false, "Only show matches with a score")
	cmd.Flags().BoolVar(&flagShowScheduled, "scheduled", false, "Only show matches without a score")

	cmd.Flags().BoolVar(&flagShowFuzzy, "fuzzy", false, "Let --team also match similar spellings")

	cmd.MarkFlagsMutuallyExclusive("played", "scheduled")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagShowFormat)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(flagShowSort)
	if err != nil {
		return err
	}

	f := &filter.Filter{
		Championships: flagShowChampionships,
		Teams:         flagShowTeams,
		PlayedOnly:    flagShowPlayed,
		ScheduledOnly: flagShowScheduled,
	}
	if flagShowFuzzy {
		f.FuzzyThreshold = filter.DefaultFuzzyThreshold
	}
	if err := f.Validate(); err != nil {
		return err
	}

	path, date, err := showPath(args)
	if err != nil {
		return err
	}

	records, err := storage.Load(path)
	if err != nil {
		return err
	}
	records = f.Apply(records)
	sortRecords(records, order)

	return WriteOutput(cmd.OutOrStdout(), &OutputResult{
		CheckedAt:  time.Now().UTC(),
		Date:       date.String(),
		Path:       path,
		MatchCount: len(records),
		Matches:    records,
	}, format, flagVerbose)
}

// showPath resolves the file to print and its date
func showPath(args []string) (string, match.Date, error) {
	if len(args) == 1 {
		date, err := storage.DateFromPath(args[0])
		if err != nil {
			return "", match.Date{}, err
		}
		return args[0], date, nil
	}

	if flagShowDate == "" {
		return "", match.Date{}, fmt.Errorf("either a file or --date is required")
	}
	date, err := match.Normalize(flagShowDate)
	if err != nil {
		return "", match.Date{}, err
	}

	path, err := storage.PathIn(flagShowOutput, date)
	if err != nil {
		return "", match.Date{}, err
	}
	return path, date, nil
}
