package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/matchcenter/yallakora-scraper/internal/config"
	"github.com/matchcenter/yallakora-scraper/internal/logger"
	"github.com/matchcenter/yallakora-scraper/internal/match"
	"github.com/matchcenter/yallakora-scraper/internal/notifier"
	"github.com/matchcenter/yallakora-scraper/internal/pipeline"
	"github.com/matchcenter/yallakora-scraper/internal/scraper"
	"github.com/matchcenter/yallakora-scraper/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNoMatches = 2
)

var (
	flagDate           string
	flagToday          bool
	flagYesterday      bool
	flagOutput         string
	flagConfig         string
	flagFormat         string
	flagLogFile        string
	flagAllGroupings   bool
	flagLenientDate    bool
	flagAnnounce       bool
	flagAnnounceDryRun bool
	flagAnnounceTo     string
	flagVerbose        bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yallakora",
		Short: "Save the yallakora.com match center for a day as CSV",
		Long: `A CLI tool that downloads the yallakora.com match center for one date
and saves every listed match to data/matches_<dd-mm-yyyy>.csv.
Without a date flag the date is asked for interactively.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runScrape,
	}

	cmd.Flags().StringVarP(&flagDate, "date", "d", "", "Match date as dd-mm-yyyy")
	cmd.Flags().BoolVar(&flagToday, "today", false, "Use today's date")
	cmd.Flags().BoolVar(&flagYesterday, "yesterday", false, "Use yesterday's date")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", config.DefaultDir, "Directory CSV files are written to")
	cmd.Flags().StringVar(&flagConfig, "config", config.DefaultFile, "Config file (json5, optional)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json, table or ics")
	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "Also append logs to this file")
	cmd.Flags().BoolVar(&flagAllGroupings, "all-groupings", false, "Read every championship on the page, not only the first")
	cmd.Flags().BoolVar(&flagLenientDate, "lenient-date", false, "Accept days that do not exist in the month (e.g. 31-02)")
	cmd.Flags().BoolVar(&flagAnnounce, "announce", false, "Post a summary to Twitter after a successful run")
	cmd.Flags().BoolVar(&flagAnnounceDryRun, "announce-dry-run", false, "Print the announcement instead of posting it")
	cmd.Flags().StringVar(&flagAnnounceTo, "announce-to", "twitter", "Announcement channel: twitter or telegram")
	cmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose logging")

	cmd.MarkFlagsMutuallyExclusive("date", "today", "yesterday")
	cmd.MarkFlagsMutuallyExclusive("announce", "announce-dry-run")

	cmd.AddCommand(newShowCmd())

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	channel, err := parseChannel(flagAnnounceTo)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logOut, closeLog, err := logOutput(cmd.ErrOrStderr(), cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	runID := uuid.New().String()
	log := logger.New(level, logOut).With(logger.Fields{"run_id": runID})
	metrics := logger.NewMetrics()

	input, err := resolveDate(cmd, cfg.LenientDates, time.Now())
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	log.Debug("Starting run", logger.Fields{
		"date":       input,
		"output_dir": store.Dir(),
		"groupings":  string(cfg.Groupings),
		"url":        cfg.BaseURL,
	})

	runner := pipeline.NewRunner(
		scraper.NewFetcher(cfg, log, metrics),
		scraper.NewExtractor(cfg.Groupings, log, metrics),
		store,
		pipeline.Options{LenientDates: cfg.LenientDates},
		log,
		metrics,
	)

	result := runner.Run(cmd.Context(), input)

	if flagVerbose {
		log.Debug("Run metrics", logger.Fields(metrics.GetSnapshot()))
	}

	if !result.Succeeded() {
		return describeFailure(result)
	}

	out := NewOutputResult(result, runID)
	if err := WriteOutput(cmd.OutOrStdout(), out, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if err := announce(cmd.OutOrStdout(), result, channel); err != nil {
		log.Error("Announcement failed", logger.Fields{"date": result.Date.String()}, err)
		return fmt.Errorf("announcing run: %w", err)
	}

	return nil
}

// loadConfig reads the config file and lets explicitly set flags override it
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") || cfg.OutputDir == "" {
		cfg.OutputDir = flagOutput
	}
	if flags.Changed("all-groupings") {
		cfg.Groupings = config.GroupingsFirst
		if flagAllGroupings {
			cfg.Groupings = config.GroupingsAll
		}
	}
	if flags.Changed("lenient-date") {
		cfg.LenientDates = flagLenientDate
	}
	if flags.Changed("log-file") {
		cfg.LogFile = flagLogFile
	}

	return cfg, cfg.Validate()
}

// logOutput returns where log lines go, adding the log file when one is set
func logOutput(stderr io.Writer, path string) (io.Writer, func(), error) {
	if path == "" {
		return stderr, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return io.MultiWriter(stderr, f), func() { f.Close() }, nil // nolint:errcheck
}

// resolveDate returns the dd-mm-yyyy text to scrape, prompting when no date flag is set
func resolveDate(cmd *cobra.Command, lenient bool, now time.Time) (string, error) {
	switch {
	case flagDate != "":
		return flagDate, nil
	case flagToday:
		return match.FromTime(now).String(), nil
	case flagYesterday:
		return match.FromTime(now.AddDate(0, 0, -1)).String(), nil
	}
	return promptDate(cmd.InOrStdin(), cmd.ErrOrStderr(), lenient)
}

// promptDate asks for a date until a valid one is entered
func promptDate(in io.Reader, out io.Writer, lenient bool) (string, error) {
	normalize := match.NormalizeStrict
	if lenient {
		normalize = match.Normalize
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter date (dd-mm-yyyy): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", fmt.Errorf("reading date: %w", err)
			}
			return "", fmt.Errorf("reading date: %w", io.ErrUnexpectedEOF)
		}

		text := strings.TrimSpace(scanner.Text())
		if _, err := normalize(text); err != nil {
			fmt.Fprintln(out, "Invalid date format. Please use dd-mm-yyyy format.")
			continue
		}
		return text, nil
	}
}

// describeFailure turns a failed run into the error reported to the user
func describeFailure(result *pipeline.Result) error {
	switch result.Reason {
	case pipeline.ReasonInvalidDateFormat:
		return fmt.Errorf("invalid date %q, please use dd-mm-yyyy format: %w", result.Input, result.Err)
	case pipeline.ReasonFetchError:
		return fmt.Errorf("could not fetch matches for %s: %w", result.Date, result.Err)
	case pipeline.ReasonNoMatchesFound:
		return fmt.Errorf("no matches found for %s: %w", result.Date, result.Err)
	case pipeline.ReasonWriteError:
		return fmt.Errorf("error saving to CSV: %w", result.Err)
	default:
		return result.Err
	}
}

// announce posts or prints the run summary when an announce flag is set
func announce(out io.Writer, result *pipeline.Result, channel string) error {
	var n notifier.Notifier
	switch {
	case flagAnnounceDryRun:
		n = notifier.NewDryRunNotifier(out)
	case flagAnnounce:
		var err error
		n, err = newNotifier(channel)
		if err != nil {
			return err
		}
	default:
		return nil
	}

	return n.Notify(notifier.Summary{
		Date:    result.Date,
		Path:    result.Path,
		Records: result.Records,
	})
}

// Announcement channels
const (
	ChannelTwitter  = "twitter"
	ChannelTelegram = "telegram"
)

func parseChannel(name string) (string, error) {
	channel := strings.ToLower(strings.TrimSpace(name))
	switch channel {
	case ChannelTwitter, ChannelTelegram:
		return channel, nil
	}
	return "", fmt.Errorf("unknown announcement channel: %s (must be 'twitter' or 'telegram')", name)
}

// newNotifier builds the notifier for a channel name
func newNotifier(channel string) (notifier.Notifier, error) {
	if channel == ChannelTelegram {
		tg, err := notifier.NewTelegramNotifier()
		if err != nil {
			return nil, err
		}
		return tg, nil
	}

	tw, err := notifier.NewTwitterNotifier()
	if err != nil {
		return nil, err
	}
	return tw, nil
}

// ExitCode maps an error returned by the root command to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, pipeline.ErrNoMatchesFound):
		return ExitNoMatches
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoMatchesFound) {
			fmt.Fprintln(os.Stderr, "No matches found for the given date.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	stop()
	os.Exit(ExitCode(err))
}
