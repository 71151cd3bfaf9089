package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matchcenter/yallakora-scraper/internal/filter"
	"github.com/matchcenter/yallakora-scraper/internal/notifier"
	"github.com/matchcenter/yallakora-scraper/internal/storage"
)

var (
	matchesFile  = flag.String("file", "", "Path to a matches_<dd-mm-yyyy>.csv file (required)")
	dryRun       = flag.Bool("dry-run", false, "Print the announcement without posting")
	championship = flag.String("championship", "", "Only announce matches of this championship")
	team         = flag.String("team", "", "Only announce matches of this team")
	channel      = flag.String("channel", "twitter", "Where to post: twitter or telegram")
)

func main() {
	flag.Parse()

	if *matchesFile == "" {
		fmt.Fprintf(os.Stderr, "Error: --file is required\n")
		os.Exit(1)
	}

	date, err := storage.DateFromPath(*matchesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	records, err := storage.Load(*matchesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading matches: %v\n", err)
		os.Exit(1)
	}

	f := filter.NewFilter()
	if *championship != "" {
		f.Championships = []string{*championship}
	}
	if *team != "" {
		f.Teams = []string{*team}
	}
	records = f.Apply(records)

	if len(records) == 0 {
		fmt.Println("No matches to announce")
		os.Exit(0)
	}

	var n notifier.Notifier
	if *dryRun {
		n = notifier.NewDryRunNotifier(os.Stdout)
		fmt.Printf("DRY RUN MODE - Would announce %d matches:\n\n", len(records))
	} else {
		switch *channel {
		case "twitter":
			n, err = notifier.NewTwitterNotifier()
		case "telegram":
			n, err = notifier.NewTelegramNotifier()
		default:
			err = fmt.Errorf("unknown channel %q", *channel)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing %s client: %v\n", *channel, err)
			os.Exit(1)
		}
	}

	summary := notifier.Summary{Date: date, Path: *matchesFile, Records: records}
	if err := n.Notify(summary); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting announcement: %v\n", err)
		os.Exit(1)
	}

	if !*dryRun {
		fmt.Printf("Successfully announced %d matches\n", len(records))
	}
}
