// Package cli implements the command-line interface for the yallakora scraper.
//
// The cli package provides the Cobra-based CLI. The root command resolves a date
// (flag, shortcut or interactive prompt), runs the scrape pipeline and prints a
// summary as text, JSON or a table. The show subcommand prints a CSV file saved
// by an earlier run.
package cli
