// Package notifier announces finished scrape runs.
//
// An announcement summarizes the matches saved for a date. It can be posted to
// Twitter (credentials come from the environment) or printed for a dry run.
package notifier
