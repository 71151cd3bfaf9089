// Package pipeline sequences one scrape: validate the date, fetch the page,
// extract records and save them.
//
// A Runner moves through Idle, Validating, Fetching, Extracting and Serializing
// and ends in Success or Failure. Failures carry a Reason (InvalidDateFormat,
// FetchError, NoMatchesFound, WriteError) and nothing is retried.
package pipeline
