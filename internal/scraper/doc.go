// Package scraper provides HTTP fetching and HTML parsing for the yallakora match center.
//
// The scraper package fetches the match-center page for one date and extracts a flat
// list of match records from it. Championship groupings are located by their class
// tokens (matchCard, matchesList), and fixtures inside each grouping are collected in
// finished, future, in-progress order. Entries or groupings with missing markup are
// skipped and reported as outcomes instead of failing the whole extraction.
package scraper
