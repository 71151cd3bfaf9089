// Package match provides the record types produced by the match-center scraper.
//
// The match package defines Record, the flat row written to CSV for every fixture,
// the Outcome type that tells an extracted record apart from a skipped entry, and
// Date, the normalized form of a user-entered dd-mm-yyyy date. Records keep a fixed
// field order because that order is also the persisted column order.
package match
