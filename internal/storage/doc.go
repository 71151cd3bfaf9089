// Package storage writes extracted match records to CSV files.
//
// Each scraped date produces one file, matches_<dd-mm-yyyy>.csv, inside the output
// directory (default ./data). Files are UTF-8 with a byte-order mark so spreadsheet
// tools render Arabic team and championship names correctly, and use ';' as the
// delimiter because display names often contain commas.
package storage
