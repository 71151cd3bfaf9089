package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matchcenter/yallakora-scraper/internal/match"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Delimiter separates CSV fields
const Delimiter = ';'

var (
	// ErrNothingToSave is returned when Save is called without records
	ErrNothingToSave = errors.New("no match details to save")
	// ErrWrite wraps filesystem failures while writing a CSV file
	ErrWrite = errors.New("write failed")
)

// Storage handles persistence of match records
type Storage struct {
	dataDir string
}

// New creates a new Storage instance, creating dataDir if needed
func New(dataDir string) (*Storage, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", ErrWrite, err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// PathIn returns the CSV path for date under dataDir without touching the
// filesystem.
func PathIn(dataDir string, date match.Date) (string, error) {
	dataDir, err := expandHome(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, fileName(date)), nil
}

// expandHome expands a leading ~/ to the home directory
func expandHome(dataDir string) (string, error) {
	if !strings.HasPrefix(dataDir, "~/") {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dataDir[2:]), nil
}

func fileName(date match.Date) string {
	return fmt.Sprintf("matches_%s.csv", date.FileFragment())
}

// Dir returns the directory files are written to
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the CSV path for a date
func (s *Storage) Path(date match.Date) string {
	return filepath.Join(s.dataDir, fileName(date))
}

// Save writes records to the CSV file for date and returns its path.
// An existing file is replaced. With no records nothing is written and
// ErrNothingToSave is returned.
func (s *Storage) Save(records []match.Record, date match.Date) (string, error) {
	if len(records) == 0 {
		return "", ErrNothingToSave
	}

	path := s.Path(date)

	// Write to a sibling temp file and rename, so a failed write never
	// leaves a truncated file behind
	tmp, err := os.CreateTemp(s.dataDir, ".matches-*.csv.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file: %w", ErrWrite, err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if err := Encode(tmp, records); err != nil {
		tmp.Close() // nolint:errcheck
		return "", fmt.Errorf("%w: writing %s: %w", ErrWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: closing %s: %w", ErrWrite, path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: replacing %s: %w", ErrWrite, path, err)
	}

	return path, nil
}

// Encode writes the BOM, the header row and one row per record to w
func Encode(w io.Writer, records []match.Record) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())

	cw := csv.NewWriter(bom)
	cw.Comma = Delimiter
	cw.UseCRLF = true

	if err := cw.Write(match.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.Fields()); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return bom.Close()
}

// Load reads a CSV file written by Save back into records
func Load(path string) ([]match.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() // nolint:errcheck

	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.Comma = Delimiter
	r.FieldsPerRecord = len(match.Header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parsing %s: missing header", path)
	}

	records := make([]match.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, match.Record{
			Championship: row[0],
			FirstTeam:    row[1],
			SecondTeam:   row[2],
			Score:        row[3],
			Time:         row[4],
		})
	}
	return records, nil
}

// DateFromPath returns the date encoded in a matches_<dd-mm-yyyy>.csv file name
func DateFromPath(path string) (match.Date, error) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, "matches_") || !strings.HasSuffix(name, ".csv") {
		return match.Date{}, fmt.Errorf("%s is not a matches_<dd-mm-yyyy>.csv file", name)
	}
	return match.Normalize(strings.TrimSuffix(strings.TrimPrefix(name, "matches_"), ".csv"))
}
