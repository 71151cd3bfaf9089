package match

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InputLayout is the layout users enter dates in (dd-mm-yyyy)
const InputLayout = "02-01-2006"

// ErrInvalidDateFormat is returned for input that is not a valid dd-mm-yyyy date.
var ErrInvalidDateFormat = errors.New("invalid date format, expected dd-mm-yyyy")

// Date is a validated match-center date
type Date struct {
	Day   int
	Month int
	Year  int
	raw   string
}

// Normalize validates a dd-mm-yyyy string without checking month lengths.
// "31-02-2024" is accepted; use NormalizeStrict to reject it. The input is
// taken as is, so surrounding whitespace makes it invalid.
func Normalize(text string) (Date, error) {
	if len(text) != 10 || text[2] != '-' || text[5] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, text)
	}
	for i := 0; i < len(text); i++ {
		if i == 2 || i == 5 {
			continue
		}
		if text[i] < '0' || text[i] > '9' {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, text)
		}
	}

	// Digits were checked above, Atoi cannot fail
	day, _ := strconv.Atoi(text[0:2])
	month, _ := strconv.Atoi(text[3:5])
	year, _ := strconv.Atoi(text[6:10])

	if day < 1 || day > 31 {
		return Date{}, fmt.Errorf("%w: day %d out of range", ErrInvalidDateFormat, day)
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month %d out of range", ErrInvalidDateFormat, month)
	}
	if year < 1 {
		return Date{}, fmt.Errorf("%w: year %d out of range", ErrInvalidDateFormat, year)
	}

	return Date{Day: day, Month: month, Year: year, raw: text}, nil
}

// NormalizeStrict is Normalize plus a calendar check, so the day must exist in
// the given month (leap years included).
func NormalizeStrict(input string) (Date, error) {
	d, err := Normalize(input)
	if err != nil {
		return Date{}, err
	}

	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	if t.Day() != d.Day || int(t.Month()) != d.Month {
		return Date{}, fmt.Errorf("%w: %s does not exist", ErrInvalidDateFormat, d.raw)
	}
	return d, nil
}

// FromTime builds a Date from a point in time, using its local calendar day
func FromTime(t time.Time) Date {
	return Date{
		Day:   t.Day(),
		Month: int(t.Month()),
		Year:  t.Year(),
		raw:   t.Format(InputLayout),
	}
}

// DenormalizeURLForm parses a "<month>/<day>/<year>" query value back into a Date.
func DenormalizeURLForm(s string) (Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: url form %q", ErrInvalidDateFormat, s)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("%w: url form %q", ErrInvalidDateFormat, s)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("%w: url form %q", ErrInvalidDateFormat, s)
	}
	if len(parts[2]) != 4 {
		return Date{}, fmt.Errorf("%w: url form %q", ErrInvalidDateFormat, s)
	}

	return Normalize(fmt.Sprintf("%02d-%02d-%s", day, month, parts[2]))
}

// URLForm returns the value of the match-center date query parameter, m/d/yyyy
// without leading zeros.
func (d Date) URLForm() string {
	return fmt.Sprintf("%d/%d/%04d", d.Month, d.Day, d.Year)
}

// FileFragment returns the dd-mm-yyyy text used in output file names
func (d Date) FileFragment() string {
	return d.raw
}

// IsZero reports whether d was never set
func (d Date) IsZero() bool {
	return d.raw == ""
}

func (d Date) String() string {
	return d.raw
}
