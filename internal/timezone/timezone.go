// Package timezone resolves instants to civil dates and UTC day bounds in a
// configured timezone. Every period computation in the reflection pipeline
// goes through a Resolver so that "today" always means the user's local day.
package timezone

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

const DefaultTimeZone = "Australia/Sydney"

// ErrInvalidDate marks a malformed or impossible YYYY-MM-DD string.
var ErrInvalidDate = errors.New("invalid date string")

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DayRange is one civil day expressed as UTC instants. Start is local
// midnight, End local 23:59:59.999. On a DST transition day the span is 23 or
// 25 hours, not 24.
type DayRange struct {
	Date  string
	Start time.Time
	End   time.Time
}

type Resolver struct {
	loc *time.Location
}

func NewResolver(name string) (*Resolver, error) {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return &Resolver{loc: loc}, nil
}

func (r *Resolver) Location() *time.Location { return r.loc }

// LocalDate formats an instant as the civil date it falls on in the
// resolver's timezone.
func (r *Resolver) LocalDate(t time.Time) string {
	return t.In(r.loc).Format("2006-01-02")
}

// Today is the current civil date.
func (r *Resolver) Today() string { return r.LocalDate(time.Now()) }

// LocalDayRange resolves an instant to its civil date plus the UTC instants
// bounding that date locally.
func (r *Resolver) LocalDayRange(t time.Time) DayRange {
	civil := t.In(r.loc)
	y, m, d := civil.Date()
	return r.dayRange(y, m, d)
}

// UTCRangeForDate builds the same bounds directly from a literal YYYY-MM-DD
// string, for callers that only hold a persisted date.
func (r *Resolver) UTCRangeForDate(date string) (start, end time.Time, err error) {
	if !datePattern.MatchString(date) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	civil, err := time.ParseInLocation("2006-01-02", date, r.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, date)
	}
	y, m, d := civil.Date()
	dr := r.dayRange(y, m, d)
	return dr.Start, dr.End, nil
}

func (r *Resolver) dayRange(y int, m time.Month, d int) DayRange {
	start := time.Date(y, m, d, 0, 0, 0, 0, r.loc)
	end := time.Date(y, m, d, 23, 59, 59, 999_000_000, r.loc)
	return DayRange{
		Date:  start.Format("2006-01-02"),
		Start: start.UTC(),
		End:   end.UTC(),
	}
}
