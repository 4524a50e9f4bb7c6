package reservation

import (
	"fmt"
	"time"

	"salon-reserve/internal/pkg/errs"
)

var (
	ErrInvalidDate           = errs.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeOfDay      = errs.New("invalid time, expected HH:MM")
	ErrInvalidPeriod         = errs.New("start time must be before end time")
	ErrPeriodCrossesMidnight = errs.New("reservation cannot cross midnight")
	ErrUnknownTimezone       = errs.New("unknown timezone")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date is a calendar date in the store's local calendar, with no
// timezone attached.
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, errs.Mark(err, ErrInvalidDate)
	}
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

func (d Date) AddDays(n int) Date {
	t := time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

func (d Date) After(o Date) bool {
	if d.year != o.year {
		return d.year > o.year
	}
	if d.month != o.month {
		return d.month > o.month
	}
	return d.day > o.day
}

func (d Date) Equal(o Date) bool {
	return d == o
}

// At returns the absolute instant of the given wall-clock time on this
// date in loc.
func (d Date) At(t TimeOfDay, loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, t.hour, t.minute, 0, 0, loc)
}

// TimeOfDay is a local wall-clock time with minute precision.
type TimeOfDay struct {
	hour   int
	minute int
}

func NewTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, errs.Mark(err, ErrInvalidTimeOfDay)
	}
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}

func (t TimeOfDay) Minutes() int {
	return t.hour*60 + t.minute
}

func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	total := t.Minutes() + n
	return TimeOfDay{hour: total / 60 % 24, minute: total % 60}
}

func (t TimeOfDay) Before(o TimeOfDay) bool {
	return t.Minutes() < o.Minutes()
}

// Period is the half-open absolute-time interval [start, end) derived
// from a local date, start/end wall-clock times and the store timezone.
// It is the unit of conflict detection.
type Period struct {
	start time.Time
	end   time.Time
}

func NewPeriod(date Date, start, end TimeOfDay, loc *time.Location) (Period, error) {
	s := date.At(start, loc)
	e := date.At(end, loc)
	if !s.Before(e) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{start: s, end: e}, nil
}

// ReconstructPeriod rebuilds a period from its stored absolute bounds.
func ReconstructPeriod(start, end time.Time) Period {
	return Period{start: start, end: end}
}

func (p Period) Start() time.Time {
	return p.start
}

func (p Period) End() time.Time {
	return p.end
}

func (p Period) Duration() time.Duration {
	return p.end.Sub(p.start)
}

// Overlaps uses half-open semantics: back-to-back periods do not overlap.
func (p Period) Overlaps(o Period) bool {
	return p.start.Before(o.end) && o.start.Before(p.end)
}

func (p Period) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", p.start.Format(time.RFC3339), p.end.Format(time.RFC3339))
}

func LoadLocation(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errs.Mark(err, ErrUnknownTimezone)
	}
	return loc, nil
}
