package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedTime is returned for anything that is not a valid HH:MM wall-clock time.
	ErrMalformedTime = errors.New("malformed time, expected HH:MM")
	// ErrMalformedDate is returned for anything that is not a valid YYYY-MM-DD calendar date.
	ErrMalformedDate = errors.New("malformed date, expected YYYY-MM-DD")
)

// MinutesPerDay is one past the largest valid time of day.
const MinutesPerDay = 24 * 60

const dateLayout = "2006-01-02"

// Minutes is a time of day expressed as minutes since midnight.
type Minutes int

// String renders m as zero-padded HH:MM. Values past 23:59 are not wrapped.
func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// ParseTime converts an HH:MM string into minutes since midnight. The hour
// may drop its leading zero; the minutes must be two digits. Signs are rejected.
func ParseTime(hhmm string) (Minutes, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok || !digits(hs, 1, 2) || !digits(ms, 2, 2) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, hhmm)
	}
	h, _ := strconv.Atoi(hs)
	m, _ := strconv.Atoi(ms)
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, hhmm)
	}
	return Minutes(h*60 + m), nil
}

// digits reports whether s is between min and max ASCII digits long.
func digits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MustParseTime is ParseTime for literals known to be valid. It panics otherwise.
func MustParseTime(hhmm string) Minutes {
	m, err := ParseTime(hhmm)
	if err != nil {
		panic(err)
	}
	return m
}

// Format is the inverse of ParseTime.
func Format(m Minutes) string {
	return m.String()
}

// AddMinutes shifts hhmm by n minutes. The result does not wrap past 24:00;
// callers bound-check it against closing time.
func AddMinutes(hhmm string, n int) (string, error) {
	m, err := ParseTime(hhmm)
	if err != nil {
		return "", err
	}
	return Format(m + Minutes(n)), nil
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd Minutes) bool {
	return aStart < bEnd && bStart < aEnd
}

// Interval is a half-open [Start, End) range within one day.
type Interval struct {
	Start Minutes
	End   Minutes
}

// NewInterval builds an interval and rejects empty or inverted ranges.
func NewInterval(start, end Minutes) (Interval, error) {
	if start >= end {
		return Interval{}, fmt.Errorf("invalid interval %s-%s: start must be before end", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval parses a pair of HH:MM strings into an interval.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseTime(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTime(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Overlaps reports whether i and o intersect under half-open semantics.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Duration is the interval length in minutes.
func (i Interval) Duration() int {
	return int(i.End - i.Start)
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// ParseDate validates a YYYY-MM-DD date. The result carries no timezone meaning.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, date)
	}
	return t, nil
}

// IsWeekend reports whether the calendar date falls on Saturday or Sunday.
func IsWeekend(date string) (bool, error) {
	t, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday, nil
}
