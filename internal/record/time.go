package record

import (
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// Layout of the date column in the activity logs (month/day/year).
const Layout = "01/02/2006 15:04:05"

const defaultTimeCacheSize = 4096

// Date is a calendar day formatted as 2006-01-02. It sorts lexically.
type Date string

func DateOf(t time.Time) Date {
	return Date(t.Format("2006-01-02"))
}

// Clock is the time of day as an offset from midnight.
type Clock time.Duration

func ClockOf(t time.Time) Clock {
	h, m, s := t.Clock()
	return Clock(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second + time.Duration(t.Nanosecond()))
}

func (c Clock) Minutes() float64 {
	return time.Duration(c).Minutes()
}

func (c Clock) String() string {
	d := time.Duration(c)
	return time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format("15:04:05")
}

// ParseClock reads "15:04" or "15:04:05".
func ParseClock(raw string) (Clock, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, errors.Wrapf(ErrMalformedField, "clock %q", raw)
}

// TimeParser parses log timestamps. Activity logs repeat the same second many
// times over, so parsed values are kept in a bounded cache.
type TimeParser struct {
	cache    *lru.Cache[string, time.Time]
	location *time.Location
}

func NewTimeParser(cacheSize int, loc *time.Location) *TimeParser {
	if cacheSize <= 0 {
		cacheSize = defaultTimeCacheSize
	}
	if loc == nil {
		loc = time.UTC
	}
	cache, _ := lru.New[string, time.Time](cacheSize)
	return &TimeParser{cache: cache, location: loc}
}

func (p *TimeParser) Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.Wrap(ErrMalformedTimestamp, "empty date")
	}
	if t, ok := p.cache.Get(raw); ok {
		return t, nil
	}

	t, err := time.ParseInLocation(Layout, raw, p.location)
	if err != nil {
		var rfcErr error
		t, rfcErr = time.Parse(time.RFC3339, raw)
		if rfcErr != nil {
			return time.Time{}, errors.Wrapf(ErrMalformedTimestamp, "date %q", raw)
		}
		t = t.In(p.location)
	}

	p.cache.Add(raw, t)
	return t, nil
}
