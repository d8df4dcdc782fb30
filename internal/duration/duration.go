// Package duration parses human-readable intervals such as "2d", "1.5h",
// "90 minutes" or bare millisecond counts like "3000".
//
// The grammar is a number, optional spaces, and an optional case-insensitive
// unit. A missing unit means milliseconds. Years are 365.25 days.
package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const maxLength = 100

// MaxMillis is the largest interval, in milliseconds, that fits a
// time.Duration (about 292 years).
const MaxMillis = int64(math.MaxInt64 / int64(time.Millisecond))

var (
	ErrEmpty   = errors.New("value is not a non-empty string")
	ErrTooLong = fmt.Errorf("value exceeds the maximum length of %d characters", maxLength)
	ErrInvalid = errors.New("value is not a valid duration")
)

var pattern = regexp.MustCompile(
	`(?i)^(-?(?:\d+)?\.?\d+) *(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)?$`,
)

const (
	second = 1000.0
	minute = second * 60
	hour   = minute * 60
	day    = hour * 24
	week   = day * 7
	year   = day * 365.25
)

// ParseMillis returns the interval described by s in whole milliseconds,
// rounded to the nearest millisecond.
func ParseMillis(s string) (int64, error) {
	if s == "" {
		return 0, ErrEmpty
	}
	if len(s) > maxLength {
		return 0, ErrTooLong
	}

	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	ms := n * unitMillis(m[2])
	if math.IsInf(ms, 0) || math.IsNaN(ms) || math.Abs(ms) >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalid, s)
	}
	return int64(math.Round(ms)), nil
}

// Parse is ParseMillis expressed as a time.Duration.
func Parse(s string) (time.Duration, error) {
	ms, err := ParseMillis(s)
	if err != nil {
		return 0, err
	}
	if ms > MaxMillis || ms < -MaxMillis {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalid, s)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func unitMillis(unit string) float64 {
	switch strings.ToLower(unit) {
	case "years", "year", "yrs", "yr", "y":
		return year
	case "weeks", "week", "w":
		return week
	case "days", "day", "d":
		return day
	case "hours", "hour", "hrs", "hr", "h":
		return hour
	case "minutes", "minute", "mins", "min", "m":
		return minute
	case "seconds", "second", "secs", "sec", "s":
		return second
	default:
		// "", "ms", "msec", "msecs", "millisecond", "milliseconds"
		return 1
	}
}
