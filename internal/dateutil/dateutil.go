// Package dateutil parses the date values accepted in configuration files
// and on the command line.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate indicates a date value in none of the accepted forms.
var ErrInvalidDate = errors.New("invalid date")

// MaxDateLength limits date values to prevent abuse.
const MaxDateLength = 40

// Auto selects the current time.
const Auto = "auto"

// layouts are tried in order after "auto".
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// Parse reads a date value:
//   - "" returns the zero time (unset)
//   - "auto" returns now
//   - "YYYY-MM-DD", "YYYY-MM-DD HH:MM", "YYYY-MM-DDTHH:MM:SS" in now's location
//   - RFC 3339 with its own offset
//
// now is injected so callers and tests control the clock.
func Parse(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if len(value) > MaxDateLength {
		return time.Time{}, fmt.Errorf("%w: value exceeds %d characters", ErrInvalidDate, MaxDateLength)
	}
	if strings.EqualFold(value, Auto) {
		return now, nil
	}

	loc := now.Location()
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q (use auto, YYYY-MM-DD or RFC 3339)", ErrInvalidDate, value)
}
