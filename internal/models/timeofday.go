package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time with no date, stored as seconds since
// midnight. Price-list windows are configured with minute precision
// ("HH:MM") but resolution contexts carry full second precision so that
// boundary checks distinguish 19:00:00 from 19:00:01.
type TimeOfDay int

// ParseTimeOfDay parses a 24-hour "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: minute out of range", s)
	}
	return TimeOfDay(hour*3600 + minute*60), nil
}

// TimeOfDayFromClock extracts the wall-clock time of t, including seconds.
func TimeOfDayFromClock(t time.Time) TimeOfDay {
	hour, minute, sec := t.Clock()
	return TimeOfDay(hour*3600 + minute*60 + sec)
}

// Minute returns the time truncated to whole minutes since midnight.
func (t TimeOfDay) Minute() int {
	return int(t) / 60
}

// String formats the time as "HH:MM", truncating seconds.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/3600, int(t)%3600/60)
}

// MarshalJSON serializes as an "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.String())), nil
}

// UnmarshalJSON accepts an "HH:MM" string.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
