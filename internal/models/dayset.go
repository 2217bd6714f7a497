package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Weekday is a day of the week using the admin UI's numbering: 0=Monday .. 6=Sunday.
// Note this differs from time.Weekday, which starts the week on Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayFromTime converts a time.Weekday (Sunday=0) to the Monday=0 numbering.
func WeekdayFromTime(w time.Weekday) Weekday {
	return Weekday((int(w) + 6) % 7)
}

func (w Weekday) String() string {
	names := [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if w < Monday || w > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return names[w]
}

// DaySet is a bitmask of weekdays. The zero value means "every day"
// (no day restriction), matching an absent days_of_week field.
type DaySet uint8

// NewDaySet builds a set from the given weekdays.
func NewDaySet(days ...Weekday) DaySet {
	var s DaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// IsZero reports whether the set carries no restriction.
func (s DaySet) IsZero() bool {
	return s == 0
}

// Has reports whether the set contains the given weekday.
func (s DaySet) Has(d Weekday) bool {
	if d < Monday || d > Sunday {
		return false
	}
	return s&(1<<uint(d)) != 0
}

// Days returns the members of the set in Monday-first order.
func (s DaySet) Days() []Weekday {
	if s == 0 {
		return nil
	}
	days := make([]Weekday, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// MarshalJSON serializes the set as an integer array (0=Mon..6=Sun),
// or null when unrestricted.
func (s DaySet) MarshalJSON() ([]byte, error) {
	if s == 0 {
		return []byte("null"), nil
	}
	days := s.Days()
	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON accepts an integer array (0=Mon..6=Sun) or null.
func (s *DaySet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = 0
		return nil
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return fmt.Errorf("days_of_week: %w", err)
	}
	var set DaySet
	for _, n := range ints {
		if n < int(Monday) || n > int(Sunday) {
			return fmt.Errorf("days_of_week: day out of range: %d", n)
		}
		set |= 1 << uint(n)
	}
	*s = set
	return nil
}
