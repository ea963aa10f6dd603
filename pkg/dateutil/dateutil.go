package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted in return files and flags.
const DateLayout = "2006-01-02"

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// ParseDate parses a calendar date (2006-01-02) or a bare year, which maps to
// January 1 of that year. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if year, err := strconv.Atoi(s); err == nil {
		if year < 1 || year > 9999 {
			return time.Time{}, fmt.Errorf("year %d out of range", year)
		}
		return BeginningOfYear(time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// BeginningOfYear returns the first day of the year for a given date
func BeginningOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
}
