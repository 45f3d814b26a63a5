package scoring

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used for birth and contest dates
const DateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD, optionally followed by a time part
// (an RFC 3339 timestamp is cut to its date).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) && (s[len(DateLayout)] == 'T' || s[len(DateLayout)] == ' ') {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// AgeOn returns the age in whole years on the contest date. The second
// return is false when either date cannot be parsed.
func AgeOn(birthDate, contestDate string) (int, bool) {
	birth, ok := ParseDate(birthDate)
	if !ok {
		return 0, false
	}
	contest, ok := ParseDate(contestDate)
	if !ok {
		return 0, false
	}

	age := contest.Year() - birth.Year()
	if contest.Month() < birth.Month() || (contest.Month() == birth.Month() && contest.Day() < birth.Day()) {
		age--
	}
	return age, true
}
