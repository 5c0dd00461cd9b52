package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matching is deliberately permissive: the first valid HH:MM substring
// anywhere in the message wins, even if the message carries several
// colonated numbers. Accepted ambiguity, not a bug.
var (
	timeOfDayRe = regexp.MustCompile(`([01]?\d|2[0-3]):([0-5]\d)`)
	tomorrowRe  = regexp.MustCompile(`(?i)\bamanh[ãa]\b`)
	amountRe    = regexp.MustCompile(`\d+(?:[.,]\d{1,2})?`)
)

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// String renders the zero-padded HH:MM form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay finds the first HH:MM pair in the text. A miss means
// "time missing" and is reported via ok=false, never as an error.
func ParseTimeOfDay(text string) (TimeOfDay, bool) {
	t, _, ok := CutTimeOfDay(text)
	return t, ok
}

// CutTimeOfDay is ParseTimeOfDay plus the text with the matched substring
// removed, for callers that treat the remainder as a label.
func CutTimeOfDay(text string) (TimeOfDay, string, bool) {
	m := timeOfDayRe.FindStringSubmatchIndex(text)
	if m == nil {
		return TimeOfDay{}, text, false
	}
	h, _ := strconv.Atoi(text[m[2]:m[3]])
	min, _ := strconv.Atoi(text[m[4]:m[5]])
	rest := text[:m[0]] + text[m[1]:]
	return TimeOfDay{Hour: h, Minute: min}, rest, true
}

// ParseRelativeDateTime resolves a free-text date-time against now:
// an "amanhã" token advances one calendar day, then a time-of-day match
// is required. Seconds are zeroed.
func ParseRelativeDateTime(text string, now time.Time) (time.Time, bool) {
	base := now
	if tomorrowRe.MatchString(text) {
		base = base.AddDate(0, 0, 1)
	}
	tod, ok := ParseTimeOfDay(text)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(base.Year(), base.Month(), base.Day(), tod.Hour, tod.Minute, 0, 0, base.Location()), true
}

// ParseAmount parses a decimal amount accepting either "." or "," as the
// separator ("50", "49.90", "49,90").
func ParseAmount(s string) (float64, bool) {
	m := amountRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CollapseSpaces trims and collapses runs of whitespace to single spaces.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
