// Package dateparse turns the date strings the source sites publish into
// calendar dates. Both sites are inconsistent: ISO stamps in embedded JSON,
// "1st January 2024" long forms, and free-form fragments like
// "Closes in 30 days at 11:59pm" all occur in the wild.
package dateparse

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parse attempts the known formats in order. It never panics; input it cannot
// make sense of yields ok=false and a logged diagnostic.
func Parse(s string) (time.Time, bool) {
	return parseAt(time.Now(), s)
}

func parseAt(now time.Time, s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}

	if t, ok := parseOrdinal(s); ok {
		return t, true
	}

	if t, ok := parseFreeForm(now, s); ok {
		return t, true
	}

	log.Printf("[dateparse] unparsable date %q", s)
	return time.Time{}, false
}

var ordinalRe = regexp.MustCompile(`(\d{1,2})(?:st|nd|rd|th)\b`)

// parseOrdinal handles "1st January 2024" style strings: the day suffix is
// stripped, the rest must be day + full month + year.
func parseOrdinal(s string) (time.Time, bool) {
	cleaned := ordinalRe.ReplaceAllString(s, "$1")
	t, err := time.Parse("2 January 2006", cleaned)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var (
	noisePrefixes = []string{"Posted", "Closes in", "Closes on", "Closes"}
	timeOfDayRe   = regexp.MustCompile(`(?i)\bat\s+\d{1,2}(?::\d{2})?\s*(?:am|pm)?\b|\b\d{1,2}:\d{2}\s*(?:am|pm)?\b`)
)

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "sept": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

// parseFreeForm takes whatever is left after stripping noise phrases and
// builds a date from the tokens it can recognize:
//
//   - year: the last 4-digit token, else the current year
//   - month: the first month-name token, else the current month
//   - day: the first token in 1..31 (ordinal suffixes allowed)
//
// When the year was assumed and the resulting date is already past, one year
// is added so "closes in" phrasing near a year boundary lands in the future.
// No day token means no guess: parsing fails.
func parseFreeForm(now time.Time, s string) (time.Time, bool) {
	for _, p := range noisePrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(strings.TrimPrefix(s, p))
			break
		}
	}
	s = timeOfDayRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer(",", " ", "(", " ", ")", " ").Replace(s)

	var tokens []string
	for _, tok := range strings.Fields(s) {
		low := strings.ToLower(tok)
		if low == "day" || low == "days" || low == "at" || low == "in" || low == "on" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return time.Time{}, false
	}

	year, explicitYear := 0, false
	for i := len(tokens) - 1; i >= 0; i-- {
		if len(tokens[i]) == 4 {
			if y, err := strconv.Atoi(tokens[i]); err == nil {
				year, explicitYear = y, true
				tokens = append(tokens[:i], tokens[i+1:]...)
				break
			}
		}
	}
	if !explicitYear {
		year = now.Year()
	}

	month := now.Month()
	for i, tok := range tokens {
		if m, ok := months[strings.ToLower(tok)]; ok {
			month = m
			tokens = append(tokens[:i], tokens[i+1:]...)
			break
		}
	}

	day := 0
	for _, tok := range tokens {
		tok = ordinalRe.ReplaceAllString(tok, "$1")
		if d, err := strconv.Atoi(tok); err == nil && d >= 1 && d <= 31 {
			day = d
			break
		}
	}
	if day == 0 {
		return time.Time{}, false
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if !explicitYear {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if t.Before(today) {
			t = t.AddDate(1, 0, 0)
		}
	}
	return t, true
}
