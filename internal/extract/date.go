package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date parsing is an ordered chain of pure functions; the first parser
// to succeed wins. No parser succeeding is not an error: the caller
// falls back to "today".
type dateParser func(string) (time.Time, bool)

var dateParsers = []dateParser{
	parseISODate,      // 2024-03-15
	parseDayMonthYear, // 15 Mar 2024
	parseSlashDate,    // 15/3/2024 or 15-3-2024
}

var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+(\d{4})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
)

var monthsByName = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// extractDate runs the parser chain over the text.
func extractDate(text string) (time.Time, bool) {
	for _, parse := range dateParsers {
		if d, ok := parse(text); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// Each parser walks every occurrence of its shape and keeps the first
// that survives validation, so a date-shaped token in an order id
// (2024-99-99) does not mask a real date later in the text.
func parseISODate(text string) (time.Time, bool) {
	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		if d, ok := makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseDayMonthYear(text string) (time.Time, bool) {
	for _, m := range monthDateRe.FindAllStringSubmatch(text, -1) {
		month, ok := monthsByName[strings.ToLower(m[2])]
		if !ok {
			continue
		}
		if d, ok := makeDate(atoi(m[3]), int(month), atoi(m[1])); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseSlashDate(text string) (time.Time, bool) {
	for _, m := range slashDateRe.FindAllStringSubmatch(text, -1) {
		// Day-first: 15/3/2024.
		if d, ok := makeDate(atoi(m[3]), atoi(m[2]), atoi(m[1])); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// makeDate builds a UTC date and rejects values that time.Date would
// normalize away (month 13, day 32).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
