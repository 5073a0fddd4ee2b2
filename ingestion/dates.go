package ingestion

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// Date shapes recognized in document text. Numeric day-first is tried before
// month-first, so 04/05/2024 reads as 4 May.
var (
	numericDateRe   = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	isoDateRe       = regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)
	dayMonthYearRe  = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{4})\b`)
	monthDayYearRe  = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`)
	monthDayRe      = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})\b`)
	dayShortMonthRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+(\d{4})\b`)
)

var numericLayouts = []string{"2/1/2006", "1/2/2006", "2006/1/2"}

var monthNameLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2",
	"2 January",
}

// ExtractContentDates finds calendar dates mentioned in text. Month-day
// mentions without a year get the current year. The result is deduplicated
// and sorted ascending; unparseable matches are skipped.
func ExtractContentDates(text string) []time.Time {
	return extractContentDatesAt(text, time.Now().UTC())
}

func extractContentDatesAt(text string, now time.Time) []time.Time {
	var dates []time.Time

	for _, match := range numericDateRe.FindAllString(text, -1) {
		normalized := strings.ReplaceAll(match, "-", "/")
		if date, ok := parseFirst(normalized, numericLayouts); ok {
			dates = append(dates, date)
		}
	}
	for _, match := range isoDateRe.FindAllString(text, -1) {
		normalized := strings.ReplaceAll(match, "-", "/")
		if date, ok := parseFirst(normalized, numericLayouts); ok {
			dates = append(dates, date)
		}
	}

	namePatterns := []*regexp.Regexp{dayMonthYearRe, monthDayYearRe, monthDayRe, dayShortMonthRe}
	for _, pattern := range namePatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			date, ok := parseFirst(normalizeMonthCase(match), monthNameLayouts)
			if !ok {
				continue
			}
			if date.Year() == 0 {
				date = time.Date(now.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
			}
			dates = append(dates, date)
		}
	}

	seen := make(map[int64]struct{}, len(dates))
	unique := dates[:0]
	for _, date := range dates {
		key := date.Unix()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, date)
	}

	slices.SortFunc(unique, func(a, b time.Time) int {
		return a.Compare(b)
	})
	return unique
}

// parseFirst tries each layout in order and returns the first valid parse.
func parseFirst(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if date, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// normalizeMonthCase title-cases alphabetic words so case-insensitive regex
// matches parse under Go's case-sensitive month names.
func normalizeMonthCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word == "" || word[0] < 'A' {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
