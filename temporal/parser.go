package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateRange is an inclusive time window extracted from a query.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, bounds included.
func (r *DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

var (
	lastDaysRe = regexp.MustCompile(`(?i)last (\d+) days?`)

	stripPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(today|yesterday)\b`),
		regexp.MustCompile(`(?i)\blast \d+ days?\b`),
		regexp.MustCompile(`(?i)\b(last|this) week\b`),
		regexp.MustCompile(`(?i)\b(last|this) month\b`),
	}
)

// Parse extracts a date range from a query, or nil if the query contains no
// recognized temporal expression.
func Parse(query string) *DateRange {
	return parseAt(query, time.Now())
}

// Strip removes temporal expressions from a query and trims whitespace.
// The result is the text actually sent for embedding.
func Strip(query string) string {
	cleaned := query
	for _, pattern := range stripPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}

// parseAt is the deterministic core of Parse; expressions are checked in a
// fixed order and the first match wins.
func parseAt(query string, now time.Time) *DateRange {
	lower := strings.ToLower(query)

	if strings.Contains(lower, "today") {
		return &DateRange{Start: startOfDay(now), End: endOfDay(now)}
	}

	if strings.Contains(lower, "yesterday") {
		yesterday := now.AddDate(0, 0, -1)
		return &DateRange{Start: startOfDay(yesterday), End: endOfDay(yesterday)}
	}

	if m := lastDaysRe.FindStringSubmatch(lower); m != nil {
		days, err := strconv.Atoi(m[1])
		if err == nil {
			return &DateRange{Start: now.AddDate(0, 0, -days), End: now}
		}
	}

	if strings.Contains(lower, "last week") {
		return &DateRange{Start: now.AddDate(0, 0, -7), End: now}
	}

	if strings.Contains(lower, "this week") {
		return &DateRange{Start: startOfWeek(now), End: endOfWeek(now)}
	}

	if strings.Contains(lower, "last month") {
		return &DateRange{Start: now.AddDate(0, -1, 0), End: now}
	}

	if strings.Contains(lower, "this month") {
		return &DateRange{Start: startOfMonth(now), End: endOfMonth(now)}
	}

	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// Weeks run Sunday through Saturday.
func startOfWeek(t time.Time) time.Time {
	return startOfDay(t.AddDate(0, 0, -int(t.Weekday())))
}

func endOfWeek(t time.Time) time.Time {
	return endOfDay(t.AddDate(0, 0, int(time.Saturday-t.Weekday())))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	return endOfDay(startOfMonth(t).AddDate(0, 1, -1))
}
