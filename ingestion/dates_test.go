package ingestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var datesTestNow = time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractContentDates_Numeric(t *testing.T) {
	t.Run("day first", func(t *testing.T) {
		dates := extractContentDatesAt("the meeting on 13/04/2024 was moved", datesTestNow)
		require.Len(t, dates, 1)
		assert.Equal(t, day(2024, time.April, 13), dates[0])
	})

	t.Run("month first fallback", func(t *testing.T) {
		// Day slot exceeds 12 on the month-first read, day-first parse fails,
		// so it reads as April 13.
		dates := extractContentDatesAt("due 04/13/2024", datesTestNow)
		require.Len(t, dates, 1)
		assert.Equal(t, day(2024, time.April, 13), dates[0])
	})

	t.Run("iso format", func(t *testing.T) {
		dates := extractContentDatesAt("released 2024-05-13", datesTestNow)
		require.Len(t, dates, 1)
		assert.Equal(t, day(2024, time.May, 13), dates[0])
	})

	t.Run("dash separated", func(t *testing.T) {
		dates := extractContentDatesAt("signed 13-04-2024", datesTestNow)
		require.Len(t, dates, 1)
		assert.Equal(t, day(2024, time.April, 13), dates[0])
	})
}

func TestExtractContentDates_MonthNames(t *testing.T) {
	t.Run("month day year", func(t *testing.T) {
		dates := extractContentDatesAt("launched on March 5, 2024 in Berlin", datesTestNow)
		require.NotEmpty(t, dates)
		assert.Equal(t, day(2024, time.March, 5), dates[0])
	})

	t.Run("day month year", func(t *testing.T) {
		dates := extractContentDatesAt("deadline is 5 March 2024", datesTestNow)
		require.NotEmpty(t, dates)
		assert.Equal(t, day(2024, time.March, 5), dates[0])
	})

	t.Run("case insensitive", func(t *testing.T) {
		dates := extractContentDatesAt("shipped 5 march 2024", datesTestNow)
		require.NotEmpty(t, dates)
		assert.Equal(t, day(2024, time.March, 5), dates[0])
	})

	t.Run("month day without year assumes current year", func(t *testing.T) {
		dates := extractContentDatesAt("party on March 5", datesTestNow)
		require.Len(t, dates, 1)
		assert.Equal(t, day(2025, time.March, 5), dates[0])
	})
}

func TestExtractContentDates_DeduplicatedAndSorted(t *testing.T) {
	text := "from 13/04/2024 to 2024-01-02, then again 13/04/2024"
	dates := extractContentDatesAt(text, datesTestNow)

	require.Len(t, dates, 2)
	assert.Equal(t, day(2024, time.January, 2), dates[0])
	assert.Equal(t, day(2024, time.April, 13), dates[1])
}

func TestExtractContentDates_NoDates(t *testing.T) {
	dates := extractContentDatesAt("nothing temporal in here at all", datesTestNow)
	assert.Empty(t, dates)
}

func TestExtractContentDates_InvalidCalendarDate(t *testing.T) {
	// 31/02/2024 matches the numeric pattern but parses under no layout.
	dates := extractContentDatesAt("impossible 31/02/2024", datesTestNow)
	assert.Empty(t, dates)
}
