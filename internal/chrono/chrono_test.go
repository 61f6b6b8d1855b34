package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekOf(t *testing.T) {
	cases := []struct {
		date       time.Time
		expectYear int
		expectWeek int
	}{
		{
			date:       time.Date(2024, time.November, 25, 12, 0, 0, 0, Stockholm()),
			expectYear: 2024,
			expectWeek: 48,
		},
		{
			date:       time.Date(2024, time.November, 28, 12, 0, 0, 0, Stockholm()),
			expectYear: 2024,
			expectWeek: 48,
		},
		{
			// the last days of december can belong to week 1 of the next year
			date:       time.Date(2025, time.December, 29, 12, 0, 0, 0, Stockholm()),
			expectYear: 2026,
			expectWeek: 1,
		},
		{
			// and the first days of january to week 53 of the previous one
			date:       time.Date(2021, time.January, 1, 12, 0, 0, 0, Stockholm()),
			expectYear: 2020,
			expectWeek: 53,
		},
	}

	for _, test := range cases {
		year, week := WeekOf(test.date)
		require.Equal(t, test.expectYear, year, "year of %s", test.date)
		require.Equal(t, test.expectWeek, week, "week of %s", test.date)
	}
}

func TestDate(t *testing.T) {
	// 23:30 UTC is already the next day in Stockholm
	utc := time.Date(2024, time.November, 25, 23, 30, 0, 0, time.UTC)
	require.Equal(t, "2024-11-26", Date(utc))
}
