package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsToEndOfMonth(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"jan 31 plus one month clamps to feb 28", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"jan 31 plus one month in leap year clamps to feb 29", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"mar 31 plus one month clamps to apr 30", date(2025, time.March, 31), 1, date(2025, time.April, 30)},
		{"mid-month is untouched", date(2025, time.December, 8), 1, date(2026, time.January, 8)},
		{"six months crosses year boundary", date(2025, time.December, 8), 6, date(2026, time.June, 8)},
		{"twelve months lands on same day", date(2025, time.December, 8), 12, date(2026, time.December, 8)},
		{"oct 31 plus one month clamps to nov 30", date(2025, time.October, 31), 1, date(2025, time.November, 30)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, AddMonths(tc.start, tc.months))
		})
	}
}

func TestAddMonthsPreservesClock(t *testing.T) {
	start := time.Date(2025, time.January, 31, 14, 30, 45, 0, time.UTC)
	got := AddMonths(start, 1)
	require.Equal(t, time.Date(2025, time.February, 28, 14, 30, 45, 0, time.UTC), got)
}
