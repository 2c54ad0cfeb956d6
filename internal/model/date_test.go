package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_TruncatesToUTCMidnight(t *testing.T) {
	t.Parallel()

	lisbon := time.FixedZone("WEST", 3600)
	in := time.Date(2024, time.June, 16, 0, 30, 0, 0, lisbon) // 2024-06-15 23:30 UTC

	assert.Equal(t, date(2024, time.June, 15), DateOf(in))
	assert.Equal(t, date(2024, time.June, 15), DateOf(date(2024, time.June, 15)))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.February, 29), d)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{date(2024, time.November, 30), 3, date(2025, time.February, 28)},
		{date(2024, time.June, 15), 3, date(2024, time.September, 15)},
		{date(2024, time.March, 31), -1, date(2024, time.February, 29)},
		{date(2024, time.December, 31), 12, date(2025, time.December, 31)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AddMonths(tt.in, tt.n), "%s %+d", tt.in.Format(DateLayout), tt.n)
	}
}

func TestMonthLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "03/2024", MonthLabel(2024, time.March))
	assert.Equal(t, "12/1999", MonthLabel(1999, time.December))
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	lisbon := time.FixedZone("WEST", 3600)
	assert.Equal(t, "2025-06-30", FormatDate(time.Date(2025, time.July, 1, 0, 30, 0, 0, lisbon)))
	assert.Equal(t, "2024-02-29", FormatDate(date(2024, time.February, 29)))
}
