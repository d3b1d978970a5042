package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeWindows(t *testing.T) {
	reference := date(2025, time.June, 20)

	pair, err := ComputeWindows(reference, 30)
	require.NoError(t, err)

	assert.Equal(t, date(2025, time.May, 21), pair.Current.Start)
	assert.Equal(t, reference, pair.Current.End)
	assert.Equal(t, date(2025, time.May, 20), pair.Previous.End)
	assert.Equal(t, date(2025, time.April, 20), pair.Previous.Start)
}

func TestComputeWindows_Invariants(t *testing.T) {
	reference := date(2025, time.March, 1)

	for _, length := range []int{1, 7, 28, 30, 90, 365} {
		pair, err := ComputeWindows(reference, length)
		require.NoError(t, err)

		assert.Equal(t, pair.Current.Start.AddDate(0, 0, -1), pair.Previous.End,
			"previous window must end one day before the current window starts (length=%d)", length)
		assert.Equal(t, pair.Current.Days(), pair.Previous.Days(),
			"windows must have the same day-length (length=%d)", length)
		assert.Equal(t, length, pair.Current.Days())
	}
}

func TestComputeWindows_InvalidLength(t *testing.T) {
	for _, length := range []int{0, -1, -30} {
		_, err := ComputeWindows(date(2025, time.June, 20), length)
		assert.Error(t, err, "length=%d", length)
	}
}

func TestComputeWindowsForMonth(t *testing.T) {
	pair := ComputeWindowsForMonth(date(2025, time.March, 15))

	assert.Equal(t, date(2025, time.March, 1), pair.Current.Start)
	assert.Equal(t, date(2025, time.March, 31), pair.Current.End)
	assert.Equal(t, date(2025, time.February, 28), pair.Previous.End)

	// The previous window is day-count matched to March (30 elapsed days), so it
	// reaches back into January instead of covering exactly February.
	assert.Equal(t, date(2025, time.January, 29), pair.Previous.Start)
	assert.Equal(t, pair.Current.Days(), pair.Previous.Days())
}

func TestComputeWindowsForMonth_NormalizesToFirstDay(t *testing.T) {
	fromMid := ComputeWindowsForMonth(date(2025, time.July, 19))
	fromFirst := ComputeWindowsForMonth(date(2025, time.July, 1))

	assert.Equal(t, fromFirst, fromMid)
}
