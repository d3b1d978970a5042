package window

import (
	"fmt"
	"time"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
)

// ComputeWindows builds a current window ending at reference and the
// immediately preceding window of the same day-length.
func ComputeWindows(reference time.Time, lengthDays int) (domain.WindowPair, error) {
	if lengthDays <= 0 {
		return domain.WindowPair{}, fmt.Errorf("window length must be a positive number of days, got %d", lengthDays)
	}

	current := domain.DateWindow{
		Start: reference.AddDate(0, 0, -lengthDays),
		End:   reference,
	}
	prevEnd := current.Start.AddDate(0, 0, -1)
	previous := domain.DateWindow{
		Start: prevEnd.AddDate(0, 0, -lengthDays),
		End:   prevEnd,
	}

	return domain.WindowPair{Current: current, Previous: previous}, nil
}

// ComputeWindowsForMonth builds a current window spanning the calendar month of
// the given date. The previous window is day-count matched to the current one,
// not snapped to the previous calendar month: when adjacent months differ in
// length, the previous window is not a full calendar month.
func ComputeWindowsForMonth(month time.Time) domain.WindowPair {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, -1)

	current := domain.DateWindow{Start: start, End: end}
	prevEnd := start.AddDate(0, 0, -1)
	previous := domain.DateWindow{
		Start: prevEnd.AddDate(0, 0, -current.Days()),
		End:   prevEnd,
	}

	return domain.WindowPair{Current: current, Previous: previous}
}
