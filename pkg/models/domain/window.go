package domain

import "time"

// DateWindow is a closed calendar-date interval over which a metric is aggregated.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// Days returns the window length as elapsed days between Start and End.
func (w DateWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours() / 24)
}

// WindowPair couples a current window with the immediately preceding window of
// equal day-length. Previous.End is always exactly one day before Current.Start.
type WindowPair struct {
	Current  DateWindow
	Previous DateWindow
}
