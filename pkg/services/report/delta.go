package report

// PercentChange computes the relative change between two window values. A zero
// previous value makes relative change meaningless, so nil is returned for it;
// the check is strict equality, not a near-zero tolerance. Negative inputs
// produce mathematically valid (possibly odd) results rather than a panic.
func PercentChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	change := (current - previous) / previous * 100
	return &change
}
