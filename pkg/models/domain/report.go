package domain

// Report is a complete dashboard report for one window pair. Results keep the
// order of the metric specs they were built from.
type Report struct {
	Dashboard string
	RequestID string
	Windows   WindowPair
	Results   []MetricResult
}
