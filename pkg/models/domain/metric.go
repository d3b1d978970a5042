package domain

import "sort"

type MetricShape string

const (
	ShapeScalar    MetricShape = "scalar"
	ShapeBreakdown MetricShape = "breakdown"
)

// MetricParams carries provider-specific call parameters. Providers read only
// the fields they understand.
type MetricParams struct {
	// Dimension is the grouping key for breakdown and row requests.
	Dimension string
	// FallbackDimension is a coarser grouping key used when the backend rejects
	// Dimension as invalid. The metric semantics stay the same, only the key degrades.
	FallbackDimension string
	// TopN keeps only the N largest breakdown entries, sorted by value descending.
	TopN int
	// RowLimit caps the number of rows requested from the backend. Rows beyond
	// the limit are dropped by the backend, not reported as an error.
	RowLimit int
}

// MetricSpec describes one metric of a dashboard. Specs are static configuration,
// read-only at runtime.
type MetricSpec struct {
	Label    string
	Provider string
	Metric   string
	Shape    MetricShape
	Params   MetricParams
}

type BreakdownEntry struct {
	Key   string
	Value float64
}

// Breakdown maps a dimension value to a count, in the order the provider
// returned it unless the consumer sorts it explicitly.
type Breakdown []BreakdownEntry

// TopN returns the n largest entries by value, descending. The receiver is not
// modified. n <= 0 returns the breakdown unchanged.
func (b Breakdown) TopN(n int) Breakdown {
	if n <= 0 || n >= len(b) {
		n = len(b)
	}
	sorted := make(Breakdown, len(b))
	copy(sorted, b)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	return sorted[:n]
}

// Row is one record of a dimensioned report, e.g. a (page, query) pair with its
// click count.
type Row struct {
	Keys  []string
	Value float64
}

// MetricResult is the normalized outcome for one MetricSpec. Exactly one of the
// value fields is populated depending on Shape; Error is set instead when the
// provider calls failed.
type MetricResult struct {
	Label             string
	Shape             MetricShape
	Current           float64
	Previous          float64
	CurrentBreakdown  Breakdown
	PreviousBreakdown Breakdown
	// Change is the percentage change between windows. Nil for breakdown-shaped
	// metrics and when the previous value is zero.
	Change *float64
	Error  string
}
