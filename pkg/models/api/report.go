package api

import "time"

type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type WindowPair struct {
	Current  DateWindow `json:"current"`
	Previous DateWindow `json:"previous"`
}

type BreakdownEntry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

type MetricResult struct {
	Label             string           `json:"label"`
	Shape             string           `json:"shape"`
	Current           *float64         `json:"current,omitempty"`
	Previous          *float64         `json:"previous,omitempty"`
	CurrentBreakdown  []BreakdownEntry `json:"current_breakdown,omitempty"`
	PreviousBreakdown []BreakdownEntry `json:"previous_breakdown,omitempty"`
	Change            *float64         `json:"change"`
	Error             string           `json:"error,omitempty"`
}

type Report struct {
	Dashboard string         `json:"dashboard"`
	RequestID string         `json:"request_id"`
	Period    WindowPair     `json:"period"`
	Metrics   []MetricResult `json:"metrics"`
}

type Dashboard struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}
