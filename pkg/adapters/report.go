package adapters

import (
	"github.com/de-tools/marketing-atlas/pkg/models/api"
	"github.com/de-tools/marketing-atlas/pkg/models/domain"
)

func MapReportDomainToApi(report domain.Report) api.Report {
	apiReport := api.Report{
		Dashboard: report.Dashboard,
		RequestID: report.RequestID,
		Period: api.WindowPair{
			Current:  MapWindowDomainToApi(report.Windows.Current),
			Previous: MapWindowDomainToApi(report.Windows.Previous),
		},
		Metrics: make([]api.MetricResult, 0, len(report.Results)),
	}

	for _, result := range report.Results {
		apiReport.Metrics = append(apiReport.Metrics, MapMetricResultDomainToApi(result))
	}
	return apiReport
}

func MapWindowDomainToApi(window domain.DateWindow) api.DateWindow {
	return api.DateWindow{Start: window.Start, End: window.End}
}

func MapMetricResultDomainToApi(result domain.MetricResult) api.MetricResult {
	apiResult := api.MetricResult{
		Label:  result.Label,
		Shape:  string(result.Shape),
		Change: result.Change,
		Error:  result.Error,
	}

	if result.Error != "" {
		return apiResult
	}

	switch result.Shape {
	case domain.ShapeScalar:
		current, previous := result.Current, result.Previous
		apiResult.Current = &current
		apiResult.Previous = &previous
	case domain.ShapeBreakdown:
		apiResult.CurrentBreakdown = mapBreakdown(result.CurrentBreakdown)
		apiResult.PreviousBreakdown = mapBreakdown(result.PreviousBreakdown)
	}
	return apiResult
}

func mapBreakdown(breakdown domain.Breakdown) []api.BreakdownEntry {
	entries := make([]api.BreakdownEntry, 0, len(breakdown))
	for _, entry := range breakdown {
		entries = append(entries, api.BreakdownEntry{Key: entry.Key, Value: entry.Value})
	}
	return entries
}
