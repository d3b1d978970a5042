package businessprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
)

const DefaultBaseURL = "https://businessprofileperformance.googleapis.com/v1"

type Config struct {
	LocationID string
}

type provider struct {
	client   *rest.Client
	location string
}

// New builds a business-listing provider over the performance time-series
// endpoint. Supported metrics are the backend's named daily metrics, e.g.
// CALL_CLICKS, WEBSITE_CLICKS, BUSINESS_DIRECTION_REQUESTS.
func New(client *rest.Client, cfg Config) providers.Provider {
	return &provider{client: client, location: cfg.LocationID}
}

func (p *provider) Name() string { return "businessprofile" }

type timeSeriesResponse struct {
	TimeSeries struct {
		DatedValues []struct {
			Date struct {
				Year  int `json:"year"`
				Month int `json:"month"`
				Day   int `json:"day"`
			} `json:"date"`
			Value string `json:"value"`
		} `json:"datedValues"`
	} `json:"timeSeries"`
}

func (p *provider) FetchScalar(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	_ domain.MetricParams,
) (float64, error) {
	query := url.Values{
		"dailyMetric":                 {metric},
		"dailyRange.start_date.year":  {strconv.Itoa(window.Start.Year())},
		"dailyRange.start_date.month": {strconv.Itoa(int(window.Start.Month()))},
		"dailyRange.start_date.day":   {strconv.Itoa(window.Start.Day())},
		"dailyRange.end_date.year":    {strconv.Itoa(window.End.Year())},
		"dailyRange.end_date.month":   {strconv.Itoa(int(window.End.Month()))},
		"dailyRange.end_date.day":     {strconv.Itoa(window.End.Day())},
	}

	var resp timeSeriesResponse
	path := fmt.Sprintf("/locations/%s:getDailyMetricsTimeSeries", p.location)
	if err := p.client.GetJSON(ctx, path, query, &resp); err != nil {
		return 0, p.normalize(metric, err)
	}

	var total float64
	for _, dv := range resp.TimeSeries.DatedValues {
		// Days without activity come back with an empty value.
		if dv.Value == "" {
			continue
		}
		value, err := strconv.ParseFloat(dv.Value, 64)
		if err != nil {
			return 0, p.normalize(metric, fmt.Errorf("failed to parse dated value: %w", err))
		}
		total += value
	}
	return total, nil
}

func (p *provider) FetchBreakdown(
	_ context.Context,
	metric string,
	_ domain.DateWindow,
	_ domain.MetricParams,
) (domain.Breakdown, error) {
	return nil, p.normalize(metric, fmt.Errorf("breakdowns: %w", errors.ErrUnsupported))
}

func (p *provider) FetchRows(
	_ context.Context,
	metric string,
	_ domain.DateWindow,
	_ []string,
	_ domain.MetricParams,
) ([]domain.Row, error) {
	return nil, p.normalize(metric, fmt.Errorf("dimensioned rows: %w", errors.ErrUnsupported))
}

// normalize folds both structured backend error payloads and plain transport
// failures into one RequestError shape, keeping the orchestration path free of
// provider-specific error handling.
func (p *provider) normalize(metric string, err error) error {
	var httpErr *rest.HTTPError
	if errors.As(err, &httpErr) {
		var payload struct {
			Error struct {
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}
		if json.Unmarshal(httpErr.Body, &payload) == nil && payload.Error.Message != "" {
			return &providers.RequestError{
				Provider: p.Name(),
				Metric:   metric,
				Err:      fmt.Errorf("%s: %s", payload.Error.Status, payload.Error.Message),
			}
		}
	}
	return &providers.RequestError{Provider: p.Name(), Metric: metric, Err: err}
}
