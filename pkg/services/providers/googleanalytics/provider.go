package googleanalytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
)

const DefaultBaseURL = "https://analyticsdata.googleapis.com/v1beta"

type Config struct {
	PropertyID string
}

type provider struct {
	client   *rest.Client
	property string
}

// New builds a web-analytics provider on top of the Data API report endpoint.
// Breakdown requests with a rejected dimension fall back to the coarser
// dimension from the params; the counted events stay the same, only the
// grouping key degrades.
func New(client *rest.Client, cfg Config) providers.Provider {
	return &provider{client: client, property: cfg.PropertyID}
}

func (p *provider) Name() string { return "googleanalytics" }

type dateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type runReportRequest struct {
	DateRanges []dateRange `json:"dateRanges"`
	Metrics    []namedRef  `json:"metrics"`
	Dimensions []namedRef  `json:"dimensions,omitempty"`
	OrderBys   []orderBy   `json:"orderBys,omitempty"`
	Limit      string      `json:"limit,omitempty"`
}

type namedRef struct {
	Name string `json:"name"`
}

type orderBy struct {
	Metric namedRef `json:"metric"`
	Desc   bool     `json:"desc"`
}

type runReportResponse struct {
	Rows []struct {
		DimensionValues []struct {
			Value string `json:"value"`
		} `json:"dimensionValues"`
		MetricValues []struct {
			Value string `json:"value"`
		} `json:"metricValues"`
	} `json:"rows"`
}

func (p *provider) FetchScalar(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	_ domain.MetricParams,
) (float64, error) {
	resp, err := p.runReport(ctx, runReportRequest{
		DateRanges: []dateRange{windowRange(window)},
		Metrics:    []namedRef{{Name: metric}},
	})
	if err != nil {
		return 0, p.wrap(metric, err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].MetricValues) == 0 {
		return 0, nil
	}

	value, err := strconv.ParseFloat(resp.Rows[0].MetricValues[0].Value, 64)
	if err != nil {
		return 0, p.wrap(metric, fmt.Errorf("failed to parse metric value: %w", err))
	}
	return value, nil
}

func (p *provider) FetchBreakdown(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	params domain.MetricParams,
) (domain.Breakdown, error) {
	resp, err := p.runDimensionedReport(ctx, metric, window, params.Dimension, params)
	if err != nil {
		var dimErr *providers.InvalidDimensionError
		if errors.As(err, &dimErr) && params.FallbackDimension != "" {
			resp, err = p.runDimensionedReport(ctx, metric, window, params.FallbackDimension, params)
		}
	}
	if err != nil {
		return nil, p.wrap(metric, err)
	}

	breakdown := make(domain.Breakdown, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.DimensionValues) == 0 || len(row.MetricValues) == 0 {
			continue
		}
		value, err := strconv.ParseFloat(row.MetricValues[0].Value, 64)
		if err != nil {
			return nil, p.wrap(metric, fmt.Errorf("failed to parse metric value: %w", err))
		}
		breakdown = append(breakdown, domain.BreakdownEntry{
			Key:   row.DimensionValues[0].Value,
			Value: value,
		})
	}
	return breakdown, nil
}

func (p *provider) FetchRows(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	dimensions []string,
	params domain.MetricParams,
) ([]domain.Row, error) {
	req := runReportRequest{
		DateRanges: []dateRange{windowRange(window)},
		Metrics:    []namedRef{{Name: metric}},
		OrderBys:   []orderBy{{Metric: namedRef{Name: metric}, Desc: true}},
	}
	for _, dim := range dimensions {
		req.Dimensions = append(req.Dimensions, namedRef{Name: dim})
	}
	if params.RowLimit > 0 {
		req.Limit = strconv.Itoa(params.RowLimit)
	}

	resp, err := p.runReport(ctx, req)
	if err != nil {
		return nil, p.wrap(metric, err)
	}

	rows := make([]domain.Row, 0, len(resp.Rows))
	for _, raw := range resp.Rows {
		if len(raw.MetricValues) == 0 {
			continue
		}
		value, err := strconv.ParseFloat(raw.MetricValues[0].Value, 64)
		if err != nil {
			return nil, p.wrap(metric, fmt.Errorf("failed to parse metric value: %w", err))
		}
		keys := make([]string, 0, len(raw.DimensionValues))
		for _, dv := range raw.DimensionValues {
			keys = append(keys, dv.Value)
		}
		rows = append(rows, domain.Row{Keys: keys, Value: value})
	}
	return rows, nil
}

func (p *provider) runDimensionedReport(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	dimension string,
	params domain.MetricParams,
) (*runReportResponse, error) {
	if dimension == "" {
		return nil, fmt.Errorf("breakdown request requires a dimension")
	}

	req := runReportRequest{
		DateRanges: []dateRange{windowRange(window)},
		Metrics:    []namedRef{{Name: metric}},
		Dimensions: []namedRef{{Name: dimension}},
		OrderBys:   []orderBy{{Metric: namedRef{Name: metric}, Desc: true}},
	}
	if params.TopN > 0 {
		req.Limit = strconv.Itoa(params.TopN)
	}

	resp, err := p.runReport(ctx, req)
	if err != nil {
		if reason, ok := invalidArgumentReason(err); ok {
			return nil, &providers.InvalidDimensionError{Dimension: dimension, Reason: reason}
		}
		return nil, err
	}
	return resp, nil
}

func (p *provider) runReport(ctx context.Context, req runReportRequest) (*runReportResponse, error) {
	var resp runReportResponse
	path := fmt.Sprintf("/properties/%s:runReport", p.property)
	if err := p.client.PostJSON(ctx, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *provider) wrap(metric string, err error) error {
	return &providers.RequestError{Provider: p.Name(), Metric: metric, Err: err}
}

// invalidArgumentReason detects the backend's rejection of a dimension or
// dimension/metric combination: HTTP 400 with status INVALID_ARGUMENT.
func invalidArgumentReason(err error) (string, bool) {
	var httpErr *rest.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		return "", false
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal(httpErr.Body, &payload) != nil {
		return "", false
	}
	if payload.Error.Status != "INVALID_ARGUMENT" {
		return "", false
	}
	return payload.Error.Message, true
}

func windowRange(window domain.DateWindow) dateRange {
	return dateRange{
		StartDate: window.Start.Format("2006-01-02"),
		EndDate:   window.End.Format("2006-01-02"),
	}
}
