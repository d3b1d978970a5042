package searchconsole

import (
	"context"
	"fmt"
	"net/url"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/webmasters/v3"

	// defaultRowLimit caps query reports when the metric does not set one. The
	// backend truncates silently beyond the limit; truncation is not an error.
	defaultRowLimit = 1000
)

type Config struct {
	SiteURL string
}

type provider struct {
	client *rest.Client
	site   string
}

// New builds a search-query-report provider. Reports are click counts grouped
// by the requested dimensions, most commonly (page, query).
func New(client *rest.Client, cfg Config) providers.Provider {
	return &provider{client: client, site: cfg.SiteURL}
}

func (p *provider) Name() string { return "searchconsole" }

type queryRequest struct {
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Dimensions []string `json:"dimensions,omitempty"`
	RowLimit   int      `json:"rowLimit"`
}

type queryResponse struct {
	Rows []struct {
		Keys        []string `json:"keys"`
		Clicks      float64  `json:"clicks"`
		Impressions float64  `json:"impressions"`
		CTR         float64  `json:"ctr"`
		Position    float64  `json:"position"`
	} `json:"rows"`
}

func (p *provider) FetchScalar(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	params domain.MetricParams,
) (float64, error) {
	resp, err := p.query(ctx, queryRequest{
		StartDate: window.Start.Format("2006-01-02"),
		EndDate:   window.End.Format("2006-01-02"),
		RowLimit:  rowLimit(params),
	})
	if err != nil {
		return 0, p.wrap(metric, err)
	}

	// Without dimensions the backend returns a single totals row.
	if len(resp.Rows) == 0 {
		return 0, nil
	}
	value, err := metricField(resp.Rows[0].Clicks, resp.Rows[0].Impressions, resp.Rows[0].CTR, resp.Rows[0].Position, metric)
	if err != nil {
		return 0, p.wrap(metric, err)
	}
	return value, nil
}

func (p *provider) FetchBreakdown(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	params domain.MetricParams,
) (domain.Breakdown, error) {
	dimension := params.Dimension
	if dimension == "" {
		dimension = "query"
	}

	resp, err := p.query(ctx, queryRequest{
		StartDate:  window.Start.Format("2006-01-02"),
		EndDate:    window.End.Format("2006-01-02"),
		Dimensions: []string{dimension},
		RowLimit:   rowLimit(params),
	})
	if err != nil {
		return nil, p.wrap(metric, err)
	}

	breakdown := make(domain.Breakdown, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if len(row.Keys) == 0 {
			continue
		}
		value, err := metricField(row.Clicks, row.Impressions, row.CTR, row.Position, metric)
		if err != nil {
			return nil, p.wrap(metric, err)
		}
		breakdown = append(breakdown, domain.BreakdownEntry{Key: row.Keys[0], Value: value})
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
	if len(dimensions) == 0 {
		dimensions = []string{"page", "query"}
	}

	resp, err := p.query(ctx, queryRequest{
		StartDate:  window.Start.Format("2006-01-02"),
		EndDate:    window.End.Format("2006-01-02"),
		Dimensions: dimensions,
		RowLimit:   rowLimit(params),
	})
	if err != nil {
		return nil, p.wrap(metric, err)
	}

	rows := make([]domain.Row, 0, len(resp.Rows))
	for _, raw := range resp.Rows {
		value, err := metricField(raw.Clicks, raw.Impressions, raw.CTR, raw.Position, metric)
		if err != nil {
			return nil, p.wrap(metric, err)
		}
		rows = append(rows, domain.Row{Keys: raw.Keys, Value: value})
	}
	return rows, nil
}

func (p *provider) query(ctx context.Context, req queryRequest) (*queryResponse, error) {
	var resp queryResponse
	path := fmt.Sprintf("/sites/%s/searchAnalytics/query", url.PathEscape(p.site))
	if err := p.client.PostJSON(ctx, path, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *provider) wrap(metric string, err error) error {
	return &providers.RequestError{Provider: p.Name(), Metric: metric, Err: err}
}

func rowLimit(params domain.MetricParams) int {
	if params.RowLimit > 0 {
		return params.RowLimit
	}
	return defaultRowLimit
}

func metricField(clicks, impressions, ctr, position float64, metric string) (float64, error) {
	switch metric {
	case "clicks", "":
		return clicks, nil
	case "impressions":
		return impressions, nil
	case "ctr":
		return ctr, nil
	case "position":
		return position, nil
	default:
		return 0, fmt.Errorf("unknown search metric %q", metric)
	}
}
