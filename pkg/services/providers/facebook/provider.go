package facebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
)

const DefaultBaseURL = "https://graph.facebook.com/v12.0"

// Config identifies the page to query. The access token travels on the client.
type Config struct {
	PageID string
}

type provider struct {
	client *rest.Client
	pageID string
}

// New builds a page-insights provider. Scalar metrics are sums of daily values
// over the window; breakdown metrics (audience age/gender, city distribution)
// are lifetime gauges and return the most recent snapshot instead of a sum.
func New(client *rest.Client, cfg Config) providers.Provider {
	return &provider{client: client, pageID: cfg.PageID}
}

func (p *provider) Name() string { return "facebook" }

type insightsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value   json.RawMessage `json:"value"`
			EndTime string          `json:"end_time"`
		} `json:"values"`
	} `json:"data"`
}

func (p *provider) FetchScalar(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	_ domain.MetricParams,
) (float64, error) {
	query := url.Values{
		"metric": {metric},
		"since":  {window.Start.Format("2006-01-02")},
		"until":  {window.End.Format("2006-01-02")},
	}

	var resp insightsResponse
	err := p.client.GetJSON(ctx, fmt.Sprintf("/%s/insights", p.pageID), query, &resp)
	if err != nil {
		return 0, p.wrap(metric, err)
	}
	if len(resp.Data) == 0 {
		return 0, nil
	}

	var total float64
	for _, v := range resp.Data[0].Values {
		var value float64
		if err := json.Unmarshal(v.Value, &value); err != nil {
			return 0, p.wrap(metric, fmt.Errorf("unexpected value shape for daily metric: %w", err))
		}
		total += value
	}
	return total, nil
}

func (p *provider) FetchBreakdown(
	ctx context.Context,
	metric string,
	_ domain.DateWindow,
	_ domain.MetricParams,
) (domain.Breakdown, error) {
	query := url.Values{
		"metric": {metric},
		"period": {"lifetime"},
	}

	var resp insightsResponse
	err := p.client.GetJSON(ctx, fmt.Sprintf("/%s/insights", p.pageID), query, &resp)
	if err != nil {
		return nil, p.wrap(metric, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Values) == 0 {
		return domain.Breakdown{}, nil
	}

	// Lifetime gauges arrive as one snapshot per day; only the most recent one
	// describes the audience now. Summing or averaging them would double count.
	values := resp.Data[0].Values
	latest := values[len(values)-1].Value

	var snapshot map[string]float64
	if err := json.Unmarshal(latest, &snapshot); err != nil {
		return nil, p.wrap(metric, fmt.Errorf("unexpected value shape for lifetime metric: %w", err))
	}

	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	breakdown := make(domain.Breakdown, 0, len(keys))
	for _, key := range keys {
		breakdown = append(breakdown, domain.BreakdownEntry{Key: key, Value: snapshot[key]})
	}
	return breakdown, nil
}

func (p *provider) FetchRows(
	_ context.Context,
	metric string,
	_ domain.DateWindow,
	_ []string,
	_ domain.MetricParams,
) ([]domain.Row, error) {
	return nil, p.wrap(metric, fmt.Errorf("dimensioned rows: %w", errors.ErrUnsupported))
}

func (p *provider) wrap(metric string, err error) error {
	return &providers.RequestError{Provider: p.Name(), Metric: metric, Err: err}
}
