package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
)

const DefaultBaseURL = "https://api.linkedin.com/v2"

type Config struct {
	OrganizationURN string
}

type provider struct {
	client *rest.Client
	orgURN string
}

// New builds a provider over organizational entity statistics. Supported scalar
// metrics: pageViews, uniquePageViews, newFollowers, shareCount, engagement.
func New(client *rest.Client, cfg Config) providers.Provider {
	return &provider{client: client, orgURN: cfg.OrganizationURN}
}

func (p *provider) Name() string { return "linkedin" }

type pageStatsResponse struct {
	Elements []struct {
		Views           float64 `json:"views"`
		UniquePageViews float64 `json:"uniquePageViews"`
	} `json:"elements"`
}

type followerStatsResponse struct {
	Elements []struct {
		NewFollowerCount float64 `json:"newFollowerCount"`
	} `json:"elements"`
}

type shareStatsResponse struct {
	Elements []struct {
		TotalShareStatistics struct {
			ShareCount float64 `json:"shareCount"`
			Engagement float64 `json:"engagement"`
		} `json:"totalShareStatistics"`
	} `json:"elements"`
}

func (p *provider) FetchScalar(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	_ domain.MetricParams,
) (float64, error) {
	switch metric {
	case "pageViews", "uniquePageViews":
		return p.pageStat(ctx, metric, window)
	case "newFollowers":
		return p.followerStat(ctx, metric, window)
	case "shareCount", "engagement":
		return p.shareStat(ctx, metric, window)
	default:
		return 0, p.wrap(metric, fmt.Errorf("unknown metric %q", metric))
	}
}

func (p *provider) pageStat(ctx context.Context, metric string, window domain.DateWindow) (float64, error) {
	query := url.Values{
		"q":             {"organization"},
		"organization":  {p.orgURN},
		"timeIntervals": {timeIntervals(window)},
	}

	var resp pageStatsResponse
	if err := p.client.GetJSON(ctx, "/organizationalEntityPageStatistics", query, &resp); err != nil {
		return 0, p.wrap(metric, err)
	}

	var total float64
	for _, elem := range resp.Elements {
		if metric == "uniquePageViews" {
			total += elem.UniquePageViews
		} else {
			total += elem.Views
		}
	}
	return total, nil
}

func (p *provider) followerStat(ctx context.Context, metric string, window domain.DateWindow) (float64, error) {
	query := url.Values{
		"q":                    {"organizationalEntityFollowerStatistics"},
		"organizationalEntity": {p.orgURN},
		"timeIntervals":        {timeIntervals(window)},
	}

	var resp followerStatsResponse
	if err := p.client.GetJSON(ctx, "/organizationalEntityFollowerStatistics", query, &resp); err != nil {
		return 0, p.wrap(metric, err)
	}

	var total float64
	for _, elem := range resp.Elements {
		total += elem.NewFollowerCount
	}
	return total, nil
}

func (p *provider) shareStat(ctx context.Context, metric string, window domain.DateWindow) (float64, error) {
	query := url.Values{
		"q":             {"organizationShares"},
		"organization":  {p.orgURN},
		"timeIntervals": {timeIntervals(window)},
	}

	var resp shareStatsResponse
	if err := p.client.GetJSON(ctx, "/organizationalEntityShareStatistics", query, &resp); err != nil {
		return 0, p.wrap(metric, err)
	}

	var total float64
	for _, elem := range resp.Elements {
		if metric == "engagement" {
			total += elem.TotalShareStatistics.Engagement
		} else {
			total += elem.TotalShareStatistics.ShareCount
		}
	}
	return total, nil
}

func (p *provider) FetchBreakdown(
	_ context.Context,
	metric string,
	_ domain.DateWindow,
	_ domain.MetricParams,
) (domain.Breakdown, error) {
	return nil, p.wrap(metric, fmt.Errorf("breakdowns: %w", errors.ErrUnsupported))
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

func timeIntervals(window domain.DateWindow) string {
	return fmt.Sprintf("(timeRange:(start:%s,end:%s),timeGranularityType:DAY)",
		window.Start.Format("20060102"), window.End.Format("20060102"))
}
