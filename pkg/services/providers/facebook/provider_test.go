package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindow() domain.DateWindow {
	return domain.DateWindow{
		Start: time.Date(2025, time.May, 21, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchScalar_SumsDailyValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page-1/insights", r.URL.Path)
		assert.Equal(t, "page_posts_impressions_unique", r.URL.Query().Get("metric"))
		assert.Equal(t, "2025-05-21", r.URL.Query().Get("since"))
		assert.Equal(t, "2025-06-20", r.URL.Query().Get("until"))

		w.Write([]byte(`{"data":[{"name":"page_posts_impressions_unique","values":[
			{"value":100,"end_time":"2025-05-22T07:00:00+0000"},
			{"value":250,"end_time":"2025-05-23T07:00:00+0000"},
			{"value":50,"end_time":"2025-05-24T07:00:00+0000"}
		]}]}`))
	}))
	defer server.Close()

	p := New(rest.NewClient(server.URL), Config{PageID: "page-1"})

	total, err := p.FetchScalar(context.Background(), "page_posts_impressions_unique", testWindow(), domain.MetricParams{})
	require.NoError(t, err)
	assert.Equal(t, 400.0, total)
}

func TestFetchScalar_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	p := New(rest.NewClient(server.URL), Config{PageID: "page-1"})

	total, err := p.FetchScalar(context.Background(), "page_engaged_users", testWindow(), domain.MetricParams{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestFetchBreakdown_ReturnsLatestSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lifetime", r.URL.Query().Get("period"))

		// Two snapshots; only the most recent one must be used.
		w.Write([]byte(`{"data":[{"name":"page_fans_city","values":[
			{"value":{"Berlin":10,"Hamburg":5},"end_time":"2025-06-19T07:00:00+0000"},
			{"value":{"Berlin":12,"Hamburg":6,"Munich":3},"end_time":"2025-06-20T07:00:00+0000"}
		]}]}`))
	}))
	defer server.Close()

	p := New(rest.NewClient(server.URL), Config{PageID: "page-1"})

	breakdown, err := p.FetchBreakdown(context.Background(), "page_fans_city", testWindow(), domain.MetricParams{})
	require.NoError(t, err)
	assert.Equal(t, domain.Breakdown{
		{Key: "Berlin", Value: 12},
		{Key: "Hamburg", Value: 6},
		{Key: "Munich", Value: 3},
	}, breakdown)
}

func TestFetchScalar_BackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid OAuth access token"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	p := New(rest.NewClient(server.URL), Config{PageID: "page-1"})

	_, err := p.FetchScalar(context.Background(), "page_fan_adds_unique", testWindow(), domain.MetricParams{})

	var reqErr *providers.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "facebook", reqErr.Provider)
	assert.Equal(t, "page_fan_adds_unique", reqErr.Metric)
}
