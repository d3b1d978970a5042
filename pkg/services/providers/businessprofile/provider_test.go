package businessprofile

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
		Start: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchScalar_SumsDatedValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/locations/loc-9:getDailyMetricsTimeSeries", r.URL.Path)
		assert.Equal(t, "CALL_CLICKS", r.URL.Query().Get("dailyMetric"))
		assert.Equal(t, "2025", r.URL.Query().Get("dailyRange.start_date.year"))
		assert.Equal(t, "4", r.URL.Query().Get("dailyRange.start_date.month"))

		w.Write([]byte(`{"timeSeries":{"datedValues":[
			{"date":{"year":2025,"month":4,"day":1},"value":"3"},
			{"date":{"year":2025,"month":4,"day":2},"value":""},
			{"date":{"year":2025,"month":4,"day":3},"value":"5"}
		]}}`))
	}))
	defer server.Close()

	p := New(rest.NewClient(server.URL), Config{LocationID: "loc-9"})

	total, err := p.FetchScalar(context.Background(), "CALL_CLICKS", testWindow(), domain.MetricParams{})
	require.NoError(t, err)
	assert.Equal(t, 8.0, total)
}

func TestFetchScalar_NormalizesBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	p := New(rest.NewClient(server.URL), Config{LocationID: "loc-9"})

	_, err := p.FetchScalar(context.Background(), "WEBSITE_CLICKS", testWindow(), domain.MetricParams{})

	var reqErr *providers.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "businessprofile", reqErr.Provider)
	assert.Equal(t, "WEBSITE_CLICKS", reqErr.Metric)
	assert.Contains(t, reqErr.Error(), "PERMISSION_DENIED")
}

func TestFetchScalar_NormalizesTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force a connection error

	p := New(rest.NewClient(server.URL), Config{LocationID: "loc-9"})

	_, err := p.FetchScalar(context.Background(), "BUSINESS_DIRECTION_REQUESTS", testWindow(), domain.MetricParams{})

	var reqErr *providers.RequestError
	require.ErrorAs(t, err, &reqErr)
}
