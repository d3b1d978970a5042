package report

import (
	"context"
	"testing"
	"time"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
	name string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) FetchScalar(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	params domain.MetricParams,
) (float64, error) {
	args := m.Called(ctx, metric, window, params)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockProvider) FetchBreakdown(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	params domain.MetricParams,
) (domain.Breakdown, error) {
	args := m.Called(ctx, metric, window, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Breakdown), args.Error(1)
}

func (m *mockProvider) FetchRows(
	ctx context.Context,
	metric string,
	window domain.DateWindow,
	dimensions []string,
	params domain.MetricParams,
) ([]domain.Row, error) {
	args := m.Called(ctx, metric, window, dimensions, params)
	return args.Get(0).([]domain.Row), args.Error(1)
}

func testWindows() domain.WindowPair {
	return domain.WindowPair{
		Current: domain.DateWindow{
			Start: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		},
		Previous: domain.DateWindow{
			Start: time.Date(2025, time.January, 29, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
	}
}

func newTestRegistry(t *testing.T, providerSet map[string]providers.Provider) Registry {
	t.Helper()
	registry := NewRegistry()
	for name, p := range providerSet {
		require.NoError(t, registry.Register(name, p))
	}
	return registry
}

func TestBuildReport_ScalarWithDelta(t *testing.T) {
	windows := testWindows()
	web := &mockProvider{name: "web"}
	web.On("FetchScalar", mock.Anything, "totalUsers", windows.Current, domain.MetricParams{}).
		Return(1200.0, nil)
	web.On("FetchScalar", mock.Anything, "totalUsers", windows.Previous, domain.MetricParams{}).
		Return(1000.0, nil)

	builder := NewBuilder(newTestRegistry(t, map[string]providers.Provider{"web": web}))

	specs := []domain.MetricSpec{
		{Label: "Users", Provider: "web", Metric: "totalUsers", Shape: domain.ShapeScalar},
	}
	result, err := builder.BuildReport(context.Background(), "traffic", specs, windows)
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	users := result.Results[0]
	assert.Equal(t, "Users", users.Label)
	assert.Equal(t, 1200.0, users.Current)
	assert.Equal(t, 1000.0, users.Previous)
	require.NotNil(t, users.Change)
	assert.InDelta(t, 20.0, *users.Change, 1e-9)
	assert.Empty(t, users.Error)
}

func TestBuildReport_FailingProviderMarksOnlyItsMetric(t *testing.T) {
	windows := testWindows()

	healthy := &mockProvider{name: "social"}
	healthy.On("FetchScalar", mock.Anything, "reach", mock.Anything, mock.Anything).
		Return(500.0, nil)

	broken := &mockProvider{name: "listing"}
	broken.On("FetchScalar", mock.Anything, "CALL_CLICKS", mock.Anything, mock.Anything).
		Return(0.0, &providers.RequestError{Provider: "listing", Metric: "CALL_CLICKS",
			Err: assert.AnError})

	builder := NewBuilder(newTestRegistry(t, map[string]providers.Provider{
		"social":  healthy,
		"listing": broken,
	}))

	specs := []domain.MetricSpec{
		{Label: "Reach", Provider: "social", Metric: "reach", Shape: domain.ShapeScalar},
		{Label: "Call Clicks", Provider: "listing", Metric: "CALL_CLICKS", Shape: domain.ShapeScalar},
		{Label: "Reach Again", Provider: "social", Metric: "reach", Shape: domain.ShapeScalar},
	}
	result, err := builder.BuildReport(context.Background(), "overview", specs, windows)
	require.NoError(t, err)

	require.Len(t, result.Results, len(specs))
	assert.Empty(t, result.Results[0].Error)
	assert.NotEmpty(t, result.Results[1].Error)
	assert.Empty(t, result.Results[2].Error)
}

func TestBuildReport_OutputOrderMatchesSpecOrder(t *testing.T) {
	windows := testWindows()
	web := &mockProvider{name: "web"}
	for _, metric := range []string{"a", "b", "c", "d"} {
		web.On("FetchScalar", mock.Anything, metric, mock.Anything, mock.Anything).
			Return(1.0, nil)
	}

	builder := NewBuilder(newTestRegistry(t, map[string]providers.Provider{"web": web}))

	specs := []domain.MetricSpec{
		{Label: "Delta", Provider: "web", Metric: "d", Shape: domain.ShapeScalar},
		{Label: "Alpha", Provider: "web", Metric: "a", Shape: domain.ShapeScalar},
		{Label: "Charlie", Provider: "web", Metric: "c", Shape: domain.ShapeScalar},
		{Label: "Bravo", Provider: "web", Metric: "b", Shape: domain.ShapeScalar},
	}
	result, err := builder.BuildReport(context.Background(), "ordering", specs, windows)
	require.NoError(t, err)

	labels := make([]string, 0, len(result.Results))
	for _, r := range result.Results {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"Delta", "Alpha", "Charlie", "Bravo"}, labels)
}

func TestBuildReport_BreakdownHasNoChange(t *testing.T) {
	windows := testWindows()
	social := &mockProvider{name: "social"}
	social.On("FetchBreakdown", mock.Anything, "page_fans_city", mock.Anything, mock.Anything).
		Return(domain.Breakdown{
			{Key: "Berlin", Value: 10},
			{Key: "Munich", Value: 30},
			{Key: "Hamburg", Value: 20},
		}, nil)

	builder := NewBuilder(newTestRegistry(t, map[string]providers.Provider{"social": social}))

	specs := []domain.MetricSpec{{
		Label:    "Top Cities",
		Provider: "social",
		Metric:   "page_fans_city",
		Shape:    domain.ShapeBreakdown,
		Params:   domain.MetricParams{TopN: 2},
	}}
	result, err := builder.BuildReport(context.Background(), "audience", specs, windows)
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	cities := result.Results[0]
	assert.Nil(t, cities.Change)
	assert.Equal(t, domain.Breakdown{
		{Key: "Munich", Value: 30},
		{Key: "Hamburg", Value: 20},
	}, cities.CurrentBreakdown)
}

func TestBuildReport_UnknownProviderAborts(t *testing.T) {
	builder := NewBuilder(NewRegistry())

	specs := []domain.MetricSpec{
		{Label: "Users", Provider: "missing", Metric: "totalUsers", Shape: domain.ShapeScalar},
	}
	_, err := builder.BuildReport(context.Background(), "traffic", specs, testWindows())

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestBuildReport_InvalidSpecsAbort(t *testing.T) {
	web := &mockProvider{name: "web"}
	builder := NewBuilder(newTestRegistry(t, map[string]providers.Provider{"web": web}))

	tests := []struct {
		name  string
		specs []domain.MetricSpec
	}{
		{
			name:  "missing label",
			specs: []domain.MetricSpec{{Provider: "web", Metric: "sessions", Shape: domain.ShapeScalar}},
		},
		{
			name: "duplicate label",
			specs: []domain.MetricSpec{
				{Label: "Sessions", Provider: "web", Metric: "sessions", Shape: domain.ShapeScalar},
				{Label: "Sessions", Provider: "web", Metric: "sessions", Shape: domain.ShapeScalar},
			},
		},
		{
			name:  "unknown shape",
			specs: []domain.MetricSpec{{Label: "Sessions", Provider: "web", Metric: "sessions", Shape: "histogram"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := builder.BuildReport(context.Background(), "traffic", tc.specs, testWindows())

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}
