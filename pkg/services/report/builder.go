package report

import (
	"context"
	"fmt"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/providers"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ConfigError reports a misconfigured report request: an unknown provider key,
// a malformed metric spec or invalid window parameters. It aborts the report
// build; it is never converted into a per-metric error marker.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// Builder assembles dashboard reports. It holds no cross-request state; every
// build is independent and idempotent given the same windows and provider
// responses.
type Builder struct {
	registry Registry
}

func NewBuilder(registry Registry) *Builder {
	return &Builder{registry: registry}
}

// BuildReport fetches every metric for both windows, sequentially and in spec
// order. A failing provider call marks that one result as errored and the build
// moves on; only configuration problems abort the whole report. Output order
// always equals spec order.
func (b *Builder) BuildReport(
	ctx context.Context,
	dashboard string,
	specs []domain.MetricSpec,
	windows domain.WindowPair,
) (domain.Report, error) {
	if err := validateSpecs(specs); err != nil {
		return domain.Report{}, err
	}

	requestID := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().
		Str("dashboard", dashboard).
		Str("request_id", requestID).
		Logger()

	results := make([]domain.MetricResult, 0, len(specs))
	for _, spec := range specs {
		provider, err := b.registry.Get(spec.Provider)
		if err != nil {
			return domain.Report{}, err
		}

		result := b.collect(logger.WithContext(ctx), provider, spec, windows)
		if result.Error != "" {
			logger.Warn().
				Str("label", spec.Label).
				Str("provider", spec.Provider).
				Str("error", result.Error).
				Msg("metric collection failed")
		}
		results = append(results, result)
	}

	return domain.Report{
		Dashboard: dashboard,
		RequestID: requestID,
		Windows:   windows,
		Results:   results,
	}, nil
}

func (b *Builder) collect(
	ctx context.Context,
	provider providers.Provider,
	spec domain.MetricSpec,
	windows domain.WindowPair,
) domain.MetricResult {
	result := domain.MetricResult{Label: spec.Label, Shape: spec.Shape}

	switch spec.Shape {
	case domain.ShapeScalar:
		current, err := provider.FetchScalar(ctx, spec.Metric, windows.Current, spec.Params)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		previous, err := provider.FetchScalar(ctx, spec.Metric, windows.Previous, spec.Params)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Current = current
		result.Previous = previous
		result.Change = PercentChange(current, previous)

	case domain.ShapeBreakdown:
		current, err := provider.FetchBreakdown(ctx, spec.Metric, windows.Current, spec.Params)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		previous, err := provider.FetchBreakdown(ctx, spec.Metric, windows.Previous, spec.Params)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		if spec.Params.TopN > 0 {
			current = current.TopN(spec.Params.TopN)
			previous = previous.TopN(spec.Params.TopN)
		}
		result.CurrentBreakdown = current
		result.PreviousBreakdown = previous
		// Breakdowns are point-in-time distributions; no delta is defined.
	}

	return result
}

func validateSpecs(specs []domain.MetricSpec) error {
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if spec.Label == "" {
			return &ConfigError{Reason: "metric spec is missing a label"}
		}
		if _, dup := seen[spec.Label]; dup {
			return &ConfigError{Reason: fmt.Sprintf("duplicate metric label %q", spec.Label)}
		}
		seen[spec.Label] = struct{}{}

		if spec.Shape != domain.ShapeScalar && spec.Shape != domain.ShapeBreakdown {
			return &ConfigError{Reason: fmt.Sprintf("metric %q has unknown shape %q", spec.Label, spec.Shape)}
		}
	}
	return nil
}
