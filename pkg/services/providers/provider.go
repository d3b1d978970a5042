package providers

import (
	"context"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
)

// Provider is the capability set shared by every analytics backend. Variants
// that do not support a capability return an error wrapping errors.ErrUnsupported.
type Provider interface {
	Name() string

	// FetchScalar returns a single aggregate value for the metric over the window.
	FetchScalar(ctx context.Context, metric string, window domain.DateWindow, params domain.MetricParams) (float64, error)

	// FetchBreakdown returns the metric as a distribution over a categorical
	// dimension. Whether the values are period sums or point-in-time snapshots
	// is backend-defined.
	FetchBreakdown(ctx context.Context, metric string, window domain.DateWindow, params domain.MetricParams) (domain.Breakdown, error)

	// FetchRows returns the metric grouped by multiple dimension keys, one row
	// per key combination, in backend order.
	FetchRows(ctx context.Context, metric string, window domain.DateWindow, dimensions []string, params domain.MetricParams) ([]domain.Row, error)
}
