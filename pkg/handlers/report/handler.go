package report

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/de-tools/marketing-atlas/pkg/adapters"
	"github.com/de-tools/marketing-atlas/pkg/models/api"
	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/config"
	reportsvc "github.com/de-tools/marketing-atlas/pkg/services/report"
	"github.com/de-tools/marketing-atlas/pkg/services/window"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultWindowDays = 30

type Handler struct {
	dashboards config.Dashboards
	builder    *reportsvc.Builder
	registry   reportsvc.Registry
	now        func() time.Time
}

func NewHandler(dashboards config.Dashboards, builder *reportsvc.Builder, registry reportsvc.Registry) *Handler {
	return &Handler{
		dashboards: dashboards,
		builder:    builder,
		registry:   registry,
		now:        time.Now,
	}
}

func (h *Handler) ListDashboards(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	response := make([]api.Dashboard, 0, len(h.dashboards))
	for name, dashboard := range h.dashboards {
		response = append(response, api.Dashboard{Name: name, Title: dashboard.Title})
	}
	sort.Slice(response, func(i, j int) bool { return response[i].Name < response[j].Name })

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode dashboards")
	}
}

func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := json.NewEncoder(w).Encode(h.registry.ListProviders()); err != nil {
		logger.Error().Err(err).Msg("failed to encode providers")
	}
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "dashboard")

	dashboard, ok := h.dashboards[name]
	if !ok {
		http.Error(w, "unknown dashboard", http.StatusNotFound)
		return
	}

	windows, err := h.resolveWindows(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.builder.BuildReport(ctx, name, dashboard.MetricSpecs(), windows)
	if err != nil {
		var cfgErr *reportsvc.ConfigError
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Str("dashboard", name).Msg("report build failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapReportDomainToApi(result)); err != nil {
		logger.Error().Err(err).Str("dashboard", name).Msg("failed to encode report")
	}
}

// resolveWindows picks the comparison mode from the query: an explicit
// calendar month wins over a rolling day window; default is the last 30 days.
func (h *Handler) resolveWindows(r *http.Request) (domain.WindowPair, error) {
	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return domain.WindowPair{}, errors.New("invalid 'month' format. Expected format: YYYY-MM")
		}
		return window.ComputeWindowsForMonth(parsed), nil
	}

	days := defaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return domain.WindowPair{}, errors.New("invalid 'days' value. Expected a positive integer")
		}
		days = parsed
	}

	windows, err := window.ComputeWindows(h.now(), days)
	if err != nil {
		return domain.WindowPair{}, err
	}
	return windows, nil
}
