package config

import (
	"fmt"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

// MetricSpecConfig is the on-disk shape of one dashboard metric.
type MetricSpecConfig struct {
	Label             string `mapstructure:"label"`
	Provider          string `mapstructure:"provider"`
	Metric            string `mapstructure:"metric"`
	Shape             string `mapstructure:"shape"`
	Dimension         string `mapstructure:"dimension"`
	FallbackDimension string `mapstructure:"fallback_dimension"`
	TopN              int    `mapstructure:"top_n"`
	RowLimit          int    `mapstructure:"row_limit"`
}

// Dashboard is a named, ordered list of metric specs. Order matters: the
// report keeps it and the UI renders sections in it.
type Dashboard struct {
	Title   string             `mapstructure:"title"`
	Metrics []MetricSpecConfig `mapstructure:"metrics"`
}

// Dashboards is keyed by the dashboard identifier used in URLs and CLI flags.
type Dashboards map[string]Dashboard

// LoadDashboards reads the dashboard definitions from a YAML file.
func LoadDashboards(path string) (Dashboards, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read dashboard config: %w", err)
	}

	var cfg struct {
		Dashboards Dashboards `mapstructure:"dashboards"`
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard config: %w", err)
	}
	if len(cfg.Dashboards) == 0 {
		return nil, fmt.Errorf("dashboard config defines no dashboards")
	}
	return cfg.Dashboards, nil
}

// MetricSpecs converts the on-disk metric list into domain specs. Shape
// defaults to scalar when omitted.
func (d Dashboard) MetricSpecs() []domain.MetricSpec {
	specs := make([]domain.MetricSpec, 0, len(d.Metrics))
	for _, m := range d.Metrics {
		shape := domain.MetricShape(m.Shape)
		if m.Shape == "" {
			shape = domain.ShapeScalar
		}
		specs = append(specs, domain.MetricSpec{
			Label:    m.Label,
			Provider: m.Provider,
			Metric:   m.Metric,
			Shape:    shape,
			Params: domain.MetricParams{
				Dimension:         m.Dimension,
				FallbackDimension: m.FallbackDimension,
				TopN:              m.TopN,
				RowLimit:          m.RowLimit,
			},
		})
	}
	return specs
}
