package commands

import (
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/marketing-atlas/pkg/models/domain"
	"github.com/de-tools/marketing-atlas/pkg/services/config"
	"github.com/de-tools/marketing-atlas/pkg/services/providers/factory"
	"github.com/de-tools/marketing-atlas/pkg/services/report"
	"github.com/de-tools/marketing-atlas/pkg/services/window"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
	"github.com/de-tools/marketing-atlas/pkg/terminal/export"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	credentialsPath string
	dashboardsPath  string
	dashboard       string
	days            int
	month           string
	cacheTTL        time.Duration
	reporter        *export.Reporter
}

func NewReportCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a dashboard report and print it as a table",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.credentialsPath, "credentials", "", "Path to the provider credentials file")
	cmd.Flags().StringVar(&rc.dashboardsPath, "dashboards", "", "Path to the dashboards config file")
	cmd.Flags().StringVar(&rc.dashboard, "dashboard", "", "Dashboard to report on")
	cmd.Flags().IntVar(&rc.days, "days", 30, "Rolling window length in days")
	cmd.Flags().StringVar(&rc.month, "month", "", "Calendar month to report on (YYYY-MM), overrides --days")
	cmd.Flags().DurationVar(&rc.cacheTTL, "cache-ttl", 0, "Cache backend responses for this duration (0 disables)")

	_ = cmd.MarkFlagRequired("credentials")
	_ = cmd.MarkFlagRequired("dashboards")
	_ = cmd.MarkFlagRequired("dashboard")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	credentials, err := config.NewRegistry(rc.credentialsPath)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	dashboards, err := config.LoadDashboards(rc.dashboardsPath)
	if err != nil {
		return err
	}
	dashboard, ok := dashboards[rc.dashboard]
	if !ok {
		return fmt.Errorf("unknown dashboard %q", rc.dashboard)
	}

	var doer rest.Doer
	if rc.cacheTTL > 0 {
		doer = rest.NewCachingDoer(http.DefaultClient, rc.cacheTTL)
	}
	registry, err := factory.BuildRegistry(ctx, credentials, doer)
	if err != nil {
		return err
	}

	windows, err := rc.resolveWindows()
	if err != nil {
		return err
	}

	result, err := report.NewBuilder(registry).BuildReport(ctx, rc.dashboard, dashboard.MetricSpecs(), windows)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	return rc.reporter.Handle(&result)
}

func (rc *ReportCmd) resolveWindows() (domain.WindowPair, error) {
	if rc.month != "" {
		parsed, err := time.Parse("2006-01", rc.month)
		if err != nil {
			return domain.WindowPair{}, fmt.Errorf("invalid --month %q, expected YYYY-MM", rc.month)
		}
		return window.ComputeWindowsForMonth(parsed), nil
	}
	return window.ComputeWindows(time.Now(), rc.days)
}
