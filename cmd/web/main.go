package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/user"
	"time"

	handlers "github.com/de-tools/marketing-atlas/pkg/handlers/report"
	"github.com/de-tools/marketing-atlas/pkg/server"
	"github.com/de-tools/marketing-atlas/pkg/services/config"
	"github.com/de-tools/marketing-atlas/pkg/services/providers/factory"
	"github.com/de-tools/marketing-atlas/pkg/services/report"
	"github.com/de-tools/marketing-atlas/pkg/store/rest"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	credentialsPath string
	dashboardsPath  string
	cacheTTL        time.Duration
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Marketing Atlas",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultCredentials := fmt.Sprintf("%s/.marketingcfg", usr.HomeDir)

	rootCmd.Flags().StringVarP(&credentialsPath, "credentials", "c", defaultCredentials,
		"Path to the provider credentials file (default is $HOME/.marketingcfg)")
	rootCmd.Flags().StringVarP(&dashboardsPath, "dashboards", "d", "dashboards.yaml",
		"Path to the dashboards config file")
	rootCmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 5*time.Minute,
		"Cache backend responses for this duration (0 disables)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(logWriter()).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	credentials, err := config.NewRegistry(credentialsPath)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}

	dashboards, err := config.LoadDashboards(dashboardsPath)
	if err != nil {
		return err
	}

	var doer rest.Doer
	if cacheTTL > 0 {
		doer = rest.NewCachingDoer(http.DefaultClient, cacheTTL)
	}
	registry, err := factory.BuildRegistry(ctx, credentials, doer)
	if err != nil {
		return fmt.Errorf("failed to build provider registry: %w", err)
	}

	logger.Info().Msgf("Credentials found at `%s` successfully loaded.", credentialsPath)
	logger.Info().Msgf("Registered providers: %v", registry.ListProviders())
	for name, dashboard := range dashboards {
		logger.Info().Msgf("Dashboard: `%s` (%d metrics)", name, len(dashboard.Metrics))
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Reports: handlers.NewHandler(dashboards, report.NewBuilder(registry), registry),
			Logger:  logger,
		},
	})

	return api.Start()
}

// logWriter rotates logs through lumberjack when LOG_FILE is set, otherwise
// writes to stdout.
func logWriter() io.Writer {
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}
