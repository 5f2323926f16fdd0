// Command mleague-scraper refreshes the local league cache from the public
// M.League site.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/mleague-analyst/internal/config"
	"github.com/user/mleague-analyst/internal/database"
	"github.com/user/mleague-analyst/internal/logging"
	"github.com/user/mleague-analyst/internal/metrics"
	"github.com/user/mleague-analyst/internal/pkg/paths"
	"github.com/user/mleague-analyst/internal/repository"
	"github.com/user/mleague-analyst/internal/scraper"
	"github.com/user/mleague-analyst/internal/version"
	"go.uber.org/zap"
)

const logFile = "mleague-scraper.log"

// errNothingWritten is returned when every section failed.
var errNothingWritten = errors.New("no section could be refreshed")

type options struct {
	dbPath     string
	seasonYear int
	baseURL    string
	timeout    time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mleague-scraper",
		Short: "Refresh the M.League cache",
		Long: `mleague-scraper downloads team standings, game results and player stats
from the M.League site and replaces the matching cache tables.

A section that cannot be fetched or parsed keeps its previous snapshot.`,
		Version: version.Short(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.apply(cmd, cfg)

			logger, err := logging.New(cfg.Server.LogLevel, paths.GetLogDir(), logFile, cfg.LogRotation)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			return runIngest(cmd.Context(), cfg, cmd.OutOrStdout(), logger)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	cmd.Flags().StringVar(&opts.dbPath, "db", "", "Path to the cache database (default: <data dir>/m_league.db)")
	cmd.Flags().IntVar(&opts.seasonYear, "season-year", 0, "Year the season started in (default: scraper.season_year)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Site base URL (default: scraper.base_url)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-page HTTP timeout (default: scraper.timeout)")

	return cmd
}

// apply overrides cfg with the flags that were set explicitly.
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path = o.dbPath
	}
	if flags.Changed("season-year") {
		cfg.Scraper.SeasonYear = o.seasonYear
	}
	if flags.Changed("base-url") {
		cfg.Scraper.BaseURL = o.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Scraper.Timeout = o.timeout
	}
}

func runIngest(ctx context.Context, cfg *config.Config, out io.Writer, logger *zap.Logger) error {
	logger.Info("starting ingestion",
		zap.String("version", version.Short()),
		zap.String("db", cfg.Database.Path),
		zap.String("base_url", cfg.Scraper.BaseURL),
		zap.Int("season_year", cfg.Scraper.SeasonYear),
	)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	ingester := scraper.NewIngester(
		scraper.NewClient(cfg.Scraper, logger),
		repository.NewIngestRepository(db),
		cfg.Scraper.SeasonYear,
		metrics.NewManager(),
		logger,
	)

	report, err := ingester.Run(ctx)
	if report != nil {
		fmt.Fprintln(out, scraper.RenderReport(report))
	}
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if report.Failed() {
		return errNothingWritten
	}
	return nil
}
