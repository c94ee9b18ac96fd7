package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zerojuls/ScheduleStorm-Server/internal/config"
	"github.com/zerojuls/ScheduleStorm-Server/internal/logger"
	"github.com/zerojuls/ScheduleStorm-Server/internal/portal"
	"github.com/zerojuls/ScheduleStorm-Server/internal/store"
	"github.com/zerojuls/ScheduleStorm-Server/internal/uni"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagDryRun  bool
	flagOnce    bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedulestorm",
		Short: "Scrape university course catalogs into a document store",
		Long: `Scrapes a university registration portal for terms, subjects, class
sections and course descriptions, and keeps them updated in MongoDB.
Runs continuously, re-scraping on the configured interval.`,
		SilenceUsage: true,
		RunE:         runScrape,
	}

	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Scrape into an in-memory store instead of MongoDB")
	cmd.Flags().BoolVar(&flagOnce, "once", false, "Run a single scrape cycle and exit")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	logger.Init(flagVerbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.University != config.DefaultUniversity {
		return fmt.Errorf("unknown university %q", cfg.University)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	client, err := portal.New(cfg.PortalBase, cfg.CalendarBase, cfg.PortalUser, cfg.PortalPIN)
	if err != nil {
		return fmt.Errorf("creating portal client: %w", err)
	}
	u := uni.NewMountRoyal(client, st, cfg.Concurrency)

	if flagOnce {
		return uni.Scrape(ctx, u, st)
	}

	return scrapeLoop(ctx, u, st, cfg.ScrapeEvery)
}

// scrapeLoop runs scrape cycles until the context is cancelled. A failed
// cycle is logged and retried on the next tick.
func scrapeLoop(ctx context.Context, u uni.University, st store.CatalogStore, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		if err := uni.Scrape(ctx, u, st); err != nil {
			logger.Error("scrape cycle failed", logger.Fields{
				"retry_in": every.String(),
			}, err)
		}

		select {
		case <-ctx.Done():
			logger.Info("shutting down", nil)
			return nil
		case <-ticker.C:
		}
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// openStore connects the configured catalog store. Dry runs get a throwaway
// in-memory store.
func openStore(ctx context.Context, cfg *config.Config) (store.CatalogStore, func(), error) {
	if flagDryRun {
		logger.Info("dry run, using in-memory store", nil)
		return store.NewMemory(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	m := store.NewMongo(client.Database(cfg.MongoDB), cfg.University)
	if err := m.EnsureIndexes(connectCtx); err != nil {
		return nil, nil, fmt.Errorf("ensuring indexes: %w", err)
	}

	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client.Disconnect(disconnectCtx)
	}
	return m, cleanup, nil
}
