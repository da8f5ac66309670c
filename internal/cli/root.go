package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MosaabBleik/catalog-service/internal/config"
	"github.com/MosaabBleik/catalog-service/internal/database"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	databaseURL string
	jsonOutput  bool
	verbose     bool
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Operate the catalog store",
		Long: `catalogctl prepares and inspects the store behind the catalog query service.

Commands:
  migrate  - create or drop the catalog schema
  ingest   - load the CSV archive into the store
  verify   - check tables exist and the loaded data is consistent
  report   - print a sample report over the loaded data
  smoke    - exercise a running catalog API`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "db", "", "Database connection URL (defaults to DATABASE_URL or the DB_* settings)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newMigrateCommand(opts),
		newIngestCommand(opts),
		newVerifyCommand(opts),
		newReportCommand(opts),
		newSmokeCommand(opts),
	)
	return root
}

// Execute runs catalogctl and exits non-zero on failure.
func Execute() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func (o *globalOptions) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.databaseURL != "" {
		cfg.Database.URL = o.databaseURL
	}
	return cfg, nil
}

func (o *globalOptions) logger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if o.verbose {
		level = "debug"
	}
	return config.NewLogger(level)
}

// connect opens the store. The caller closes the database and syncs the
// logger.
func (o *globalOptions) connect() (*gorm.DB, *zap.Logger, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, nil, err
	}
	logger, err := o.logger(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, logger, nil
}

func writeJSONOutput(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
