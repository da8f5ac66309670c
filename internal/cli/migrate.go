package cli

import (
	"github.com/spf13/cobra"

	"github.com/MosaabBleik/catalog-service/internal/database"
)

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog schema",
		Long: `Apply or roll back the embedded schema migrations.

Subcommands:
  up       - create every catalog table
  down     - roll back migrations
  version  - show the applied migration version`,
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if err := database.MigrateUp(cfg.Database.MigrationURL()); err != nil {
				return err
			}
			printer{cmd.OutOrStdout()}.Success("Catalog schema is up to date")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long: `Roll back applied migrations.

Examples:
  catalogctl migrate down              # roll back the last migration
  catalogctl migrate down --steps 0    # roll back everything`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if err := database.MigrateDown(cfg.Database.MigrationURL(), steps); err != nil {
				return err
			}
			printer{cmd.OutOrStdout()}.Success("Rolled back migrations")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back (0 rolls back all)")

	version := &cobra.Command{
		Use:   "version",
		Short: "Show the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			v, dirty, ok, err := database.MigrationVersion(cfg.Database.MigrationURL())
			if err != nil {
				return err
			}

			out := printer{cmd.OutOrStdout()}
			switch {
			case !ok:
				out.Warning("No migrations applied")
			case dirty:
				out.Error("Version %d is dirty; fix the schema and force the version", v)
			default:
				out.Success("Version %d", v)
			}
			return nil
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
