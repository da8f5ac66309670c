package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/MosaabBleik/catalog-service/internal/database"
	"github.com/MosaabBleik/catalog-service/internal/models"
	"github.com/MosaabBleik/catalog-service/internal/repository"
)

type verifyResult struct {
	Missing   []string                `json:"missing_tables"`
	Counts    []models.TableCount     `json:"counts,omitempty"`
	Integrity *models.IntegrityReport `json:"integrity,omitempty"`
}

func newVerifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the schema exists and the loaded data is consistent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, logger, err := opts.connect()
			if err != nil {
				return err
			}
			defer database.Close(db)
			defer logger.Sync()

			result, err := runVerify(cmd.Context(), db)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				if err := writeJSONOutput(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				renderVerify(cmd.OutOrStdout(), result)
			}

			if len(result.Missing) > 0 {
				return fmt.Errorf("%w: %v", database.ErrSchemaMissing, result.Missing)
			}
			return nil
		},
	}
}

func runVerify(ctx context.Context, db *gorm.DB) (*verifyResult, error) {
	result := &verifyResult{Missing: []string{}}

	migrator := db.WithContext(ctx).Migrator()
	for _, table := range database.Tables {
		if !migrator.HasTable(table) {
			result.Missing = append(result.Missing, table)
		}
	}
	if len(result.Missing) > 0 {
		return result, nil
	}

	reports := repository.NewReportRepository(db)
	counts, err := reports.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	integrity, err := reports.Integrity(ctx)
	if err != nil {
		return nil, err
	}
	result.Counts = counts
	result.Integrity = integrity
	return result, nil
}

func renderVerify(w io.Writer, result *verifyResult) {
	out := printer{w}
	out.Section("Schema")
	missing := make(map[string]bool, len(result.Missing))
	for _, table := range result.Missing {
		missing[table] = true
	}
	for _, table := range database.Tables {
		if missing[table] {
			out.Error("%s is missing", table)
		} else {
			out.Success("%s", table)
		}
	}
	if len(result.Missing) > 0 {
		return
	}

	out.Section("Record counts")
	rows := make([][]string, 0, len(result.Counts))
	for _, c := range result.Counts {
		rows = append(rows, []string{c.Table, strconv.FormatInt(c.Count, 10)})
	}
	out.Table([]string{"TABLE", "RECORDS"}, rows)

	if result.Integrity == nil {
		return
	}
	out.Section("Data integrity")
	in := result.Integrity
	out.Table([]string{"CHECK", "ROWS"}, [][]string{
		{"Products with a positive price", strconv.FormatInt(in.PricedProducts, 10)},
		{"Users with a valid email", strconv.FormatInt(in.ValidEmailUsers, 10)},
		{"Orders with a status", strconv.FormatInt(in.OrdersWithStatus, 10)},
		{"Products linked to a distribution center", strconv.FormatInt(in.LinkedProducts, 10)},
		{"Orders linked to a user", strconv.FormatInt(in.LinkedOrders, 10)},
	})
}
