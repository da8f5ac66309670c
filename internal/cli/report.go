package cli

import (
	"context"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/MosaabBleik/catalog-service/internal/database"
	"github.com/MosaabBleik/catalog-service/internal/models"
	"github.com/MosaabBleik/catalog-service/internal/repository"
)

const (
	reportTopProducts   = 5
	reportTopCategories = 10
	reportTopCustomers  = 5
	reportRecentOrders  = 5
)

type catalogReport struct {
	Counts       []models.TableCount      `json:"counts"`
	Expensive    []models.Product         `json:"most_expensive_products"`
	Categories   []models.CategorySummary `json:"top_categories"`
	Statuses     []models.StatusCount     `json:"order_statuses"`
	Customers    []models.CustomerOrders  `json:"top_customers"`
	Centers      []models.CenterProducts  `json:"distribution_centers"`
	Sales        *models.SalesSummary     `json:"sales"`
	RecentOrders []models.RecentOrder     `json:"recent_orders"`
}

func newReportCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print a sample report over the loaded data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, logger, err := opts.connect()
			if err != nil {
				return err
			}
			defer database.Close(db)
			defer logger.Sync()

			ctx := cmd.Context()
			if err := database.VerifySchema(ctx, db); err != nil {
				return err
			}

			report, err := buildReport(ctx, db)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSONOutput(cmd.OutOrStdout(), report)
			}
			renderReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func buildReport(ctx context.Context, db *gorm.DB) (*catalogReport, error) {
	reports := repository.NewReportRepository(db)
	aggregates := repository.NewAggregateRepository(db)

	var (
		rep catalogReport
		err error
	)
	if rep.Counts, err = reports.TableCounts(ctx); err != nil {
		return nil, err
	}
	if rep.Expensive, err = reports.MostExpensiveProducts(ctx, reportTopProducts); err != nil {
		return nil, err
	}
	if rep.Categories, err = aggregates.Categories(ctx); err != nil {
		return nil, err
	}
	if len(rep.Categories) > reportTopCategories {
		rep.Categories = rep.Categories[:reportTopCategories]
	}
	if rep.Statuses, err = reports.OrderStatuses(ctx); err != nil {
		return nil, err
	}
	if rep.Customers, err = reports.TopCustomers(ctx, reportTopCustomers); err != nil {
		return nil, err
	}
	if rep.Centers, err = reports.CenterProductCounts(ctx); err != nil {
		return nil, err
	}
	if rep.Sales, err = reports.Sales(ctx); err != nil {
		return nil, err
	}
	if rep.RecentOrders, err = reports.RecentOrders(ctx, reportRecentOrders); err != nil {
		return nil, err
	}
	return &rep, nil
}

func text(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func money(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return "$" + d.Decimal.StringFixed(2)
}

func fullName(first, last *string) string {
	switch {
	case first == nil && last == nil:
		return "-"
	case last == nil:
		return *first
	case first == nil:
		return *last
	}
	return *first + " " + *last
}

func itoa64(n int64) string { return strconv.FormatInt(n, 10) }

func renderReport(w io.Writer, rep *catalogReport) {
	out := printer{w}

	out.Section("Record counts")
	rows := make([][]string, 0, len(rep.Counts))
	for _, c := range rep.Counts {
		rows = append(rows, []string{c.Table, itoa64(c.Count)})
	}
	out.Table([]string{"TABLE", "RECORDS"}, rows)

	out.Section("Most expensive products")
	rows = rows[:0]
	for _, p := range rep.Expensive {
		rows = append(rows, []string{itoa64(p.ID), text(p.Name), text(p.Brand), money(p.RetailPrice)})
	}
	out.Table([]string{"ID", "NAME", "BRAND", "PRICE"}, rows)

	out.Section("Top categories")
	rows = rows[:0]
	for _, c := range rep.Categories {
		rows = append(rows, []string{c.Category, itoa64(c.Count), money(c.AvgPrice)})
	}
	out.Table([]string{"CATEGORY", "PRODUCTS", "AVG PRICE"}, rows)

	out.Section("Order status")
	rows = rows[:0]
	for _, s := range rep.Statuses {
		rows = append(rows, []string{s.Status, itoa64(s.Count)})
	}
	out.Table([]string{"STATUS", "ORDERS"}, rows)

	out.Section("Top customers")
	rows = rows[:0]
	for _, c := range rep.Customers {
		rows = append(rows, []string{itoa64(c.UserID), fullName(c.FirstName, c.LastName), itoa64(c.OrderCount)})
	}
	out.Table([]string{"USER", "NAME", "ORDERS"}, rows)

	out.Section("Distribution centers")
	rows = rows[:0]
	for _, c := range rep.Centers {
		rows = append(rows, []string{c.Name, itoa64(c.ProductCount)})
	}
	out.Table([]string{"CENTER", "PRODUCTS"}, rows)

	out.Section("Sales")
	if rep.Sales != nil {
		out.Info("Average sale price %s across %d items", money(rep.Sales.AvgSalePrice), rep.Sales.PricedItems)
	}

	out.Section("Recent orders")
	rows = rows[:0]
	for _, o := range rep.RecentOrders {
		created := "-"
		if o.CreatedAt != nil {
			created = o.CreatedAt.UTC().Format("2006-01-02 15:04")
		}
		items := "-"
		if o.NumOfItem != nil {
			items = strconv.Itoa(*o.NumOfItem)
		}
		rows = append(rows, []string{itoa64(o.OrderID), fullName(o.FirstName, o.LastName), text(o.Status), items, created})
	}
	out.Table([]string{"ORDER", "CUSTOMER", "STATUS", "ITEMS", "CREATED"}, rows)
}
