package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/MosaabBleik/catalog-service/internal/clients"
	"github.com/MosaabBleik/catalog-service/internal/repository"
)

// missingProductID is far beyond any id in the dataset.
const missingProductID = 999999999

type checkResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

var errSmokeFailed = errors.New("smoke checks failed")

func newSmokeCommand(opts *globalOptions) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Exercise every endpoint of a running catalog API",
		Long: `Call each catalog endpoint through the HTTP client and report pass or fail.

Examples:
  catalogctl smoke
  catalogctl smoke --base-url http://catalog.internal:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := clients.NewCatalogClient(baseURL, timeout)
			results := runSmoke(cmd.Context(), client)

			if opts.jsonOutput {
				if err := writeJSONOutput(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				renderSmoke(cmd.OutOrStdout(), baseURL, results)
			}

			for _, r := range results {
				if !r.Passed {
					return errSmokeFailed
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "Catalog API base URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	return cmd
}

type smokeCheck struct {
	name string
	run  func(ctx context.Context, c *clients.CatalogClient) (string, error)
}

// smokeState carries the product seen by the listing check to later checks.
type smokeState struct {
	productID int64
	category  string
}

func smokeChecks(state *smokeState) []smokeCheck {
	return []smokeCheck{
		{"health", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			h, err := c.Health(ctx)
			if err != nil {
				return "", err
			}
			if h.Status != "healthy" {
				return "", fmt.Errorf("status %q", h.Status)
			}
			return "database " + h.Database, nil
		}},
		{"list products", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			list, err := c.ListProducts(ctx, clients.ListOptions{})
			if err != nil {
				return "", err
			}
			if list.Pagination.Page != repository.DefaultPage || list.Pagination.PerPage != repository.DefaultPerPage {
				return "", fmt.Errorf("default page is %d/%d", list.Pagination.Page, list.Pagination.PerPage)
			}
			if len(list.Products) > repository.DefaultPerPage {
				return "", fmt.Errorf("%d products on one page", len(list.Products))
			}
			if len(list.Products) > 0 {
				first := list.Products[0]
				state.productID = first.ID
				if first.Category != nil {
					state.category = *first.Category
				}
			}
			return fmt.Sprintf("%d products total", list.Pagination.TotalCount), nil
		}},
		{"pagination", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			list, err := c.ListProducts(ctx, clients.ListOptions{Page: 2, PerPage: 5})
			if err != nil {
				return "", err
			}
			p := list.Pagination
			if p.Page != 2 || p.PerPage != 5 || !p.HasPrev || len(list.Products) > 5 {
				return "", fmt.Errorf("unexpected page %+v with %d products", p, len(list.Products))
			}
			return fmt.Sprintf("page 2 of %d", p.TotalPages), nil
		}},
		{"category filter", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			if state.category == "" {
				return "skipped, no category to filter on", nil
			}
			list, err := c.ListProducts(ctx, clients.ListOptions{Category: state.category, PerPage: 10})
			if err != nil {
				return "", err
			}
			for _, p := range list.Products {
				if p.Category == nil || *p.Category != state.category {
					return "", fmt.Errorf("product %d is not in %q", p.ID, state.category)
				}
			}
			return fmt.Sprintf("%d products in %s", list.Pagination.TotalCount, state.category), nil
		}},
		{"single product", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			if state.productID == 0 {
				return "skipped, catalog is empty", nil
			}
			p, err := c.GetProduct(ctx, state.productID)
			if err != nil {
				return "", err
			}
			if p.ID != state.productID {
				return "", fmt.Errorf("asked for %d, got %d", state.productID, p.ID)
			}
			return fmt.Sprintf("product %d", p.ID), nil
		}},
		{"missing product", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			_, err := c.GetProduct(ctx, missingProductID)
			if !errors.Is(err, clients.ErrNotFound) {
				return "", fmt.Errorf("expected 404, got %v", err)
			}
			return "404 as expected", nil
		}},
		{"categories", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			out, err := c.Categories(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d categories", len(out)), nil
		}},
		{"brands", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			out, err := c.Brands(ctx)
			if err != nil {
				return "", err
			}
			if len(out) > repository.MaxBrandGroups {
				return "", fmt.Errorf("%d brands exceeds the cap of %d", len(out), repository.MaxBrandGroups)
			}
			return fmt.Sprintf("%d brands", len(out)), nil
		}},
		{"departments", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			out, err := c.Departments(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d departments", len(out)), nil
		}},
		{"stats", func(ctx context.Context, c *clients.CatalogClient) (string, error) {
			stats, err := c.Stats(ctx)
			if err != nil {
				return "", err
			}
			if len(stats.PriceDistribution) != len(repository.PriceBands) {
				return "", fmt.Errorf("%d price buckets", len(stats.PriceDistribution))
			}
			return fmt.Sprintf("%d products, %d premium", stats.Statistics.TotalProducts, stats.Statistics.PremiumProducts), nil
		}},
	}
}

func runSmoke(ctx context.Context, client *clients.CatalogClient) []checkResult {
	state := &smokeState{}
	checks := smokeChecks(state)
	results := make([]checkResult, 0, len(checks))
	for _, check := range checks {
		detail, err := check.run(ctx, client)
		if err != nil {
			results = append(results, checkResult{Name: check.name, Detail: err.Error()})
			continue
		}
		results = append(results, checkResult{Name: check.name, Passed: true, Detail: detail})
	}
	return results
}

func renderSmoke(w io.Writer, baseURL string, results []checkResult) {
	out := printer{w}
	out.Section("Smoke test " + baseURL)

	failed := 0
	for _, r := range results {
		if r.Passed {
			out.Success("%s: %s", r.Name, r.Detail)
		} else {
			failed++
			out.Error("%s: %s", r.Name, r.Detail)
		}
	}
	fmt.Fprintln(w)
	if failed == 0 {
		out.Success("All %d checks passed", len(results))
		return
	}
	out.Error("%d of %d checks failed", failed, len(results))
}
