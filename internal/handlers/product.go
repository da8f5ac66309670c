package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MosaabBleik/catalog-service/internal/models"
	"github.com/MosaabBleik/catalog-service/internal/repository"
)

// getPaginationParams reads page and per_page. Values that do not parse fall
// back to the defaults; range rules are applied by repository.NewPage.
func getPaginationParams(r *http.Request) repository.Page {
	q := r.URL.Query()

	page := repository.DefaultPage
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		page = p
	}

	perPage := repository.DefaultPerPage
	if pp, err := strconv.Atoi(q.Get("per_page")); err == nil {
		perPage = pp
	}

	return repository.NewPage(page, perPage)
}

func getFilterParams(r *http.Request) repository.ProductFilter {
	q := r.URL.Query()
	return repository.ProductFilter{
		Category:   optionalString(q.Get("category")),
		Brand:      optionalString(q.Get("brand")),
		Department: optionalString(q.Get("department")),
		MinPrice:   optionalDecimal(q.Get("min_price")),
		MaxPrice:   optionalDecimal(q.Get("max_price")),
		Search:     optionalString(q.Get("search")),
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalDecimal ignores values that are not plain decimal numbers or whose
// exponent is out of range.
func optionalDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !models.DecimalInRange(d) {
		return nil
	}
	return &d
}

// appliedFilters echoes the filters used for a listing; absent ones are null.
type appliedFilters struct {
	Category   *string          `json:"category"`
	Brand      *string          `json:"brand"`
	Department *string          `json:"department"`
	MinPrice   *decimal.Decimal `json:"min_price"`
	MaxPrice   *decimal.Decimal `json:"max_price"`
	Search     *string          `json:"search"`
}

func newAppliedFilters(f repository.ProductFilter) appliedFilters {
	return appliedFilters{
		Category:   f.Category,
		Brand:      f.Brand,
		Department: f.Department,
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		Search:     f.Search,
	}
}
