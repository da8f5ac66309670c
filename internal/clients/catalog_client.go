package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MosaabBleik/catalog-service/internal/models"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("catalog service unavailable")
	ErrTimeout     = errors.New("request timed out")
)

// APIError is a non-2xx answer from the catalog service.
type APIError struct {
	StatusCode int
	Title      string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Title, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Title)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnavailable:
		return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusGatewayTimeout
	}
	return false
}

// CatalogClient calls the read-only catalog HTTP API.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// ListOptions are the query parameters of the product listing. Zero values
// are omitted.
type ListOptions struct {
	Page       int
	PerPage    int
	Category   string
	Brand      string
	Department string
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Page != 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.PerPage != 0 {
		v.Set("per_page", strconv.Itoa(o.PerPage))
	}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("category", o.Category)
	set("brand", o.Brand)
	set("department", o.Department)
	set("search", o.Search)
	if o.MinPrice != nil {
		v.Set("min_price", o.MinPrice.String())
	}
	if o.MaxPrice != nil {
		v.Set("max_price", o.MaxPrice.String())
	}
	return v
}

type AppliedFilters struct {
	Category   *string          `json:"category"`
	Brand      *string          `json:"brand"`
	Department *string          `json:"department"`
	MinPrice   *decimal.Decimal `json:"min_price"`
	MaxPrice   *decimal.Decimal `json:"max_price"`
	Search     *string          `json:"search"`
}

type ProductList struct {
	Products   []models.ProductDetail `json:"products"`
	Pagination models.Pagination      `json:"pagination"`
	Filters    AppliedFilters         `json:"filters"`
}

type Stats struct {
	Statistics        models.Statistics    `json:"statistics"`
	PriceDistribution []models.PriceBucket `json:"price_distribution"`
}

func (c *CatalogClient) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) ListProducts(ctx context.Context, opts ListOptions) (*ProductList, error) {
	var out ProductList
	if err := c.get(ctx, "/api/products", opts.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	var out struct {
		Product *models.ProductDetail `json:"product"`
	}
	if err := c.get(ctx, fmt.Sprintf("/api/products/%d", id), nil, &out); err != nil {
		return nil, err
	}
	if out.Product == nil {
		return nil, fmt.Errorf("product %d: empty response", id)
	}
	return out.Product, nil
}

func (c *CatalogClient) Categories(ctx context.Context) ([]models.CategorySummary, error) {
	var out struct {
		Categories []models.CategorySummary `json:"categories"`
	}
	if err := c.get(ctx, "/api/products/categories", nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *CatalogClient) Brands(ctx context.Context) ([]models.BrandSummary, error) {
	var out struct {
		Brands []models.BrandSummary `json:"brands"`
	}
	if err := c.get(ctx, "/api/products/brands", nil, &out); err != nil {
		return nil, err
	}
	return out.Brands, nil
}

func (c *CatalogClient) Departments(ctx context.Context) ([]models.DepartmentSummary, error) {
	var out struct {
		Departments []models.DepartmentSummary `json:"departments"`
	}
	if err := c.get(ctx, "/api/products/departments", nil, &out); err != nil {
		return nil, err
	}
	return out.Departments, nil
}

func (c *CatalogClient) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.get(ctx, "/api/products/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("request canceled: %w", err)
		}

		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("failed to reach catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error != "" {
			apiErr.Title = body.Error
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
