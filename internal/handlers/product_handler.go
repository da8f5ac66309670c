package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/MosaabBleik/catalog-service/internal/middleware"
	"github.com/MosaabBleik/catalog-service/internal/models"
	"github.com/MosaabBleik/catalog-service/internal/repository"
)

type ProductStore interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter, page repository.Page) (*repository.ProductPage, error)
	GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error)
}

type AggregateStore interface {
	Categories(ctx context.Context) ([]models.CategorySummary, error)
	Brands(ctx context.Context) ([]models.BrandSummary, error)
	Departments(ctx context.Context) ([]models.DepartmentSummary, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	PriceDistribution(ctx context.Context) ([]models.PriceBucket, error)
}

// PingFunc reports whether the store is reachable.
type PingFunc func(ctx context.Context) error

type ProductHandler struct {
	products   ProductStore
	aggregates AggregateStore
	ping       PingFunc
	logger     *zap.Logger
	now        func() time.Time
}

func NewProductHandler(products ProductStore, aggregates AggregateStore, ping PingFunc, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products:   products,
		aggregates: aggregates,
		ping:       ping,
		logger:     logger,
		now:        time.Now,
	}
}

// Register mounts the catalog routes. Fixed paths are registered before the
// id route.
func (h *ProductHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products/categories", h.Categories).Methods(http.MethodGet)
	r.HandleFunc("/api/products/brands", h.Brands).Methods(http.MethodGet)
	r.HandleFunc("/api/products/departments", h.Departments).Methods(http.MethodGet)
	r.HandleFunc("/api/products/stats", h.Stats).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)
}

func (h *ProductHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
}

type listProductsResponse struct {
	Products   []models.ProductDetail `json:"products"`
	Pagination models.Pagination      `json:"pagination"`
	Filters    appliedFilters         `json:"filters"`
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := getPaginationParams(r)
	filter := getFilterParams(r)

	result, err := h.products.ListProducts(r.Context(), filter, page)
	if err != nil {
		h.internalError(w, r, "Failed to list products", err)
		return
	}

	products := result.Products
	if products == nil {
		products = []models.ProductDetail{}
	}

	writeJSON(w, http.StatusOK, listProductsResponse{
		Products:   products,
		Pagination: models.NewPagination(page.Number, page.Size, result.TotalCount),
		Filters:    newAppliedFilters(filter),
	})
}

type productResponse struct {
	Product *models.ProductDetail `json:"product"`
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		BadRequest(w, r)
		return
	}

	notFound := func() {
		writeError(w, http.StatusNotFound, "Product not found",
			fmt.Sprintf("No product found with ID %d", id))
	}
	if id < 1 {
		notFound()
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		notFound()
		return
	}
	if err != nil {
		h.internalError(w, r, "Failed to get product", err)
		return
	}

	writeJSON(w, http.StatusOK, productResponse{Product: product})
}

type categoriesResponse struct {
	Categories      []models.CategorySummary `json:"categories"`
	TotalCategories int                      `json:"total_categories"`
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.aggregates.Categories(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to load categories", err)
		return
	}
	if categories == nil {
		categories = []models.CategorySummary{}
	}
	writeJSON(w, http.StatusOK, categoriesResponse{Categories: categories, TotalCategories: len(categories)})
}

type brandsResponse struct {
	Brands      []models.BrandSummary `json:"brands"`
	TotalBrands int                   `json:"total_brands"`
}

func (h *ProductHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.aggregates.Brands(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to load brands", err)
		return
	}
	if brands == nil {
		brands = []models.BrandSummary{}
	}
	writeJSON(w, http.StatusOK, brandsResponse{Brands: brands, TotalBrands: len(brands)})
}

type departmentsResponse struct {
	Departments      []models.DepartmentSummary `json:"departments"`
	TotalDepartments int                        `json:"total_departments"`
}

func (h *ProductHandler) Departments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.aggregates.Departments(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to load departments", err)
		return
	}
	if departments == nil {
		departments = []models.DepartmentSummary{}
	}
	writeJSON(w, http.StatusOK, departmentsResponse{Departments: departments, TotalDepartments: len(departments)})
}

type statsResponse struct {
	Statistics        *models.Statistics   `json:"statistics"`
	PriceDistribution []models.PriceBucket `json:"price_distribution"`
}

func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.aggregates.Statistics(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to load statistics", err)
		return
	}

	distribution, err := h.aggregates.PriceDistribution(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to load price distribution", err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{Statistics: stats, PriceDistribution: distribution})
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// HealthCheck always answers 200; store reachability is reported in the body.
func (h *ProductHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	if err := h.ping(r.Context()); err != nil {
		h.logger.Warn("Database ping failed", zap.Error(err))
		dbStatus = "not found"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC(),
		Database:  dbStatus,
	})
}
