package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MosaabBleik/catalog-service/internal/models"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

var ErrNotFound = errors.New("product not found")

// ProductFilter holds the optional listing filters. A nil field imposes no
// constraint.
type ProductFilter struct {
	Category   *string
	Brand      *string
	Department *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Search     *string
}

type Page struct {
	Number int
	Size   int
}

// NewPage applies the paging rules: page numbers below 1 become 1, and a page
// size outside [1, MaxPerPage] falls back to DefaultPerPage.
func NewPage(number, size int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size < 1 || size > MaxPerPage {
		size = DefaultPerPage
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows before the page. It saturates at math.MaxInt
// so that huge page numbers select nothing instead of wrapping around.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

type ProductPage struct {
	Products   []models.ProductDetail
	TotalCount int64
}

type predicate struct {
	sql  string
	args []any
}

func (f ProductFilter) predicates() []predicate {
	var preds []predicate
	if f.Category != nil {
		preds = append(preds, predicate{"p.category = ?", []any{*f.Category}})
	}
	if f.Brand != nil {
		preds = append(preds, predicate{"p.brand = ?", []any{*f.Brand}})
	}
	if f.Department != nil {
		preds = append(preds, predicate{"p.department = ?", []any{*f.Department}})
	}
	if f.MinPrice != nil {
		preds = append(preds, predicate{"p.retail_price >= ?", []any{*f.MinPrice}})
	}
	if f.MaxPrice != nil {
		preds = append(preds, predicate{"p.retail_price <= ?", []any{*f.MaxPrice}})
	}
	if f.Search != nil {
		term := "%" + escapeLike(*f.Search) + "%"
		preds = append(preds, predicate{
			"(p.name ILIKE ? OR p.brand ILIKE ? OR p.category ILIKE ?)",
			[]any{term, term, term},
		})
	}
	return preds
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) filtered(ctx context.Context, filter ProductFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Table("products AS p")
	for _, pred := range filter.predicates() {
		query = query.Where(pred.sql, pred.args...)
	}
	return query
}

func (r *ProductRepository) withCenterName(query *gorm.DB) *gorm.DB {
	return query.
		Select("p.*, dc.name AS distribution_center_name").
		Joins("LEFT JOIN distribution_centers AS dc ON dc.id = p.distribution_center_id")
}

// ListProducts returns one page of products matching filter, ordered by id,
// together with the number of matches across all pages.
func (r *ProductRepository) ListProducts(ctx context.Context, filter ProductFilter, page Page) (*ProductPage, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, err
	}

	products := make([]models.ProductDetail, 0, page.Size)
	err := r.withCenterName(r.filtered(ctx, filter)).
		Order("p.id ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return &ProductPage{Products: products, TotalCount: total}, nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, id int64) (*models.ProductDetail, error) {
	var product models.ProductDetail
	err := r.withCenterName(r.db.WithContext(ctx).Table("products AS p")).
		Where("p.id = ?", id).
		Take(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
