package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MosaabBleik/catalog-service/internal/models"
)

// MaxBrandGroups caps the brand rollup.
const MaxBrandGroups = 50

// PremiumPriceThreshold is the retail price above which a product counts as
// premium.
var PremiumPriceThreshold = decimal.NewFromInt(100)

// PriceBand is one bucket of the price histogram. A nil bound is open.
type PriceBand struct {
	Label string
	Lower *decimal.Decimal
	Upper *decimal.Decimal
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// PriceBands are ordered by ascending lower bound; each band is [Lower, Upper).
var PriceBands = []PriceBand{
	{Label: "Under $25", Upper: bound(25)},
	{Label: "$25-$50", Lower: bound(25), Upper: bound(50)},
	{Label: "$50-$100", Lower: bound(50), Upper: bound(100)},
	{Label: "$100-$200", Lower: bound(100), Upper: bound(200)},
	{Label: "Over $200", Lower: bound(200)},
}

// priceBandExpr classifies retail_price into the index of its PriceBands entry.
func priceBandExpr() string {
	var b strings.Builder
	b.WriteString("CASE")
	for i, band := range PriceBands {
		if band.Upper == nil {
			fmt.Fprintf(&b, " ELSE %d", i)
			break
		}
		fmt.Fprintf(&b, " WHEN retail_price < %s THEN %d", band.Upper.String(), i)
	}
	b.WriteString(" END")
	return b.String()
}

type bandCount struct {
	Band  int
	Count int64
}

type AggregateRepository struct {
	db *gorm.DB
}

func NewAggregateRepository(db *gorm.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

func (r *AggregateRepository) products(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Product{})
}

func (r *AggregateRepository) Categories(ctx context.Context) ([]models.CategorySummary, error) {
	out := make([]models.CategorySummary, 0)
	err := r.products(ctx).
		Select("category, COUNT(*) AS count, ROUND(AVG(retail_price), 2) AS avg_price, " +
			"MIN(retail_price) AS min_price, MAX(retail_price) AS max_price").
		Where("category IS NOT NULL").
		Group("category").
		Order("count DESC, category ASC").
		Find(&out).Error
	return out, err
}

func (r *AggregateRepository) Brands(ctx context.Context) ([]models.BrandSummary, error) {
	out := make([]models.BrandSummary, 0)
	err := r.products(ctx).
		Select("brand, COUNT(*) AS count, ROUND(AVG(retail_price), 2) AS avg_price, " +
			"MIN(retail_price) AS min_price, MAX(retail_price) AS max_price").
		Where("brand IS NOT NULL").
		Group("brand").
		Order("count DESC, brand ASC").
		Limit(MaxBrandGroups).
		Find(&out).Error
	return out, err
}

func (r *AggregateRepository) Departments(ctx context.Context) ([]models.DepartmentSummary, error) {
	out := make([]models.DepartmentSummary, 0)
	err := r.products(ctx).
		Select("department, COUNT(*) AS count, ROUND(AVG(retail_price), 2) AS avg_price").
		Where("department IS NOT NULL").
		Group("department").
		Order("count DESC, department ASC").
		Find(&out).Error
	return out, err
}

// Statistics summarises every product that has a retail price.
func (r *AggregateRepository) Statistics(ctx context.Context) (*models.Statistics, error) {
	var stats models.Statistics
	err := r.products(ctx).
		Select("COUNT(*) AS total_products, "+
			"COUNT(DISTINCT category) AS total_categories, "+
			"COUNT(DISTINCT brand) AS total_brands, "+
			"COUNT(DISTINCT department) AS total_departments, "+
			"ROUND(AVG(retail_price), 2) AS avg_price, "+
			"MIN(retail_price) AS min_price, "+
			"MAX(retail_price) AS max_price, "+
			"COUNT(*) FILTER (WHERE retail_price > ?) AS premium_products", PremiumPriceThreshold).
		Where("retail_price IS NOT NULL").
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// PriceDistribution counts priced products per PriceBands entry. Every band
// is reported, including empty ones.
func (r *AggregateRepository) PriceDistribution(ctx context.Context) ([]models.PriceBucket, error) {
	var rows []bandCount
	err := r.products(ctx).
		Select(priceBandExpr() + " AS band, COUNT(*) AS count").
		Where("retail_price IS NOT NULL").
		Group("band").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make([]models.PriceBucket, len(PriceBands))
	for i, band := range PriceBands {
		buckets[i] = models.PriceBucket{PriceRange: band.Label}
	}
	for _, row := range rows {
		if row.Band < 0 || row.Band >= len(buckets) {
			return nil, fmt.Errorf("unexpected price band %d", row.Band)
		}
		buckets[row.Band].Count = row.Count
	}
	return buckets, nil
}
