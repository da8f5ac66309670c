//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MosaabBleik/catalog-service/internal/config"
	"github.com/MosaabBleik/catalog-service/internal/database"
	"github.com/MosaabBleik/catalog-service/internal/models"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		defer func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "failed to terminate container: %v\n", err)
			}
		}()

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "connection string: %v\n", err)
			return 1
		}
		if err := database.MigrateUp(connStr); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			return 1
		}

		testDB, err = database.Connect(config.DatabaseConfig{
			URL:             connStr,
			MaxOpenConns:    5,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Minute,
		}, zap.NewNop())
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect: %v\n", err)
			return 1
		}
		if err := seed(testDB); err != nil {
			fmt.Fprintf(os.Stderr, "seed: %v\n", err)
			return 1
		}
		return m.Run()
	}()
	os.Exit(code)
}

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func int64Ptr(v int64) *int64 { return &v }

// seed loads 10 Jeans (10..100), 60 Tops from 60 distinct brands
// (161..220, no distribution center) and one unpriced product.
func seed(db *gorm.DB) error {
	if err := db.Create(&models.DistributionCenter{ID: 1, Name: "Memphis TN"}).Error; err != nil {
		return err
	}

	var products []models.Product
	for i := int64(1); i <= 10; i++ {
		products = append(products, models.Product{
			ID:                   i,
			Category:             strPtr("Jeans"),
			Name:                 strPtr(fmt.Sprintf("Slim Fit Jeans %d", i)),
			Brand:                strPtr("Levi's"),
			RetailPrice:          price(10 * i),
			Department:           strPtr("Men"),
			DistributionCenterID: int64Ptr(1),
		})
	}
	for i := int64(11); i <= 70; i++ {
		products = append(products, models.Product{
			ID:          i,
			Category:    strPtr("Tops"),
			Name:        strPtr(fmt.Sprintf("Cotton Tee %d", i)),
			Brand:       strPtr(fmt.Sprintf("Brand %02d", i)),
			RetailPrice: price(150 + i),
			Department:  strPtr("Women"),
		})
	}
	products = append(products, models.Product{ID: 71, Category: strPtr("Socks"), Name: strPtr("Plain Socks")})

	return db.CreateInBatches(&products, 50).Error
}

func TestIntegration_JeansExample(t *testing.T) {
	repo := NewProductRepository(testDB)

	page, err := repo.ListProducts(context.Background(), ProductFilter{Category: strPtr("Jeans")}, NewPage(1, 3))
	require.NoError(t, err)

	assert.Len(t, page.Products, 3)
	assert.Equal(t, int64(10), page.TotalCount)

	p := models.NewPagination(1, 3, page.TotalCount)
	assert.Equal(t, int64(4), p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)

	for i, prod := range page.Products {
		assert.Equal(t, int64(i+1), prod.ID)
		require.NotNil(t, prod.DistributionCenterName)
		assert.Equal(t, "Memphis TN", *prod.DistributionCenterName)
	}
}

func TestIntegration_PageSizesAcrossAllPages(t *testing.T) {
	repo := NewProductRepository(testDB)
	const total = 71

	for _, perPage := range []int{1, 7, 20, 100} {
		pages := (total + perPage - 1) / perPage
		for number := 1; number <= pages+1; number++ {
			page, err := repo.ListProducts(context.Background(), ProductFilter{}, NewPage(number, perPage))
			require.NoError(t, err)

			want := min(perPage, max(0, total-(number-1)*perPage))
			assert.Len(t, page.Products, want, "per_page=%d page=%d", perPage, number)
			assert.Equal(t, int64(total), page.TotalCount)
		}
	}
}

func TestIntegration_FiltersAreConjunctive(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	page, err := repo.ListProducts(ctx, ProductFilter{Category: strPtr("Jeans"), MinPrice: decPtr("50")}, NewPage(1, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.TotalCount)
	for _, p := range page.Products {
		assert.Equal(t, "Jeans", *p.Category)
		assert.True(t, p.RetailPrice.Decimal.GreaterThanOrEqual(decimal.NewFromInt(50)))
	}

	page, err = repo.ListProducts(ctx, ProductFilter{MinPrice: decPtr("90"), MaxPrice: decPtr("10")}, NewPage(1, 20))
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
	assert.Empty(t, page.Products)

	page, err = repo.ListProducts(ctx, ProductFilter{Search: strPtr("cotton")}, NewPage(1, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(60), page.TotalCount)

	page, err = repo.ListProducts(ctx, ProductFilter{Search: strPtr("%")}, NewPage(1, 100))
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestIntegration_GetProduct(t *testing.T) {
	repo := NewProductRepository(testDB)

	p, err := repo.GetProduct(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Cotton Tee 11", *p.Name)
	assert.Nil(t, p.DistributionCenterID)
	assert.Nil(t, p.DistributionCenterName)

	_, err = repo.GetProduct(context.Background(), 999999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_Rollups(t *testing.T) {
	repo := NewAggregateRepository(testDB)
	ctx := context.Background()

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	var sum int64
	for _, c := range categories {
		sum += c.Count
	}
	assert.Equal(t, int64(71), sum)
	assert.Equal(t, "Tops", categories[0].Category)

	departments, err := repo.Departments(ctx)
	require.NoError(t, err)
	sum = 0
	for _, d := range departments {
		sum += d.Count
	}
	assert.Equal(t, int64(70), sum)

	brands, err := repo.Brands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, MaxBrandGroups)
	assert.Equal(t, "Levi's", brands[0].Brand)
	assert.Equal(t, int64(10), brands[0].Count)
}

func TestIntegration_StatisticsAndHistogram(t *testing.T) {
	repo := NewAggregateRepository(testDB)
	ctx := context.Background()

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(70), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.TotalCategories)
	assert.Equal(t, int64(61), stats.TotalBrands)
	assert.Equal(t, int64(2), stats.TotalDepartments)
	assert.Equal(t, int64(60), stats.PremiumProducts)
	assert.True(t, stats.MinPrice.Decimal.Equal(decimal.NewFromInt(10)))
	assert.True(t, stats.MaxPrice.Decimal.Equal(decimal.NewFromInt(220)))

	buckets, err := repo.PriceDistribution(ctx)
	require.NoError(t, err)

	want := []int64{2, 2, 5, 40, 21}
	var sum int64
	for i, b := range buckets {
		assert.Equal(t, want[i], b.Count, b.PriceRange)
		sum += b.Count
	}
	assert.Equal(t, stats.TotalProducts, sum)
}

func TestIntegration_Reports(t *testing.T) {
	repo := NewReportRepository(testDB)
	ctx := context.Background()

	counts, err := repo.TableCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, len(database.Tables))
	assert.Equal(t, models.TableCount{Table: "products", Count: 71}, counts[2])

	integrity, err := repo.Integrity(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(70), integrity.PricedProducts)
	assert.Equal(t, int64(10), integrity.LinkedProducts)

	top, err := repo.MostExpensiveProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, int64(70), top[0].ID)

	centers, err := repo.CenterProductCounts(ctx)
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, int64(10), centers[0].ProductCount)

	require.NoError(t, database.VerifySchema(ctx, testDB))
}
