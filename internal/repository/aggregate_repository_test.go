package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceBandsAreContiguous(t *testing.T) {
	require.Len(t, PriceBands, 5)
	assert.Nil(t, PriceBands[0].Lower)
	assert.Nil(t, PriceBands[len(PriceBands)-1].Upper)

	for i := 1; i < len(PriceBands); i++ {
		prev, cur := PriceBands[i-1], PriceBands[i]
		require.NotNil(t, prev.Upper, prev.Label)
		require.NotNil(t, cur.Lower, cur.Label)
		assert.True(t, prev.Upper.Equal(*cur.Lower), "%s / %s", prev.Label, cur.Label)
	}
}

func TestPriceBandExpr(t *testing.T) {
	assert.Equal(t,
		"CASE WHEN retail_price < 25 THEN 0 WHEN retail_price < 50 THEN 1 "+
			"WHEN retail_price < 100 THEN 2 WHEN retail_price < 200 THEN 3 ELSE 4 END",
		priceBandExpr())
}

func TestAggregateRepository_RollupSQL(t *testing.T) {
	tests := []struct {
		name     string
		run      func(r *AggregateRepository) error
		contains []string
		limited  bool
	}{
		{
			name: "categories",
			run: func(r *AggregateRepository) error {
				_, err := r.Categories(context.Background())
				return err
			},
			contains: []string{
				"MIN(retail_price) AS min_price",
				`FROM "products"`,
				"WHERE category IS NOT NULL",
				"GROUP BY",
				"ORDER BY count DESC, category ASC",
			},
		},
		{
			name: "brands",
			run: func(r *AggregateRepository) error {
				_, err := r.Brands(context.Background())
				return err
			},
			contains: []string{
				"MAX(retail_price) AS max_price",
				"WHERE brand IS NOT NULL",
				"ORDER BY count DESC, brand ASC",
			},
			limited: true,
		},
		{
			name: "departments",
			run: func(r *AggregateRepository) error {
				_, err := r.Departments(context.Background())
				return err
			},
			contains: []string{
				"ROUND(AVG(retail_price), 2) AS avg_price",
				"WHERE department IS NOT NULL",
				"ORDER BY count DESC, department ASC",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, captured := newDryRunDB(t)
			require.NoError(t, tt.run(NewAggregateRepository(db)))
			require.Len(t, *captured, 1)

			sql := (*captured)[0].SQL
			for _, fragment := range tt.contains {
				assert.Contains(t, sql, fragment)
			}
			if tt.limited {
				assert.Contains(t, sql, "LIMIT")
			} else {
				assert.NotContains(t, sql, "LIMIT")
			}
		})
	}
}

func TestAggregateRepository_StatisticsSQL(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewAggregateRepository(db)

	stats, err := repo.Statistics(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Len(t, *captured, 1)

	q := (*captured)[0]
	assert.Contains(t, q.SQL, "COUNT(DISTINCT category) AS total_categories")
	assert.Contains(t, q.SQL, "COUNT(*) FILTER (WHERE retail_price > $1) AS premium_products")
	assert.Contains(t, q.SQL, "WHERE retail_price IS NOT NULL")
	assert.Equal(t, []any{PremiumPriceThreshold}, q.Vars)
}

func TestAggregateRepository_PriceDistributionReportsEveryBand(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewAggregateRepository(db)

	buckets, err := repo.PriceDistribution(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, len(PriceBands))

	for i, b := range buckets {
		assert.Equal(t, PriceBands[i].Label, b.PriceRange)
		assert.Zero(t, b.Count)
	}

	require.Len(t, *captured, 1)
	assert.Contains(t, (*captured)[0].SQL, priceBandExpr()+" AS band")
	assert.Contains(t, (*captured)[0].SQL, "GROUP BY")
}
