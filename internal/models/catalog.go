package models

import "github.com/shopspring/decimal"

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalCount int64 `json:"total_count"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination derives page metadata from the total match count.
func NewPagination(page, perPage int, total int64) Pagination {
	var totalPages int64
	if perPage > 0 {
		totalPages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    int64(page) < totalPages,
		HasPrev:    page > 1,
	}
}

type CategorySummary struct {
	Category string              `json:"category"`
	Count    int64               `json:"count"`
	AvgPrice decimal.NullDecimal `json:"avg_price"`
	MinPrice decimal.NullDecimal `json:"min_price"`
	MaxPrice decimal.NullDecimal `json:"max_price"`
}

type BrandSummary struct {
	Brand    string              `json:"brand"`
	Count    int64               `json:"count"`
	AvgPrice decimal.NullDecimal `json:"avg_price"`
	MinPrice decimal.NullDecimal `json:"min_price"`
	MaxPrice decimal.NullDecimal `json:"max_price"`
}

type DepartmentSummary struct {
	Department string              `json:"department"`
	Count      int64               `json:"count"`
	AvgPrice   decimal.NullDecimal `json:"avg_price"`
}

type Statistics struct {
	TotalProducts    int64               `json:"total_products"`
	TotalCategories  int64               `json:"total_categories"`
	TotalBrands      int64               `json:"total_brands"`
	TotalDepartments int64               `json:"total_departments"`
	AvgPrice         decimal.NullDecimal `json:"avg_price"`
	MinPrice         decimal.NullDecimal `json:"min_price"`
	MaxPrice         decimal.NullDecimal `json:"max_price"`
	PremiumProducts  int64               `json:"premium_products"`
}

type PriceBucket struct {
	PriceRange string `json:"price_range"`
	Count      int64  `json:"count"`
}
