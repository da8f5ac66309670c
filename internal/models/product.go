package models

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID                   int64               `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Cost                 decimal.NullDecimal `json:"cost" gorm:"type:numeric"`
	Category             *string             `json:"category" gorm:"index"`
	Name                 *string             `json:"name"`
	Brand                *string             `json:"brand" gorm:"index"`
	RetailPrice          decimal.NullDecimal `json:"retail_price" gorm:"type:numeric;index"`
	Department           *string             `json:"department" gorm:"index"`
	SKU                  *string             `json:"sku" gorm:"column:sku"`
	DistributionCenterID *int64              `json:"distribution_center_id"`
}

func (Product) TableName() string { return "products" }

// ProductDetail is a product joined with the name of its distribution
// center. The name is nil when the product has no matching center.
type ProductDetail struct {
	Product
	DistributionCenterName *string `json:"distribution_center_name"`
}

type DistributionCenter struct {
	ID        int64    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (DistributionCenter) TableName() string { return "distribution_centers" }
