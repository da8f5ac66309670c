package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID            int64      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	Email         *string    `json:"email"`
	Age           *int       `json:"age"`
	Gender        *string    `json:"gender"`
	State         *string    `json:"state"`
	StreetAddress *string    `json:"street_address"`
	PostalCode    *string    `json:"postal_code"`
	City          *string    `json:"city"`
	Country       *string    `json:"country"`
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	TrafficSource *string    `json:"traffic_source"`
	CreatedAt     *time.Time `json:"created_at" gorm:"autoCreateTime:false"`
}

func (User) TableName() string { return "users" }

type Order struct {
	OrderID     int64      `json:"order_id" gorm:"primaryKey;autoIncrement:false"`
	UserID      *int64     `json:"user_id"`
	Status      *string    `json:"status"`
	Gender      *string    `json:"gender"`
	CreatedAt   *time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	ReturnedAt  *time.Time `json:"returned_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	NumOfItem   *int       `json:"num_of_item"`
}

func (Order) TableName() string { return "orders" }

// InventoryItem carries a denormalized copy of the product it was stocked
// from; ProductID is not enforced as a foreign key.
type InventoryItem struct {
	ID                          int64               `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID                   *int64              `json:"product_id"`
	CreatedAt                   *time.Time          `json:"created_at" gorm:"autoCreateTime:false"`
	SoldAt                      *time.Time          `json:"sold_at"`
	Cost                        decimal.NullDecimal `json:"cost" gorm:"type:numeric"`
	ProductCategory             *string             `json:"product_category"`
	ProductName                 *string             `json:"product_name"`
	ProductBrand                *string             `json:"product_brand"`
	ProductRetailPrice          decimal.NullDecimal `json:"product_retail_price" gorm:"type:numeric"`
	ProductDepartment           *string             `json:"product_department"`
	ProductSKU                  *string             `json:"product_sku" gorm:"column:product_sku"`
	ProductDistributionCenterID *int64              `json:"product_distribution_center_id"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

type OrderItem struct {
	ID              int64               `json:"id" gorm:"primaryKey;autoIncrement:false"`
	OrderID         *int64              `json:"order_id"`
	UserID          *int64              `json:"user_id"`
	ProductID       *int64              `json:"product_id"`
	InventoryItemID *int64              `json:"inventory_item_id"`
	Status          *string             `json:"status"`
	CreatedAt       *time.Time          `json:"created_at" gorm:"autoCreateTime:false"`
	ShippedAt       *time.Time          `json:"shipped_at"`
	DeliveredAt     *time.Time          `json:"delivered_at"`
	ReturnedAt      *time.Time          `json:"returned_at"`
	SalePrice       decimal.NullDecimal `json:"sale_price" gorm:"type:numeric"`
}

func (OrderItem) TableName() string { return "order_items" }
