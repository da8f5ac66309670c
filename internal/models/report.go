package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TableCount struct {
	Table string `json:"table"`
	Count int64  `json:"count"`
}

// IntegrityReport counts rows that satisfy basic sanity checks after a load.
type IntegrityReport struct {
	PricedProducts   int64 `json:"priced_products"`
	ValidEmailUsers  int64 `json:"valid_email_users"`
	OrdersWithStatus int64 `json:"orders_with_status"`
	LinkedProducts   int64 `json:"linked_products"`
	LinkedOrders     int64 `json:"linked_orders"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CustomerOrders struct {
	UserID     int64   `json:"user_id"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	OrderCount int64   `json:"order_count"`
}

type CenterProducts struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}

type RecentOrder struct {
	OrderID   int64      `json:"order_id"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Status    *string    `json:"status"`
	NumOfItem *int       `json:"num_of_item"`
	CreatedAt *time.Time `json:"created_at"`
}

// SalesSummary aggregates order item sale prices.
type SalesSummary struct {
	PricedItems  int64               `json:"priced_items"`
	AvgSalePrice decimal.NullDecimal `json:"avg_sale_price"`
}
