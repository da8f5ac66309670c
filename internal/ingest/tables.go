package ingest

import (
	"github.com/MosaabBleik/catalog-service/internal/models"
)

// tableSchema knows how to turn CSV rows of one table into models.
type tableSchema[T any] struct {
	table    string
	keyCol   string
	required []string
	parse    func(r row) (T, error)
}

var distributionCenters = tableSchema[models.DistributionCenter]{
	table:    "distribution_centers",
	keyCol:   "id",
	required: []string{"id", "name"},
	parse: func(r row) (models.DistributionCenter, error) {
		var dc models.DistributionCenter
		var err error
		if dc.ID, err = r.id("id"); err != nil {
			return dc, err
		}
		if dc.Name, err = r.requiredString("name"); err != nil {
			return dc, err
		}
		if dc.Latitude, err = r.optionalFloat("latitude"); err != nil {
			return dc, err
		}
		dc.Longitude, err = r.optionalFloat("longitude")
		return dc, err
	},
}

var users = tableSchema[models.User]{
	table:    "users",
	keyCol:   "id",
	required: []string{"id"},
	parse: func(r row) (models.User, error) {
		u := models.User{
			FirstName:     r.str("first_name"),
			LastName:      r.str("last_name"),
			Email:         r.str("email"),
			Age:           r.optionalInt("age"),
			Gender:        r.str("gender"),
			State:         r.str("state"),
			StreetAddress: r.str("street_address"),
			PostalCode:    r.str("postal_code"),
			City:          r.str("city"),
			Country:       r.str("country"),
			TrafficSource: r.str("traffic_source"),
		}
		var err error
		if u.ID, err = r.id("id"); err != nil {
			return u, err
		}
		if u.Latitude, err = r.optionalFloat("latitude"); err != nil {
			return u, err
		}
		if u.Longitude, err = r.optionalFloat("longitude"); err != nil {
			return u, err
		}
		u.CreatedAt, err = r.optionalTime("created_at")
		return u, err
	},
}

var products = tableSchema[models.Product]{
	table:    "products",
	keyCol:   "id",
	required: []string{"id"},
	parse: func(r row) (models.Product, error) {
		p := models.Product{
			Category:             r.str("category"),
			Name:                 r.str("name"),
			Brand:                r.str("brand"),
			Department:           r.str("department"),
			SKU:                  r.str("sku"),
			DistributionCenterID: r.optionalID("distribution_center_id"),
		}
		var err error
		if p.ID, err = r.id("id"); err != nil {
			return p, err
		}
		if p.Cost, err = r.money("cost"); err != nil {
			return p, err
		}
		p.RetailPrice, err = r.money("retail_price")
		return p, err
	},
}

var orders = tableSchema[models.Order]{
	table:    "orders",
	keyCol:   "order_id",
	required: []string{"order_id"},
	parse: func(r row) (models.Order, error) {
		o := models.Order{
			UserID:    r.optionalID("user_id"),
			Status:    r.str("status"),
			Gender:    r.str("gender"),
			NumOfItem: r.optionalInt("num_of_item"),
		}
		var err error
		if o.OrderID, err = r.id("order_id"); err != nil {
			return o, err
		}
		if o.CreatedAt, err = r.optionalTime("created_at"); err != nil {
			return o, err
		}
		if o.ReturnedAt, err = r.optionalTime("returned_at"); err != nil {
			return o, err
		}
		if o.ShippedAt, err = r.optionalTime("shipped_at"); err != nil {
			return o, err
		}
		o.DeliveredAt, err = r.optionalTime("delivered_at")
		return o, err
	},
}

var inventoryItems = tableSchema[models.InventoryItem]{
	table:    "inventory_items",
	keyCol:   "id",
	required: []string{"id"},
	parse: func(r row) (models.InventoryItem, error) {
		item := models.InventoryItem{
			ProductID:                   r.optionalID("product_id"),
			ProductCategory:             r.str("product_category"),
			ProductName:                 r.str("product_name"),
			ProductBrand:                r.str("product_brand"),
			ProductDepartment:           r.str("product_department"),
			ProductSKU:                  r.str("product_sku"),
			ProductDistributionCenterID: r.optionalID("product_distribution_center_id"),
		}
		var err error
		if item.ID, err = r.id("id"); err != nil {
			return item, err
		}
		if item.CreatedAt, err = r.optionalTime("created_at"); err != nil {
			return item, err
		}
		if item.SoldAt, err = r.optionalTime("sold_at"); err != nil {
			return item, err
		}
		if item.Cost, err = r.money("cost"); err != nil {
			return item, err
		}
		item.ProductRetailPrice, err = r.money("product_retail_price")
		return item, err
	},
}

var orderItems = tableSchema[models.OrderItem]{
	table:    "order_items",
	keyCol:   "id",
	required: []string{"id"},
	parse: func(r row) (models.OrderItem, error) {
		oi := models.OrderItem{
			OrderID:         r.optionalID("order_id"),
			UserID:          r.optionalID("user_id"),
			ProductID:       r.optionalID("product_id"),
			InventoryItemID: r.optionalID("inventory_item_id"),
			Status:          r.str("status"),
		}
		var err error
		if oi.ID, err = r.id("id"); err != nil {
			return oi, err
		}
		if oi.CreatedAt, err = r.optionalTime("created_at"); err != nil {
			return oi, err
		}
		if oi.ShippedAt, err = r.optionalTime("shipped_at"); err != nil {
			return oi, err
		}
		if oi.DeliveredAt, err = r.optionalTime("delivered_at"); err != nil {
			return oi, err
		}
		if oi.ReturnedAt, err = r.optionalTime("returned_at"); err != nil {
			return oi, err
		}
		oi.SalePrice, err = r.money("sale_price")
		return oi, err
	},
}
