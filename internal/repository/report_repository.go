package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/MosaabBleik/catalog-service/internal/database"
	"github.com/MosaabBleik/catalog-service/internal/models"
)

// ReportRepository backs the operator reports run after ingestion.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) TableCounts(ctx context.Context) ([]models.TableCount, error) {
	counts := make([]models.TableCount, 0, len(database.Tables))
	for _, table := range database.Tables {
		var n int64
		if err := r.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, models.TableCount{Table: table, Count: n})
	}
	return counts, nil
}

func (r *ReportRepository) Integrity(ctx context.Context) (*models.IntegrityReport, error) {
	db := r.db.WithContext(ctx)
	var rep models.IntegrityReport

	checks := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&rep.PricedProducts, db.Table("products").Where("retail_price > 0")},
		{&rep.ValidEmailUsers, db.Table("users").Where("email LIKE ?", "%@%")},
		{&rep.OrdersWithStatus, db.Table("orders").Where("status IS NOT NULL")},
		{&rep.LinkedProducts, db.Table("products AS p").
			Joins("JOIN distribution_centers AS dc ON dc.id = p.distribution_center_id")},
		{&rep.LinkedOrders, db.Table("orders AS o").
			Joins("JOIN users AS u ON u.id = o.user_id")},
	}
	for _, c := range checks {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return &rep, nil
}

func (r *ReportRepository) MostExpensiveProducts(ctx context.Context, limit int) ([]models.Product, error) {
	out := make([]models.Product, 0, limit)
	err := r.db.WithContext(ctx).
		Where("retail_price IS NOT NULL").
		Order("retail_price DESC, id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *ReportRepository) OrderStatuses(ctx context.Context) ([]models.StatusCount, error) {
	out := make([]models.StatusCount, 0)
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("status IS NOT NULL").
		Group("status").
		Order("count DESC, status ASC").
		Find(&out).Error
	return out, err
}

func (r *ReportRepository) TopCustomers(ctx context.Context, limit int) ([]models.CustomerOrders, error) {
	out := make([]models.CustomerOrders, 0, limit)
	err := r.db.WithContext(ctx).Table("users AS u").
		Select("u.id AS user_id, u.first_name, u.last_name, COUNT(o.order_id) AS order_count").
		Joins("LEFT JOIN orders AS o ON o.user_id = u.id").
		Group("u.id, u.first_name, u.last_name").
		Order("order_count DESC, u.id ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *ReportRepository) CenterProductCounts(ctx context.Context) ([]models.CenterProducts, error) {
	out := make([]models.CenterProducts, 0)
	err := r.db.WithContext(ctx).Table("distribution_centers AS dc").
		Select("dc.id, dc.name, COUNT(p.id) AS product_count").
		Joins("LEFT JOIN products AS p ON p.distribution_center_id = dc.id").
		Group("dc.id, dc.name").
		Order("product_count DESC, dc.id ASC").
		Find(&out).Error
	return out, err
}

func (r *ReportRepository) Sales(ctx context.Context) (*models.SalesSummary, error) {
	var out models.SalesSummary
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("COUNT(*) AS priced_items, ROUND(AVG(sale_price), 2) AS avg_sale_price").
		Where("sale_price IS NOT NULL").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReportRepository) RecentOrders(ctx context.Context, limit int) ([]models.RecentOrder, error) {
	out := make([]models.RecentOrder, 0, limit)
	err := r.db.WithContext(ctx).Table("orders AS o").
		Select("o.order_id, u.first_name, u.last_name, o.status, o.num_of_item, o.created_at").
		Joins("LEFT JOIN users AS u ON u.id = o.user_id").
		Where("o.created_at IS NOT NULL").
		Order("o.created_at DESC, o.order_id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
