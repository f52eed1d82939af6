package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alidoner/orderbot/internal/models"
)

// DatabaseStore keeps the order ledger in PostgreSQL through gorm
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a gorm-backed ledger
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// SaveOrder upserts the order by its order_id
func (d *DatabaseStore) SaveOrder(ctx context.Context, order *models.Order) error {
	if order.OrderID == "" {
		return fmt.Errorf("order id is required")
	}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "lines", "subtotal", "delivery_fee", "total", "address",
			"phone", "payment_method", "payment_link", "status", "completed_at",
		}),
	}).Create(order).Error
	if err != nil {
		return fmt.Errorf("save order %s: %w", order.OrderID, err)
	}
	return nil
}

// GetOrder loads an order by its order_id
func (d *DatabaseStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := d.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return &order, nil
}

// ListOrders returns the newest orders first
func (d *DatabaseStore) ListOrders(ctx context.Context, limit int) ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(normalizeLimit(limit)).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
