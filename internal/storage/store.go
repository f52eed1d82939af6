package storage

import (
	"context"
	"errors"

	"github.com/alidoner/orderbot/internal/models"
)

// ErrOrderNotFound is returned when no order has the requested id
var ErrOrderNotFound = errors.New("order not found")

// DefaultListLimit caps ListOrders when no limit is given
const DefaultListLimit = 50

// OrderStore is the ledger of orders handed to the operator.
// SaveOrder upserts by OrderID so a status change overwrites the earlier record.
type OrderStore interface {
	SaveOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, limit int) ([]*models.Order, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit*10 {
		return DefaultListLimit
	}
	return limit
}
