package repository

import (
	"context"

	"comandas/internal/domain"
)

type OrderRepository interface {
	// CreateWithNextNumber allocates the next order number and inserts
	// the order in one transaction, so concurrent creations never share
	// a number.
	CreateWithNextNumber(ctx context.Context, order *domain.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber int) ([]domain.Order, error)
}
