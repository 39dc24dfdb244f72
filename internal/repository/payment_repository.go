package repository

import (
	"context"
	"errors"

	"comandas/internal/domain"
)

// ErrActivePaymentExists is returned by CreateIfNoActive when the order
// already has a payment in PENDING, PROCESSING or COMPLETED.
var ErrActivePaymentExists = errors.New("active payment already exists for this order")

type PaymentRepository interface {
	// CreateIfNoActive checks for an active payment on the same order
	// number and inserts in one transaction.
	CreateIfNoActive(ctx context.Context, payment *domain.Payment) error
	// FindByID returns (nil, nil) when no payment matches.
	FindByID(ctx context.Context, id uint64) (*domain.Payment, error)
	FindByOrderNumber(ctx context.Context, orderNumber int) ([]domain.Payment, error)
	FindAll(ctx context.Context) ([]domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
}
