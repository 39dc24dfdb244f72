package mysql

import (
	"context"
	"errors"
	"log"

	"comandas/internal/domain"
	"comandas/internal/repository"

	"gorm.io/gorm"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateWithNextNumber(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FOR UPDATE serializes concurrent allocations; two inserts
		// computing the same max would otherwise collide on the unique
		// index.
		var next int
		err := tx.Raw("SELECT COALESCE(MAX(order_number), 0) + 1 FROM orders FOR UPDATE").Scan(&next).Error
		if err != nil {
			log.Printf("order number allocation error: %v", err)
			return err
		}
		order.OrderNumber = next

		if err := tx.Create(order).Error; err != nil {
			log.Printf("order save error: %v", err)
			return err
		}
		if order.ID == 0 {
			return errors.New("failed to assign order ID")
		}
		return nil
	})
}

func (r *orderRepo) FindByOrderNumber(ctx context.Context, orderNumber int) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).Find(&out).Error
	if err != nil {
		log.Printf("FindByOrderNumber error: %v", err)
		return nil, err
	}
	return out, nil
}
