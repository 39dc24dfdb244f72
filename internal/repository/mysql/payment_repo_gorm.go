package mysql

import (
	"context"
	"errors"
	"log"

	"comandas/internal/domain"
	"comandas/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) repository.PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) CreateIfNoActive(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock matching rows so two concurrent creations for the same
		// order both see each other's insert.
		var count int64
		err := tx.Model(&domain.Payment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_number = ? AND status IN ?", payment.OrderNumber, domain.ActiveStatuses()).
			Count(&count).Error
		if err != nil {
			log.Printf("active payment lookup error: %v", err)
			return err
		}
		if count > 0 {
			return repository.ErrActivePaymentExists
		}

		if err := tx.Create(payment).Error; err != nil {
			log.Printf("payment save error: %v", err)
			return err
		}
		return nil
	})
}

func (r *paymentRepo) FindByID(ctx context.Context, id uint64) (*domain.Payment, error) {
	var p domain.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) FindByOrderNumber(ctx context.Context, orderNumber int) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).
		Where("order_number = ?", orderNumber).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("FindByOrderNumber error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *paymentRepo) FindAll(ctx context.Context) ([]domain.Payment, error) {
	var out []domain.Payment
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	if err != nil {
		log.Printf("FindAll error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		log.Printf("payment update error: %v", err)
		return err
	}
	return nil
}
