package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"comandas/internal/domain"
	rabbit "comandas/internal/infra/rabbitmq"
	"comandas/internal/repository"
)

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrInvalidAmount     = errors.New("payment amount must be greater than zero")
	ErrInvalidStatus     = errors.New("invalid payment status")
	ErrInvalidTransition = errors.New("illegal payment status transition")

	// ErrDuplicatePayment surfaces the repository's uniqueness check
	// under a service-level name.
	ErrDuplicatePayment = repository.ErrActivePaymentExists
)

type PaymentService struct {
	repo      repository.PaymentRepository
	publisher rabbit.PublisherInterface
}

func NewPaymentService(r repository.PaymentRepository, pub rabbit.PublisherInterface) *PaymentService {
	return &PaymentService{
		repo:      r,
		publisher: pub,
	}
}

// CreatePayment persists a PENDING payment after validating the method
// and amount. An order may carry at most one payment in PENDING,
// PROCESSING or COMPLETED; the repository enforces that atomically.
func (s *PaymentService) CreatePayment(ctx context.Context, orderNumber int, amount float64, method string) (*domain.Payment, error) {
	normalized, ok := domain.NormalizeMethod(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s (use one of %s)", ErrInvalidMethod, method, strings.Join(domain.PaymentMethods, ", "))
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	payment := &domain.Payment{
		OrderNumber:   orderNumber,
		Amount:        amount,
		PaymentMethod: normalized,
		Status:        domain.PaymentPending,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.CreateIfNoActive(ctx, payment); err != nil {
		return nil, err
	}

	go s.publishPaymentCreated(context.Background(), payment)

	return payment, nil
}

// UpdateStatus moves a payment through the forward-only status graph
// and stamps updatedAt. TransactionID may be nil.
func (s *PaymentService) UpdateStatus(ctx context.Context, id uint64, status string, transactionID *string) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	next := domain.PaymentStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if !payment.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, payment.Status, next)
	}

	now := time.Now()
	payment.Status = next
	payment.TransactionID = transactionID
	payment.UpdatedAt = &now

	if err := s.repo.Update(ctx, payment); err != nil {
		return nil, err
	}

	go s.publishStatusChanged(context.Background(), payment)

	return payment, nil
}

func (s *PaymentService) GetByID(ctx context.Context, id uint64) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (s *PaymentService) GetByOrderNumber(ctx context.Context, orderNumber int) ([]domain.Payment, error) {
	return s.repo.FindByOrderNumber(ctx, orderNumber)
}

func (s *PaymentService) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return s.repo.FindAll(ctx)
}

func (s *PaymentService) publishPaymentCreated(ctx context.Context, payment *domain.Payment) {
	evt := domain.PaymentCreatedEvent{
		PaymentID:     payment.ID,
		OrderNumber:   payment.OrderNumber,
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		CreatedAt:     payment.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, "payment.created", evt); err != nil {
		log.Printf("Failed to publish payment.created event: %v", err)
	}
}

func (s *PaymentService) publishStatusChanged(ctx context.Context, payment *domain.Payment) {
	evt := domain.PaymentStatusChangedEvent{
		PaymentID:     payment.ID,
		OrderNumber:   payment.OrderNumber,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
	}

	if err := s.publisher.Publish(ctx, "payment.status_changed", evt); err != nil {
		log.Printf("Failed to publish payment.status_changed event: %v", err)
	}
}
