package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"comandas/internal/domain"
	"comandas/internal/infra/catalog"
	rabbit "comandas/internal/infra/rabbitmq"
	"comandas/internal/repository"

	"github.com/go-redis/redis/v8"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("product catalog unavailable")
	ErrStockGroupMismatch = errors.New("stock group does not match the product")
)

type CreateOrderInput struct {
	ProductCode int
	TableNumber int
	Quantity    int
	// CodGruEst is optional; zero means "take it from the catalog".
	CodGruEst   int
	Description string
}

type OrderService struct {
	repo        repository.OrderRepository
	prodClient  catalog.ProductClientInterface
	publisher   rabbit.PublisherInterface
	redisClient *redis.Client
}

func NewOrderService(r repository.OrderRepository, p catalog.ProductClientInterface, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		repo:       r,
		prodClient: p,
		publisher:  pub,
	}
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// CreateOrder validates the request against the catalog, allocates the
// next order number and persists the order. The catalog is the source
// of truth for codGruEst: a caller-supplied value is checked, a missing
// one is filled in.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	prod, err := s.getProductWithCache(ctx, in.ProductCode)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	if in.CodGruEst != 0 && in.CodGruEst != prod.CodGruEst {
		return nil, ErrStockGroupMismatch
	}

	description := in.Description
	if description == "" {
		description = prod.Descricao
	}

	order := &domain.Order{
		TableNumber: in.TableNumber,
		Quantity:    in.Quantity,
		Description: description,
		CodGruEst:   prod.CodGruEst,
		ProductCode: in.ProductCode,
	}

	if err := s.repo.CreateWithNextNumber(ctx, order); err != nil {
		return nil, err
	}

	go s.publishOrderCreated(context.Background(), order)

	return order, nil
}

func (s *OrderService) GetOrdersByNumber(ctx context.Context, orderNumber int) ([]domain.Order, error) {
	// An unknown number is an empty list, not an error.
	return s.repo.FindByOrderNumber(ctx, orderNumber)
}

func (s *OrderService) getProductWithCache(ctx context.Context, productCode int) (*catalog.ProductInfo, error) {
	cacheKey := fmt.Sprintf("product:%d", productCode)

	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var prod catalog.ProductInfo
			if err := json.Unmarshal([]byte(cached), &prod); err == nil {
				return &prod, nil
			}
		}
	}

	prod, err := s.prodClient.GetProductByCode(ctx, productCode)
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(prod); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, time.Minute)
		}
	}

	return prod, nil
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableNumber: order.TableNumber,
		ProductCode: order.ProductCode,
		Quantity:    order.Quantity,
	}

	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("Failed to publish order.created event: %v", err)
	}
}

// WarmupProductCache primes the redis product cache for codes that are
// ordered constantly, so the first requests after a deploy skip the
// gateway round trip.
func (s *OrderService) WarmupProductCache(ctx context.Context, productCodes []int) error {
	if s.redisClient == nil {
		return nil
	}

	for _, code := range productCodes {
		prod, err := s.prodClient.GetProductByCode(ctx, code)
		if err != nil {
			log.Printf("Failed to warm up cache for product %d: %v", code, err)
			continue
		}

		cacheKey := fmt.Sprintf("product:%d", code)
		if data, err := json.Marshal(prod); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return nil
}
