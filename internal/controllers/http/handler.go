package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"comandas/internal/domain"
	"comandas/internal/infra/consul"
	"comandas/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Handler struct {
	orders   *services.OrderService
	payments *services.PaymentService
	rdb      *redis.Client
}

func NewHandler(orders *services.OrderService, payments *services.PaymentService, rdb *redis.Client) *Handler {
	return &Handler{orders: orders, payments: payments, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)

	orders := r.Group("/order")
	orders.POST("", h.CreateOrder)
	orders.GET("/:orderNumber", h.GetOrdersByNumber)

	payments := r.Group("/payment")
	payments.POST("", h.CreatePayment)
	payments.GET("", h.ListPayments)
	payments.GET("/:id", h.GetPaymentByID)
	payments.GET("/order/:orderNumber", h.GetPaymentsByOrder)
	payments.PUT("/:id/status", h.UpdatePaymentStatus)
}

// Health backs the registry's HTTP check.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	order, err := h.orders.CreateOrder(ctx, services.CreateOrderInput{
		ProductCode: req.ProductCode,
		TableNumber: req.TableNumber,
		Quantity:    req.Quantity,
		CodGruEst:   req.CodGruEst,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrStockGroupMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, consul.ErrResolution):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCatalogUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.invalidate("orders:number:" + strconv.Itoa(order.OrderNumber))

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrdersByNumber(c *gin.Context) {
	orderNumber, err := strconv.Atoi(c.Param("orderNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderNumber must be an integer"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := "orders:number:" + strconv.Itoa(orderNumber)

	if h.rdb != nil {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var orders []domain.Order
			if json.Unmarshal([]byte(b), &orders) == nil {
				c.JSON(http.StatusOK, orders)
				return
			}
		}
	}

	orders, err := h.orders.GetOrdersByNumber(ctx, orderNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	if h.rdb != nil {
		if data, err := json.Marshal(orders); err == nil {
			h.rdb.Set(ctx, cacheKey, data, 10*time.Second)
		}
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), req.OrderNumber, req.Amount, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMethod), errors.Is(err, services.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDuplicatePayment):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.invalidate("payments:all")

	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) GetPaymentByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	payment, err := h.payments.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (h *Handler) GetPaymentsByOrder(c *gin.Context) {
	orderNumber, err := strconv.Atoi(c.Param("orderNumber"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderNumber must be an integer"})
		return
	}

	payments, err := h.payments.GetByOrderNumber(c.Request.Context(), orderNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}

	c.JSON(http.StatusOK, payments)
}

func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.payments.UpdateStatus(c.Request.Context(), id, req.Status, req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.invalidate("payments:all")

	c.JSON(http.StatusOK, payment)
}

func (h *Handler) ListPayments(c *gin.Context) {
	ctx := c.Request.Context()
	cacheKey := "payments:all"

	if h.rdb != nil {
		if b, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var payments []domain.Payment
			if json.Unmarshal([]byte(b), &payments) == nil {
				c.JSON(http.StatusOK, payments)
				return
			}
		}
	}

	payments, err := h.payments.ListAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}

	if h.rdb != nil {
		if data, err := json.Marshal(payments); err == nil {
			h.rdb.Set(ctx, cacheKey, data, 10*time.Second)
		}
	}

	c.JSON(http.StatusOK, payments)
}

func (h *Handler) invalidate(key string) {
	if h.rdb != nil {
		h.rdb.Del(context.Background(), key)
	}
}
