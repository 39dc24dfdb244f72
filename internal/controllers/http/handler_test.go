package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"comandas/internal/domain"
	"comandas/internal/infra/catalog"
	"comandas/internal/mocks"
	"comandas/internal/repository"
	"comandas/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(orderRepo *mocks.MockOrderRepository, paymentRepo *mocks.MockPaymentRepository, prodClient *mocks.MockProductClient) *gin.Engine {
	gin.SetMode(gin.TestMode)

	publisher := new(mocks.MockPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	orderService := services.NewOrderService(orderRepo, prodClient, publisher)
	paymentService := services.NewPaymentService(paymentRepo, publisher)

	r := gin.New()
	NewHandler(orderService, paymentService, nil).RegisterRoutes(r)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Health(t *testing.T) {
	r := newTestRouter(new(mocks.MockOrderRepository), new(mocks.MockPaymentRepository), new(mocks.MockProductClient))

	w := doJSON(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}

func TestHandler_CreateOrder(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	prodClient := new(mocks.MockProductClient)

	prodClient.On("GetProductByCode", mock.Anything, 101).Return(&catalog.ProductInfo{
		CodigoProduto: 101,
		Descricao:     "Café especial em grãos 1kg",
		CodGruEst:     100,
	}, nil)
	orderRepo.On("CreateWithNextNumber", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			order.ID = 1
			order.OrderNumber = 1
		})

	r := newTestRouter(orderRepo, new(mocks.MockPaymentRepository), prodClient)

	w := doJSON(r, http.MethodPost, "/order", gin.H{
		"productCode": 101,
		"tableNumber": 12,
		"quantity":    2,
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var created domain.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1, created.OrderNumber)
	assert.Equal(t, 100, created.CodGruEst)
	assert.Equal(t, "Café especial em grãos 1kg", created.Description)

	time.Sleep(100 * time.Millisecond)
}

func TestHandler_CreateOrder_ProductNotFound(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	prodClient := new(mocks.MockProductClient)
	prodClient.On("GetProductByCode", mock.Anything, 999).Return(nil, catalog.ErrProductNotFound)

	r := newTestRouter(orderRepo, new(mocks.MockPaymentRepository), prodClient)

	w := doJSON(r, http.MethodPost, "/order", gin.H{
		"productCode": 999,
		"tableNumber": 1,
		"quantity":    1,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	orderRepo.AssertNotCalled(t, "CreateWithNextNumber", mock.Anything, mock.Anything)
}

func TestHandler_CreateOrder_MissingFields(t *testing.T) {
	r := newTestRouter(new(mocks.MockOrderRepository), new(mocks.MockPaymentRepository), new(mocks.MockProductClient))

	w := doJSON(r, http.MethodPost, "/order", gin.H{"tableNumber": 1})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetOrdersByNumber_Empty(t *testing.T) {
	orderRepo := new(mocks.MockOrderRepository)
	orderRepo.On("FindByOrderNumber", mock.Anything, 42).Return([]domain.Order{}, nil)

	r := newTestRouter(orderRepo, new(mocks.MockPaymentRepository), new(mocks.MockProductClient))

	w := doJSON(r, http.MethodGet, "/order/42", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_CreatePayment(t *testing.T) {
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("CreateIfNoActive", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Return(nil).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).ID = 1
		})

	r := newTestRouter(new(mocks.MockOrderRepository), paymentRepo, new(mocks.MockProductClient))

	w := doJSON(r, http.MethodPost, "/payment", gin.H{
		"orderNumber":   1,
		"amount":        50.0,
		"paymentMethod": "pix",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var created domain.Payment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "PIX", created.PaymentMethod)
	assert.Equal(t, domain.PaymentPending, created.Status)

	time.Sleep(100 * time.Millisecond)
}

func TestHandler_CreatePayment_Conflict(t *testing.T) {
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("CreateIfNoActive", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Return(repository.ErrActivePaymentExists)

	r := newTestRouter(new(mocks.MockOrderRepository), paymentRepo, new(mocks.MockProductClient))

	w := doJSON(r, http.MethodPost, "/payment", gin.H{
		"orderNumber":   1,
		"amount":        50.0,
		"paymentMethod": "CASH",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_CreatePayment_InvalidMethod(t *testing.T) {
	r := newTestRouter(new(mocks.MockOrderRepository), new(mocks.MockPaymentRepository), new(mocks.MockProductClient))

	w := doJSON(r, http.MethodPost, "/payment", gin.H{
		"orderNumber":   1,
		"amount":        50.0,
		"paymentMethod": "BITCOIN",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetPaymentByID_NotFound(t *testing.T) {
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("FindByID", mock.Anything, uint64(999)).Return(nil, nil)

	r := newTestRouter(new(mocks.MockOrderRepository), paymentRepo, new(mocks.MockProductClient))

	w := doJSON(r, http.MethodGet, "/payment/999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_UpdatePaymentStatus(t *testing.T) {
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("FindByID", mock.Anything, uint64(1)).Return(&domain.Payment{
		ID:            1,
		OrderNumber:   1,
		Amount:        50.0,
		PaymentMethod: "PIX",
		Status:        domain.PaymentPending,
		CreatedAt:     time.Now(),
	}, nil)
	paymentRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Payment")).Return(nil)

	r := newTestRouter(new(mocks.MockOrderRepository), paymentRepo, new(mocks.MockProductClient))

	w := doJSON(r, http.MethodPut, "/payment/1/status", gin.H{
		"status":        "COMPLETED",
		"transactionId": "tx123",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var updated domain.Payment
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, domain.PaymentCompleted, updated.Status)
	assert.Equal(t, "tx123", *updated.TransactionID)
	assert.NotNil(t, updated.UpdatedAt)

	time.Sleep(100 * time.Millisecond)
}

func TestHandler_UpdatePaymentStatus_IllegalTransition(t *testing.T) {
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("FindByID", mock.Anything, uint64(1)).Return(&domain.Payment{
		ID:     1,
		Status: domain.PaymentCompleted,
	}, nil)

	r := newTestRouter(new(mocks.MockOrderRepository), paymentRepo, new(mocks.MockProductClient))

	w := doJSON(r, http.MethodPut, "/payment/1/status", gin.H{"status": "PENDING"})

	assert.Equal(t, http.StatusConflict, w.Code)
	paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandler_ListPayments(t *testing.T) {
	paymentRepo := new(mocks.MockPaymentRepository)
	paymentRepo.On("FindAll", mock.Anything).Return([]domain.Payment{}, nil)

	r := newTestRouter(new(mocks.MockOrderRepository), paymentRepo, new(mocks.MockProductClient))

	w := doJSON(r, http.MethodGet, "/payment", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
