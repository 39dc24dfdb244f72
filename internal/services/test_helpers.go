package services

import (
	"time"

	"comandas/internal/domain"
	"comandas/internal/infra/catalog"
)

func CreateMockProduct(code int, description string, codGruEst int) *catalog.ProductInfo {
	return &catalog.ProductInfo{
		ID:            1,
		CodigoProduto: code,
		Descricao:     description,
		Preco:         74.9,
		CodGruEst:     codGruEst,
	}
}

func CreateMockPayment(id uint64, orderNumber int, amount float64, status domain.PaymentStatus) *domain.Payment {
	return &domain.Payment{
		ID:            id,
		OrderNumber:   orderNumber,
		Amount:        amount,
		PaymentMethod: "PIX",
		Status:        status,
		CreatedAt:     time.Now(),
	}
}

const (
	TestProductCode = 101
	TestStockGroup  = 100
	TestDescription = "Café especial em grãos 1kg"
)
