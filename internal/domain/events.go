package domain

import "time"

type OrderCreatedEvent struct {
	OrderID     uint64 `json:"orderId"`
	OrderNumber int    `json:"orderNumber"`
	TableNumber int    `json:"tableNumber"`
	ProductCode int    `json:"productCode"`
	Quantity    int    `json:"quantity"`
}

type PaymentCreatedEvent struct {
	PaymentID     uint64    `json:"paymentId"`
	OrderNumber   int       `json:"orderNumber"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

type PaymentStatusChangedEvent struct {
	PaymentID     uint64        `json:"paymentId"`
	OrderNumber   int           `json:"orderNumber"`
	Status        PaymentStatus `json:"status"`
	TransactionID *string       `json:"transactionId,omitempty"`
}
