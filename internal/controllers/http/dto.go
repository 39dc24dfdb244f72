package http

type CreateOrderRequest struct {
	ProductCode int    `json:"productCode" binding:"required"`
	TableNumber int    `json:"tableNumber" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	CodGruEst   int    `json:"codGruEst"`
	Description string `json:"description"`
}

type CreatePaymentRequest struct {
	OrderNumber   int     `json:"orderNumber" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"paymentMethod" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	Status        string  `json:"status" binding:"required"`
	TransactionID *string `json:"transactionId"`
}
