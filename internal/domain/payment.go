package domain

import (
	"strings"
	"time"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentCancelled  PaymentStatus = "CANCELLED"
)

// PaymentMethods is the closed set of accepted methods; input is
// matched case-insensitively and stored in upper form.
var PaymentMethods = []string{"CREDIT_CARD", "DEBIT_CARD", "PIX", "CASH", "DIGITAL_WALLET"}

// transitions is forward-only: a payment never leaves a terminal state
// and never returns to PENDING. PENDING may jump straight to COMPLETED
// for instant-capture methods such as PIX.
var transitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled},
	PaymentProcessing: {PaymentCompleted, PaymentFailed, PaymentCancelled},
}

type Payment struct {
	ID            uint64        `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber   int           `json:"orderNumber" gorm:"not null;index"`
	Amount        float64       `json:"amount" gorm:"not null"`
	PaymentMethod string        `json:"paymentMethod" gorm:"not null"`
	Status        PaymentStatus `json:"status" gorm:"type:enum('PENDING','PROCESSING','COMPLETED','FAILED','CANCELLED');default:'PENDING'"`
	TransactionID *string       `json:"transactionId"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     *time.Time    `json:"updatedAt"`
}

// Active reports whether the payment blocks a new payment on the same
// order number.
func (s PaymentStatus) Active() bool {
	return s == PaymentPending || s == PaymentProcessing || s == PaymentCompleted
}

func ActiveStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentProcessing, PaymentCompleted}
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// NormalizeMethod upper-cases the input and reports whether it is one
// of the accepted payment methods.
func NormalizeMethod(method string) (string, bool) {
	m := strings.ToUpper(strings.TrimSpace(method))
	for _, known := range PaymentMethods {
		if m == known {
			return m, true
		}
	}
	return m, false
}
