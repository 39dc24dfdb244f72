package domain

// Order is a restaurant tab line. OrderNumber is the business sequence
// handed to the kitchen; it is allocated inside the insert transaction,
// never by the caller.
type Order struct {
	ID          uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber int    `json:"orderNumber" gorm:"not null;uniqueIndex"`
	TableNumber int    `json:"tableNumber" gorm:"not null"`
	Quantity    int    `json:"quantity" gorm:"not null"`
	Description string `json:"description"`
	CodGruEst   int    `json:"codGruEst" gorm:"not null"`
	ProductCode int    `json:"productCode" gorm:"not null;index"`
}
