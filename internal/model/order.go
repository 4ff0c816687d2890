package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle: issued → paid (ledger debit) → completed (stock arrival).
const (
	OrderIssued    = "issued"
	OrderPaid      = "paid"
	OrderCompleted = "completed"
)

// Order is a restocking order for a single product.
type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode      string          `gorm:"not null;index"`
	Quantity     int             `gorm:"not null"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'issued';index"`
	IssuedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time
}
