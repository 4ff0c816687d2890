package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale lifecycle. Transitions are strictly forward:
// open → pending (close) → paid (pay). A sale is deletable only while open.
const (
	SaleOpen    = "open"
	SalePending = "pending"
	SalePaid    = "paid"
)

// Sale is the sale aggregate: header plus exclusively-owned line items.
type Sale struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Status string    `gorm:"type:varchar(20);not null;default:'open';index"`
	// DiscountRate is the sale-level discount, in [0,1). Applied after
	// per-line discounts (both multiplicative).
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	CreatedAt    time.Time
	ClosedAt     *time.Time

	Lines []SaleLine `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleLine is one product entry within a sale. The unit price is frozen at
// attach time so later catalog price changes do not affect an open sale.
type SaleLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_sale_barcode,unique"`
	Barcode      string          `gorm:"not null;index:idx_sale_barcode,unique"`
	Quantity     int             `gorm:"not null"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
}
