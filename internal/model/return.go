package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Return lifecycle: open → closed (close) → reimbursed (ledger credit).
// Deletable in any state except reimbursed.
const (
	ReturnOpen       = "open"
	ReturnClosed     = "closed"
	ReturnReimbursed = "reimbursed"
)

// ReturnTransaction groups items being returned against one paid sale.
// Invariant: for each barcode, the cumulative quantity across ALL returns of
// the sale never exceeds the quantity sold in that sale.
type ReturnTransaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"type:varchar(20);not null;default:'open';index"`
	CreatedAt time.Time
	ClosedAt  *time.Time

	Lines []ReturnLine `gorm:"foreignKey:ReturnID;constraint:OnDelete:CASCADE"`
}

// ReturnLine carries the returned quantity at the price the item was sold at.
type ReturnLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReturnID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_return_barcode,unique"`
	Barcode      string          `gorm:"not null;index:idx_return_barcode,unique"`
	Quantity     int             `gorm:"not null"`
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
