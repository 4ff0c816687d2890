package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry plus its live stock counter.
// Quantity is a shared mutable resource: sales debit it, order arrivals and
// sale rollbacks credit it, and it must never be observably negative.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Barcode     string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"index;not null"`
	Quantity    int       `gorm:"not null;default:0"`
	// PricePerUnit is the selling price; must be strictly positive.
	PricePerUnit decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Position is the shelf location, format "segment-segment-segment".
	// NULL means unassigned; when set it must be unique across products.
	Position  *string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
