package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRowID is the fixed primary key of the single balance row.
const LedgerRowID = 1

// BalanceRecord holds the one cash-register balance. The row is created
// lazily at 0.00 on first access and every mutation keeps balance >= 0.
type BalanceRecord struct {
	ID        int             `gorm:"primaryKey"`
	Balance   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	UpdatedAt time.Time
}

// TableName pins the singular name — there is only ever one ledger.
func (BalanceRecord) TableName() string { return "ledger" }
