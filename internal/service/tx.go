package service

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with stub repositories).
// Every business operation runs in exactly one such transaction so a failure
// at any step rolls back all of its side effects.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func decimalFromInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
