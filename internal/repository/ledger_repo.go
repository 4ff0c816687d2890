package repository

import (
	"context"
	"errors"

	"tillpoint/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository manages the single balance row. The row is created
// lazily at 0.00 on first access.
type LedgerRepository interface {
	GetOrCreate(ctx context.Context) (*model.BalanceRecord, error)
	// GetOrCreateForUpdateTx locks the balance row so the whole business
	// operation (check funds, then debit) is serialized on it.
	GetOrCreateForUpdateTx(tx *gorm.DB) (*model.BalanceRecord, error)
	SetTx(tx *gorm.DB, amount decimal.Decimal) error
	// AdjustTx applies a signed delta guarded by balance+delta >= 0.
	// 0 affected rows means the guard failed.
	AdjustTx(tx *gorm.DB, delta decimal.Decimal) (int64, error)
	DB() *gorm.DB
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) DB() *gorm.DB { return r.db }

func (r *ledgerRepo) GetOrCreate(ctx context.Context) (*model.BalanceRecord, error) {
	return getOrCreateLedger(r.db.WithContext(ctx), false)
}

func (r *ledgerRepo) GetOrCreateForUpdateTx(tx *gorm.DB) (*model.BalanceRecord, error) {
	return getOrCreateLedger(tx, true)
}

func getOrCreateLedger(db *gorm.DB, lock bool) (*model.BalanceRecord, error) {
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rec model.BalanceRecord
	err := q.First(&rec, model.LedgerRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = model.BalanceRecord{ID: model.LedgerRowID, Balance: decimal.Zero}
		// ON CONFLICT DO NOTHING keeps concurrent first reads race-free.
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error; err != nil {
			return nil, err
		}
		err = q.First(&rec, model.LedgerRowID).Error
	}
	return &rec, err
}

func (r *ledgerRepo) SetTx(tx *gorm.DB, amount decimal.Decimal) error {
	return tx.Model(&model.BalanceRecord{}).
		Where("id = ?", model.LedgerRowID).
		Update("balance", amount).Error
}

func (r *ledgerRepo) AdjustTx(tx *gorm.DB, delta decimal.Decimal) (int64, error) {
	res := tx.Model(&model.BalanceRecord{}).
		Where("id = ? AND balance + ? >= 0", model.LedgerRowID, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	return res.RowsAffected, res.Error
}
