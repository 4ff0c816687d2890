package repository

import (
	"context"

	"tillpoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReturnRepository interface {
	Create(ctx context.Context, ret *model.ReturnTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ReturnTransaction, error)
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ReturnTransaction, error)
	UpdateTx(tx *gorm.DB, ret *model.ReturnTransaction) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	CreateLineTx(tx *gorm.DB, l *model.ReturnLine) error
	UpdateLineTx(tx *gorm.DB, l *model.ReturnLine) error
	DeleteLineTx(tx *gorm.DB, id uuid.UUID) error

	// SumReturnedBySaleTx aggregates already-returned quantities per barcode
	// across ALL returns of the sale. Must run inside the same transaction
	// that holds the sale's FOR UPDATE lock, otherwise the returned ≤ sold
	// bound can be overshot by concurrent attaches.
	SumReturnedBySaleTx(tx *gorm.DB, saleID uuid.UUID) (map[string]int, error)

	DB() *gorm.DB
}

type returnRepo struct{ db *gorm.DB }

func NewReturnRepository(db *gorm.DB) ReturnRepository { return &returnRepo{db: db} }

func (r *returnRepo) DB() *gorm.DB { return r.db }

func (r *returnRepo) Create(ctx context.Context, ret *model.ReturnTransaction) error {
	return r.db.WithContext(ctx).Create(ret).Error
}

func (r *returnRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ReturnTransaction, error) {
	var ret model.ReturnTransaction
	err := r.db.WithContext(ctx).Preload("Lines").First(&ret, id).Error
	return &ret, err
}

func (r *returnRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.ReturnTransaction, error) {
	var ret model.ReturnTransaction
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ret, id).Error; err != nil {
		return nil, err
	}
	err := tx.Where("return_id = ?", id).Order("id").Find(&ret.Lines).Error
	return &ret, err
}

func (r *returnRepo) UpdateTx(tx *gorm.DB, ret *model.ReturnTransaction) error {
	return tx.Omit("Lines").Save(ret).Error
}

func (r *returnRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("return_id = ?", id).Delete(&model.ReturnLine{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.ReturnTransaction{}, id).Error
}

func (r *returnRepo) CreateLineTx(tx *gorm.DB, l *model.ReturnLine) error {
	return tx.Create(l).Error
}

func (r *returnRepo) UpdateLineTx(tx *gorm.DB, l *model.ReturnLine) error {
	return tx.Save(l).Error
}

func (r *returnRepo) DeleteLineTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ReturnLine{}, id).Error
}

func (r *returnRepo) SumReturnedBySaleTx(tx *gorm.DB, saleID uuid.UUID) (map[string]int, error) {
	type row struct {
		Barcode string
		Total   int
	}
	var rows []row
	err := tx.Model(&model.ReturnLine{}).
		Select("return_lines.barcode AS barcode, SUM(return_lines.quantity) AS total").
		Joins("JOIN return_transactions ON return_transactions.id = return_lines.return_id").
		Where("return_transactions.sale_id = ?", saleID).
		Group("return_lines.barcode").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]int, len(rows))
	for _, r := range rows {
		sums[r.Barcode] = r.Total
	}
	return sums, nil
}
