package repository

import (
	"context"

	"tillpoint/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// FindByIDForUpdateTx locks the sale header FOR UPDATE; every lifecycle
	// operation goes through it so concurrent mutations of the same sale
	// (including returns reading sold quantities) serialize on this row.
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error)
	UpdateTx(tx *gorm.DB, s *model.Sale) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	CreateLineTx(tx *gorm.DB, l *model.SaleLine) error
	UpdateLineTx(tx *gorm.DB, l *model.SaleLine) error
	DeleteLineTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Lines").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	// Lock the header row first, then load lines; preloading does not hold
	// the lock on lines but the header lock is the serialization point.
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error; err != nil {
		return nil, err
	}
	err := tx.Where("sale_id = ?", id).Order("id").Find(&s.Lines).Error
	return &s, err
}

func (r *saleRepo) UpdateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit("Lines").Save(s).Error
}

func (r *saleRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Where("sale_id = ?", id).Delete(&model.SaleLine{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Sale{}, id).Error
}

func (r *saleRepo) CreateLineTx(tx *gorm.DB, l *model.SaleLine) error {
	return tx.Create(l).Error
}

func (r *saleRepo) UpdateLineTx(tx *gorm.DB, l *model.SaleLine) error {
	return tx.Save(l).Error
}

func (r *saleRepo) DeleteLineTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.SaleLine{}, id).Error
}
