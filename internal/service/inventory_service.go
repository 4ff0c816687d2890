package service

import (
	"fmt"

	"tillpoint/internal/apperr"
	"tillpoint/internal/repository"

	"gorm.io/gorm"
)

// InventoryService owns the per-product stock counter. Both operations join a
// caller-owned transaction: stock movements never happen outside the business
// operation that causes them, so a later failure rolls the movement back.
type InventoryService interface {
	// DebitTx decrements stock and returns the new quantity.
	DebitTx(tx *gorm.DB, barcode string, amount int) (int, error)
	// CreditTx increments stock (restock arrival, sale-line removal,
	// sale deletion). There is no upper bound.
	CreditTx(tx *gorm.DB, barcode string, amount int) error
}

type inventoryService struct {
	repo repository.ProductRepository
}

func NewInventoryService(repo repository.ProductRepository) InventoryService {
	return &inventoryService{repo: repo}
}

func (s *inventoryService) DebitTx(tx *gorm.DB, barcode string, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperr.New(apperr.BadRequest, "debit amount must be positive")
	}
	p, err := s.repo.FindByBarcodeForUpdateTx(tx, barcode)
	if err != nil {
		return 0, apperr.New(apperr.NotFound, fmt.Sprintf("product %s not found", barcode))
	}
	if p.Quantity < amount {
		return 0, apperr.New(apperr.InsufficientStock,
			fmt.Sprintf("product %s has %d in stock, %d requested", barcode, p.Quantity, amount))
	}
	rows, err := s.repo.AdjustQuantityTx(tx, barcode, -amount)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		// Guard lost despite the row lock — report as an honest shortage.
		return 0, apperr.New(apperr.InsufficientStock,
			fmt.Sprintf("product %s stock changed concurrently", barcode))
	}
	return p.Quantity - amount, nil
}

func (s *inventoryService) CreditTx(tx *gorm.DB, barcode string, amount int) error {
	if amount <= 0 {
		return apperr.New(apperr.BadRequest, "credit amount must be positive")
	}
	rows, err := s.repo.AdjustQuantityTx(tx, barcode, amount)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.New(apperr.NotFound, fmt.Sprintf("product %s not found", barcode))
	}
	return nil
}
