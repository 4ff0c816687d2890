package service

import (
	"context"
	"fmt"

	"tillpoint/internal/apperr"
	"tillpoint/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService owns the single cash balance. The balance row is lazily
// created at 0.00 and never goes negative.
type LedgerService interface {
	Get(ctx context.Context) (decimal.Decimal, error)
	// Set is the administrative override; business transactions use
	// Debit/Credit only.
	Set(ctx context.Context, amount decimal.Decimal) error
	Debit(ctx context.Context, amount decimal.Decimal) error
	Credit(ctx context.Context, amount decimal.Decimal) error

	// Tx variants join the caller's transaction (order payment, reimburse).
	DebitTx(tx *gorm.DB, amount decimal.Decimal) error
	CreditTx(tx *gorm.DB, amount decimal.Decimal) error
}

type ledgerService struct {
	repo repository.LedgerRepository
}

func NewLedgerService(repo repository.LedgerRepository) LedgerService {
	return &ledgerService{repo: repo}
}

func (s *ledgerService) Get(ctx context.Context) (decimal.Decimal, error) {
	rec, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return rec.Balance, nil
}

func (s *ledgerService) Set(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperr.New(apperr.BadRequest, "balance cannot be set to a negative amount")
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.GetOrCreateForUpdateTx(tx); err != nil {
			return err
		}
		return s.repo.SetTx(tx, amount)
	})
}

func (s *ledgerService) Debit(ctx context.Context, amount decimal.Decimal) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.DebitTx(tx, amount)
	})
}

func (s *ledgerService) Credit(ctx context.Context, amount decimal.Decimal) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.CreditTx(tx, amount)
	})
}

func (s *ledgerService) DebitTx(tx *gorm.DB, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperr.New(apperr.BadRequest, "debit amount cannot be negative")
	}
	rec, err := s.repo.GetOrCreateForUpdateTx(tx)
	if err != nil {
		return err
	}
	if rec.Balance.LessThan(amount) {
		return apperr.New(apperr.InsufficientFunds,
			fmt.Sprintf("balance %s is less than %s", rec.Balance.StringFixed(2), amount.StringFixed(2)))
	}
	rows, err := s.repo.AdjustTx(tx, amount.Neg())
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperr.New(apperr.InsufficientFunds, "balance changed concurrently")
	}
	return nil
}

func (s *ledgerService) CreditTx(tx *gorm.DB, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperr.New(apperr.BadRequest, "credit amount cannot be negative")
	}
	if _, err := s.repo.GetOrCreateForUpdateTx(tx); err != nil {
		return err
	}
	_, err := s.repo.AdjustTx(tx, amount)
	return err
}
