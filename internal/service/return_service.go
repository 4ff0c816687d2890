package service

import (
	"context"
	"fmt"
	"time"

	"tillpoint/internal/apperr"
	"tillpoint/internal/barcode"
	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReturnService drives the return lifecycle: open → closed → reimbursed.
// It reads the originating sale's sold quantities (under the sale's row lock)
// to keep the cumulative returned ≤ sold bound, and credits the ledger on
// reimbursement. Deleting a return performs no inventory rollback: returned
// goods re-enter stock through a separate arrival flow, not this engine.
type ReturnService interface {
	Create(ctx context.Context, saleID uuid.UUID) (*dto.ReturnResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ReturnResponse, error)
	AttachItem(ctx context.Context, retID uuid.UUID, req dto.AttachItemRequest) (*dto.ReturnResponse, error)
	EditItemQuantity(ctx context.Context, retID uuid.UUID, req dto.EditItemQuantityRequest) (*dto.ReturnResponse, error)
	Close(ctx context.Context, retID uuid.UUID) error
	Reimburse(ctx context.Context, retID uuid.UUID) (*dto.RefundResponse, error)
	Delete(ctx context.Context, retID uuid.UUID) error
}

type returnService struct {
	repo     repository.ReturnRepository
	saleRepo repository.SaleRepository
	ledger   LedgerService
}

func NewReturnService(
	repo repository.ReturnRepository,
	saleRepo repository.SaleRepository,
	ledger LedgerService,
) ReturnService {
	return &returnService{repo: repo, saleRepo: saleRepo, ledger: ledger}
}

func (s *returnService) Create(ctx context.Context, saleID uuid.UUID) (*dto.ReturnResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "sale not found")
	}
	if sale.Status != model.SalePaid {
		return nil, apperr.New(apperr.InvalidState,
			fmt.Sprintf("sale is %s, returns require %s", sale.Status, model.SalePaid))
	}
	ret := &model.ReturnTransaction{SaleID: saleID, Status: model.ReturnOpen}
	if err := s.repo.Create(ctx, ret); err != nil {
		return nil, err
	}
	return returnToResponse(ret), nil
}

func (s *returnService) Get(ctx context.Context, id uuid.UUID) (*dto.ReturnResponse, error) {
	ret, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "return not found")
	}
	return returnToResponse(ret), nil
}

func (s *returnService) lockReturn(tx *gorm.DB, id uuid.UUID, status string) (*model.ReturnTransaction, error) {
	ret, err := s.repo.FindByIDForUpdateTx(tx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "return not found")
	}
	if ret.Status != status {
		return nil, apperr.New(apperr.InvalidState,
			fmt.Sprintf("return is %s, operation requires %s", ret.Status, status))
	}
	return ret, nil
}

// availableToReturn computes how many more units of code the sale can still
// take back: quantity sold minus everything already returned across ALL of
// the sale's returns. Caller must hold the sale's FOR UPDATE lock.
func (s *returnService) availableToReturn(tx *gorm.DB, sale *model.Sale, code string) (int, decimal.Decimal, error) {
	var sold *model.SaleLine
	for i := range sale.Lines {
		if sale.Lines[i].Barcode == code {
			sold = &sale.Lines[i]
			break
		}
	}
	if sold == nil {
		return 0, decimal.Zero, apperr.New(apperr.BadRequest,
			fmt.Sprintf("product %s was not sold in this sale", code))
	}
	returned, err := s.repo.SumReturnedBySaleTx(tx, sale.ID)
	if err != nil {
		return 0, decimal.Zero, err
	}
	return sold.Quantity - returned[code], sold.PricePerUnit, nil
}

func (s *returnService) AttachItem(ctx context.Context, retID uuid.UUID, req dto.AttachItemRequest) (*dto.ReturnResponse, error) {
	if err := barcode.Validate(req.Barcode); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, apperr.New(apperr.BadRequest, "amount must be positive")
	}

	var resp *dto.ReturnResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ret, err := s.lockReturn(tx, retID, model.ReturnOpen)
		if err != nil {
			return err
		}
		// Serialize on the sale so concurrent returns cannot jointly overshoot
		// the sold quantity.
		sale, err := s.saleRepo.FindByIDForUpdateTx(tx, ret.SaleID)
		if err != nil {
			return apperr.New(apperr.NotFound, "sale not found")
		}
		available, price, err := s.availableToReturn(tx, sale, req.Barcode)
		if err != nil {
			return err
		}
		if req.Amount > available {
			return apperr.New(apperr.InsufficientQuantitySold,
				fmt.Sprintf("only %d unit(s) of %s can still be returned", available, req.Barcode))
		}

		if line := findReturnLine(ret, req.Barcode); line != nil {
			line.Quantity += req.Amount
			if err := s.repo.UpdateLineTx(tx, line); err != nil {
				return err
			}
		} else {
			nl := model.ReturnLine{
				ReturnID:     ret.ID,
				Barcode:      req.Barcode,
				Quantity:     req.Amount,
				PricePerUnit: price,
			}
			if err := s.repo.CreateLineTx(tx, &nl); err != nil {
				return err
			}
			ret.Lines = append(ret.Lines, nl)
		}

		resp = returnToResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *returnService) EditItemQuantity(ctx context.Context, retID uuid.UUID, req dto.EditItemQuantityRequest) (*dto.ReturnResponse, error) {
	if req.Delta == 0 {
		return nil, apperr.New(apperr.BadRequest, "delta must be non-zero")
	}

	var resp *dto.ReturnResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ret, err := s.lockReturn(tx, retID, model.ReturnOpen)
		if err != nil {
			return err
		}
		line := findReturnLine(ret, req.Barcode)
		if line == nil {
			return apperr.New(apperr.NotFound, fmt.Sprintf("return has no line for %s", req.Barcode))
		}

		if req.Delta > 0 {
			sale, err := s.saleRepo.FindByIDForUpdateTx(tx, ret.SaleID)
			if err != nil {
				return apperr.New(apperr.NotFound, "sale not found")
			}
			available, _, err := s.availableToReturn(tx, sale, req.Barcode)
			if err != nil {
				return err
			}
			if req.Delta > available {
				return apperr.New(apperr.InsufficientQuantitySold,
					fmt.Sprintf("only %d unit(s) of %s can still be returned", available, req.Barcode))
			}
			line.Quantity += req.Delta
			if err := s.repo.UpdateLineTx(tx, line); err != nil {
				return err
			}
		} else {
			remove := -req.Delta
			if line.Quantity < remove {
				return apperr.New(apperr.BadRequest,
					fmt.Sprintf("line holds %d, cannot remove %d", line.Quantity, remove))
			}
			line.Quantity -= remove
			if line.Quantity == 0 {
				if err := s.repo.DeleteLineTx(tx, line.ID); err != nil {
					return err
				}
				dropReturnLine(ret, req.Barcode)
			} else if err := s.repo.UpdateLineTx(tx, line); err != nil {
				return err
			}
		}

		resp = returnToResponse(ret)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Close moves an open return to closed; an empty return is deleted instead.
func (s *returnService) Close(ctx context.Context, retID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ret, err := s.lockReturn(tx, retID, model.ReturnOpen)
		if err != nil {
			return err
		}
		if len(ret.Lines) == 0 {
			return s.repo.DeleteTx(tx, ret.ID)
		}
		now := time.Now()
		ret.Status = model.ReturnClosed
		ret.ClosedAt = &now
		return s.repo.UpdateTx(tx, ret)
	})
}

// Reimburse credits the ledger with Σ quantity·price_per_unit and moves the
// return to its terminal state.
func (s *returnService) Reimburse(ctx context.Context, retID uuid.UUID) (*dto.RefundResponse, error) {
	var resp *dto.RefundResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ret, err := s.lockReturn(tx, retID, model.ReturnClosed)
		if err != nil {
			return err
		}
		refund := decimal.Zero
		for _, l := range ret.Lines {
			refund = refund.Add(l.PricePerUnit.Mul(decimalFromInt(l.Quantity)))
		}
		refund = refund.Round(2)
		if err := s.ledger.CreditTx(tx, refund); err != nil {
			return err
		}
		ret.Status = model.ReturnReimbursed
		if err := s.repo.UpdateTx(tx, ret); err != nil {
			return err
		}
		resp = &dto.RefundResponse{RefundAmount: refund}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *returnService) Delete(ctx context.Context, retID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ret, err := s.repo.FindByIDForUpdateTx(tx, retID)
		if err != nil {
			return apperr.New(apperr.NotFound, "return not found")
		}
		if ret.Status == model.ReturnReimbursed {
			return apperr.New(apperr.InvalidState, "a reimbursed return cannot be deleted")
		}
		return s.repo.DeleteTx(tx, ret.ID)
	})
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func findReturnLine(ret *model.ReturnTransaction, barcode string) *model.ReturnLine {
	for i := range ret.Lines {
		if ret.Lines[i].Barcode == barcode {
			return &ret.Lines[i]
		}
	}
	return nil
}

func dropReturnLine(ret *model.ReturnTransaction, barcode string) {
	for i := range ret.Lines {
		if ret.Lines[i].Barcode == barcode {
			ret.Lines = append(ret.Lines[:i], ret.Lines[i+1:]...)
			return
		}
	}
}

func returnToResponse(ret *model.ReturnTransaction) *dto.ReturnResponse {
	lines := make([]dto.ReturnLineResponse, 0, len(ret.Lines))
	for _, l := range ret.Lines {
		lines = append(lines, dto.ReturnLineResponse{
			Barcode:      l.Barcode,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
		})
	}
	resp := &dto.ReturnResponse{
		ID:        ret.ID.String(),
		SaleID:    ret.SaleID.String(),
		Status:    ret.Status,
		Lines:     lines,
		CreatedAt: ret.CreatedAt.Format(time.RFC3339),
	}
	if ret.ClosedAt != nil {
		t := ret.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
