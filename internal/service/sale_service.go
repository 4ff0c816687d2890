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
	"tillpoint/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService drives the sale lifecycle: open → pending → paid. Item attach
// and removal orchestrate the inventory tracker inside the same transaction
// so stock movement and line state can never diverge.
type SaleService interface {
	Create(ctx context.Context) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	AttachItem(ctx context.Context, saleID uuid.UUID, req dto.AttachItemRequest) (*dto.SaleResponse, error)
	EditItemQuantity(ctx context.Context, saleID uuid.UUID, req dto.EditItemQuantityRequest) (*dto.SaleResponse, error)
	SetSaleDiscount(ctx context.Context, saleID uuid.UUID, rate decimal.Decimal) error
	SetLineDiscount(ctx context.Context, saleID uuid.UUID, req dto.LineDiscountRequest) error
	Close(ctx context.Context, saleID uuid.UUID) error
	Pay(ctx context.Context, saleID uuid.UUID, cash decimal.Decimal) (*dto.ChangeResponse, error)
	Delete(ctx context.Context, saleID uuid.UUID) error
	ComputePoints(ctx context.Context, saleID uuid.UUID) (*dto.PointsResponse, error)
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	inventory   InventoryService
	dispatcher  *worker.Dispatcher
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	inventory InventoryService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		repo:        repo,
		productRepo: productRepo,
		inventory:   inventory,
		dispatcher:  dispatcher,
	}
}

func (s *saleService) Create(ctx context.Context) (*dto.SaleResponse, error) {
	sale := &model.Sale{
		Status:       model.SaleOpen,
		DiscountRate: decimal.Zero,
	}
	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "sale not found")
	}
	return saleToResponse(sale), nil
}

// lockSale loads the sale FOR UPDATE and enforces the required status.
func (s *saleService) lockSale(tx *gorm.DB, id uuid.UUID, status string) (*model.Sale, error) {
	sale, err := s.repo.FindByIDForUpdateTx(tx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "sale not found")
	}
	if sale.Status != status {
		return nil, apperr.New(apperr.InvalidState,
			fmt.Sprintf("sale is %s, operation requires %s", sale.Status, status))
	}
	return sale, nil
}

func (s *saleService) AttachItem(ctx context.Context, saleID uuid.UUID, req dto.AttachItemRequest) (*dto.SaleResponse, error) {
	if err := barcode.Validate(req.Barcode); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, apperr.New(apperr.BadRequest, "amount must be positive")
	}

	var resp *dto.SaleResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.lockSale(tx, saleID, model.SaleOpen)
		if err != nil {
			return err
		}

		product, err := s.productRepo.FindByBarcodeForUpdateTx(tx, req.Barcode)
		if err != nil {
			return apperr.New(apperr.NotFound, fmt.Sprintf("product %s not found", req.Barcode))
		}
		if _, err := s.inventory.DebitTx(tx, req.Barcode, req.Amount); err != nil {
			return err
		}

		if line := findLine(sale, req.Barcode); line != nil {
			line.Quantity += req.Amount
			if err := s.repo.UpdateLineTx(tx, line); err != nil {
				return err
			}
		} else {
			nl := model.SaleLine{
				SaleID:       sale.ID,
				Barcode:      req.Barcode,
				Quantity:     req.Amount,
				PricePerUnit: product.PricePerUnit,
				DiscountRate: decimal.Zero,
			}
			if err := s.repo.CreateLineTx(tx, &nl); err != nil {
				return err
			}
			sale.Lines = append(sale.Lines, nl)
		}

		resp = saleToResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *saleService) EditItemQuantity(ctx context.Context, saleID uuid.UUID, req dto.EditItemQuantityRequest) (*dto.SaleResponse, error) {
	if req.Delta == 0 {
		return nil, apperr.New(apperr.BadRequest, "delta must be non-zero")
	}

	var resp *dto.SaleResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.lockSale(tx, saleID, model.SaleOpen)
		if err != nil {
			return err
		}
		line := findLine(sale, req.Barcode)
		if line == nil {
			return apperr.New(apperr.NotFound, fmt.Sprintf("sale has no line for %s", req.Barcode))
		}

		if req.Delta > 0 {
			if _, err := s.inventory.DebitTx(tx, req.Barcode, req.Delta); err != nil {
				return err
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
			if err := s.inventory.CreditTx(tx, req.Barcode, remove); err != nil {
				return err
			}
			line.Quantity -= remove
			if line.Quantity == 0 {
				if err := s.repo.DeleteLineTx(tx, line.ID); err != nil {
					return err
				}
				dropLine(sale, req.Barcode)
			} else if err := s.repo.UpdateLineTx(tx, line); err != nil {
				return err
			}
		}

		resp = saleToResponse(sale)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *saleService) SetSaleDiscount(ctx context.Context, saleID uuid.UUID, rate decimal.Decimal) error {
	if err := validDiscountRate(rate); err != nil {
		return err
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.lockSale(tx, saleID, model.SaleOpen)
		if err != nil {
			return err
		}
		sale.DiscountRate = rate
		return s.repo.UpdateTx(tx, sale)
	})
}

func (s *saleService) SetLineDiscount(ctx context.Context, saleID uuid.UUID, req dto.LineDiscountRequest) error {
	if err := validDiscountRate(req.Rate); err != nil {
		return err
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.lockSale(tx, saleID, model.SaleOpen)
		if err != nil {
			return err
		}
		line := findLine(sale, req.Barcode)
		if line == nil {
			return apperr.New(apperr.NotFound, fmt.Sprintf("sale has no line for %s", req.Barcode))
		}
		line.DiscountRate = req.Rate
		return s.repo.UpdateLineTx(tx, line)
	})
}

// Close moves an open sale to pending. An empty sale is deleted instead —
// closing it is a success with no further effect, and a later close of the
// same id fails NotFound.
func (s *saleService) Close(ctx context.Context, saleID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.lockSale(tx, saleID, model.SaleOpen)
		if err != nil {
			return err
		}
		if len(sale.Lines) == 0 {
			return s.repo.DeleteTx(tx, sale.ID)
		}
		now := time.Now()
		sale.Status = model.SalePending
		sale.ClosedAt = &now
		return s.repo.UpdateTx(tx, sale)
	})
}

func (s *saleService) Pay(ctx context.Context, saleID uuid.UUID, cash decimal.Decimal) (*dto.ChangeResponse, error) {
	if cash.IsNegative() {
		return nil, apperr.New(apperr.BadRequest, "cash amount cannot be negative")
	}

	var resp *dto.ChangeResponse
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.lockSale(tx, saleID, model.SalePending)
		if err != nil {
			return err
		}
		total := saleTotal(sale)
		if cash.LessThan(total) {
			return apperr.New(apperr.InsufficientCash,
				fmt.Sprintf("cash %s is less than total %s", cash.StringFixed(2), total.StringFixed(2)))
		}
		sale.Status = model.SalePaid
		if err := s.repo.UpdateTx(tx, sale); err != nil {
			return err
		}
		resp = &dto.ChangeResponse{Change: cash.Sub(total).Round(2)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Receipt rendering is best-effort and asynchronous — a queue failure
	// must not fail an already-committed payment.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptPayload{
			SaleID: saleID.String(),
			Change: resp.Change.StringFixed(2),
		})
	}
	return resp, nil
}

// Delete removes an open sale and credits every held line back to stock,
// conserving total stock movement.
func (s *saleService) Delete(ctx context.Context, saleID uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		sale, err := s.lockSale(tx, saleID, model.SaleOpen)
		if err != nil {
			return err
		}
		for _, line := range sale.Lines {
			if err := s.inventory.CreditTx(tx, line.Barcode, line.Quantity); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, sale.ID)
	})
}

// ComputePoints returns floor(total / 10) fidelity points for a paid sale.
func (s *saleService) ComputePoints(ctx context.Context, saleID uuid.UUID) (*dto.PointsResponse, error) {
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "sale not found")
	}
	if sale.Status != model.SalePaid {
		return nil, apperr.New(apperr.InvalidState,
			fmt.Sprintf("sale is %s, points require %s", sale.Status, model.SalePaid))
	}
	points := saleTotal(sale).Div(decimal.NewFromInt(10)).IntPart()
	return &dto.PointsResponse{Points: points}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// saleTotal computes Σ quantity·price·(1-line_discount), then applies the
// sale-level discount on top (both multiplicative), rounded to cents.
func saleTotal(sale *model.Sale) decimal.Decimal {
	one := decimal.NewFromInt(1)
	total := decimal.Zero
	for _, l := range sale.Lines {
		lineTotal := l.PricePerUnit.
			Mul(decimal.NewFromInt(int64(l.Quantity))).
			Mul(one.Sub(l.DiscountRate))
		total = total.Add(lineTotal)
	}
	return total.Mul(one.Sub(sale.DiscountRate)).Round(2)
}

func validDiscountRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return apperr.New(apperr.BadRequest, "discount rate must be in [0,1)")
	}
	return nil
}

func findLine(sale *model.Sale, barcode string) *model.SaleLine {
	for i := range sale.Lines {
		if sale.Lines[i].Barcode == barcode {
			return &sale.Lines[i]
		}
	}
	return nil
}

func dropLine(sale *model.Sale, barcode string) {
	for i := range sale.Lines {
		if sale.Lines[i].Barcode == barcode {
			sale.Lines = append(sale.Lines[:i], sale.Lines[i+1:]...)
			return
		}
	}
}

func saleToResponse(sale *model.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		lines = append(lines, dto.SaleLineResponse{
			Barcode:      l.Barcode,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
			DiscountRate: l.DiscountRate,
		})
	}
	resp := &dto.SaleResponse{
		ID:           sale.ID.String(),
		Status:       sale.Status,
		DiscountRate: sale.DiscountRate,
		Lines:        lines,
		Total:        saleTotal(sale),
		CreatedAt:    sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.ClosedAt != nil {
		t := sale.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
