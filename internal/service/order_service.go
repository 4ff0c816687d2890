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
	"gorm.io/gorm"
)

// OrderService drives the restocking order lifecycle: issued → paid →
// completed. Payment debits the ledger; arrival credits inventory and
// requires the product to have an assigned shelf position.
type OrderService interface {
	Issue(ctx context.Context, req dto.IssueOrderRequest) (*dto.OrderResponse, error)
	Pay(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	// IssueAndPay is the "pay for" shortcut: issue + pay as one atomic
	// operation with the same validations and failure modes.
	IssueAndPay(ctx context.Context, req dto.IssueOrderRequest) (*dto.OrderResponse, error)
	RecordArrival(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context) (*dto.OrderListResponse, error)
}

type orderService struct {
	repo        repository.OrderRepository
	productRepo repository.ProductRepository
	inventory   InventoryService
	ledger      LedgerService
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	inventory InventoryService,
	ledger LedgerService,
) OrderService {
	return &orderService{
		repo:        repo,
		productRepo: productRepo,
		inventory:   inventory,
		ledger:      ledger,
	}
}

func (s *orderService) validateIssue(ctx context.Context, req dto.IssueOrderRequest) error {
	if err := barcode.Validate(req.Barcode); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		return apperr.New(apperr.BadRequest, "quantity must be positive")
	}
	if !req.PricePerUnit.IsPositive() {
		return apperr.New(apperr.BadRequest, "price per unit must be positive")
	}
	if _, err := s.productRepo.FindByBarcode(ctx, req.Barcode); err != nil {
		return apperr.New(apperr.NotFound, fmt.Sprintf("product %s not found", req.Barcode))
	}
	return nil
}

func (s *orderService) Issue(ctx context.Context, req dto.IssueOrderRequest) (*dto.OrderResponse, error) {
	if err := s.validateIssue(ctx, req); err != nil {
		return nil, err
	}
	order := &model.Order{
		Barcode:      req.Barcode,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		Status:       model.OrderIssued,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) Pay(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	var order *model.Order
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return apperr.New(apperr.NotFound, "order not found")
		}
		if order.Status != model.OrderIssued {
			return apperr.New(apperr.InvalidState,
				fmt.Sprintf("order is %s, payment requires %s", order.Status, model.OrderIssued))
		}
		cost := order.PricePerUnit.Mul(decimalFromInt(order.Quantity))
		if err := s.ledger.DebitTx(tx, cost); err != nil {
			return err
		}
		order.Status = model.OrderPaid
		return s.repo.UpdateStatusTx(tx, order.ID, model.OrderPaid)
	})
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) IssueAndPay(ctx context.Context, req dto.IssueOrderRequest) (*dto.OrderResponse, error) {
	if err := s.validateIssue(ctx, req); err != nil {
		return nil, err
	}
	var order *model.Order
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		cost := req.PricePerUnit.Mul(decimalFromInt(req.Quantity))
		if err := s.ledger.DebitTx(tx, cost); err != nil {
			return err
		}
		order = &model.Order{
			Barcode:      req.Barcode,
			Quantity:     req.Quantity,
			PricePerUnit: req.PricePerUnit,
			Status:       model.OrderPaid,
		}
		return s.repo.CreateTx(tx, order)
	})
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

// RecordArrival completes a paid order: the product must have a shelf
// position assigned, then its stock is credited with the ordered quantity.
func (s *orderService) RecordArrival(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	var order *model.Order
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		var err error
		order, err = s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			return apperr.New(apperr.NotFound, "order not found")
		}
		if order.Status != model.OrderPaid {
			return apperr.New(apperr.InvalidState,
				fmt.Sprintf("order is %s, arrival requires %s", order.Status, model.OrderPaid))
		}
		product, err := s.productRepo.FindByBarcodeForUpdateTx(tx, order.Barcode)
		if err != nil {
			return apperr.New(apperr.NotFound, fmt.Sprintf("product %s not found", order.Barcode))
		}
		if product.Position == nil || *product.Position == "" {
			return apperr.New(apperr.PreconditionFailed,
				fmt.Sprintf("product %s has no shelf position assigned", order.Barcode))
		}
		if err := s.inventory.CreditTx(tx, order.Barcode, order.Quantity); err != nil {
			return err
		}
		order.Status = model.OrderCompleted
		return s.repo.UpdateStatusTx(tx, order.ID, model.OrderCompleted)
	})
	if err != nil {
		return nil, err
	}
	return orderToResponse(order), nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "order not found")
	}
	return orderToResponse(order), nil
}

func (s *orderService) List(ctx context.Context) (*dto.OrderListResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		data = append(data, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: data}, nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:           o.ID.String(),
		Barcode:      o.Barcode,
		Quantity:     o.Quantity,
		PricePerUnit: o.PricePerUnit,
		Status:       o.Status,
		IssuedAt:     o.IssuedAt.Format(time.RFC3339),
	}
}
