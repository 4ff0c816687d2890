package service

import (
	"context"
	"fmt"
	"regexp"

	"tillpoint/internal/apperr"
	"tillpoint/internal/barcode"
	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// positionPattern: three dash-separated alphanumeric segments, e.g. "12-ab-07".
var positionPattern = regexp.MustCompile(`^[0-9A-Za-z]+-[0-9A-Za-z]+-[0-9A-Za-z]+$`)

// ProductService manages the product catalog. Barcodes are GTIN-validated and
// unique; shelf positions are unique while assigned.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetByBarcode(ctx context.Context, code string) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	UpdatePosition(ctx context.Context, id uuid.UUID, position string) (*dto.ProductResponse, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := barcode.Validate(req.Barcode); err != nil {
		return nil, err
	}
	if !req.PricePerUnit.IsPositive() {
		return nil, apperr.New(apperr.BadRequest, "price per unit must be positive")
	}
	if req.Quantity < 0 {
		return nil, apperr.New(apperr.BadRequest, "quantity cannot be negative")
	}
	if _, err := s.repo.FindByBarcode(ctx, req.Barcode); err == nil {
		return nil, apperr.New(apperr.Conflict, fmt.Sprintf("barcode %s is already registered", req.Barcode))
	}

	p := &model.Product{
		Barcode:      req.Barcode,
		Description:  req.Description,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	return productToResponse(p), nil
}

func (s *productService) GetByBarcode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	if err := barcode.Validate(code); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByBarcode(ctx, code)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, fmt.Sprintf("product %s not found", code))
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !req.PricePerUnit.IsPositive() {
		return nil, apperr.New(apperr.BadRequest, "price per unit must be positive")
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}
	p.Description = req.Description
	p.PricePerUnit = req.PricePerUnit
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// UpdatePosition assigns or clears the shelf position. An empty position
// clears the assignment; a set position must be unused by any other product.
func (s *productService) UpdatePosition(ctx context.Context, id uuid.UUID, position string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}

	if position == "" {
		p.Position = nil
	} else {
		if !positionPattern.MatchString(position) {
			return nil, apperr.New(apperr.BadRequest, "position must match segment-segment-segment")
		}
		if other, err := s.repo.FindByPosition(ctx, position); err == nil && other.ID != p.ID {
			return nil, apperr.New(apperr.Conflict, fmt.Sprintf("position %s is already in use", position))
		}
		p.Position = &position
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

// AdjustQuantity applies a signed manual stock correction; the result may
// never be negative.
func (s *productService) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "product not found")
	}

	var resp *dto.ProductResponse
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock the row so the quantity echoed back reflects this transaction,
		// not a reading from before a concurrent adjustment.
		locked, err := s.repo.FindByBarcodeForUpdateTx(tx, p.Barcode)
		if err != nil {
			return apperr.New(apperr.NotFound, "product not found")
		}
		before := locked.Quantity
		rows, err := s.repo.AdjustQuantityTx(tx, p.Barcode, delta)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperr.New(apperr.InsufficientStock,
				fmt.Sprintf("product %s holds %d, cannot apply delta %d", p.Barcode, before, delta))
		}
		adjusted := *locked
		adjusted.Quantity = before + delta
		resp = productToResponse(&adjusted)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return apperr.New(apperr.NotFound, "product not found")
	}
	return s.repo.Delete(ctx, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Barcode:      p.Barcode,
		Description:  p.Description,
		Quantity:     p.Quantity,
		PricePerUnit: p.PricePerUnit,
		Position:     p.Position,
	}
}
