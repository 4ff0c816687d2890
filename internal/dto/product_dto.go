package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	Barcode     string `form:"barcode"`
	Description string `form:"description"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	Barcode      string          `json:"barcode"        validate:"required"`
	Description  string          `json:"description"    validate:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"required,gt=0"`
	Quantity     int             `json:"quantity"       validate:"min=0"`
}

type UpdateProductRequest struct {
	Description  string          `json:"description"    validate:"required"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"required,gt=0"`
}

// UpdatePositionRequest sets or clears the shelf position.
// An empty string clears the assignment.
type UpdatePositionRequest struct {
	Position string `json:"position"`
}

// AdjustQuantityRequest applies a signed stock delta.
type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type ProductResponse struct {
	ID           string          `json:"id"`
	Barcode      string          `json:"barcode"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Position     *string         `json:"position"`
}

// PriceLookupResponse is served by the unauthenticated price check endpoint.
type PriceLookupResponse struct {
	Barcode      string          `json:"barcode"`
	Description  string          `json:"description"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	InStock      bool            `json:"in_stock"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
