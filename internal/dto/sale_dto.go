package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AttachItemRequest struct {
	Barcode string `json:"barcode" validate:"required"`
	Amount  int    `json:"amount"  validate:"required,min=1"`
}

// EditItemQuantityRequest adjusts an existing line by a signed delta.
// Positive deltas debit further stock; negative deltas credit it back.
type EditItemQuantityRequest struct {
	Barcode string `json:"barcode" validate:"required"`
	Delta   int    `json:"delta"   validate:"required"`
}

type SaleDiscountRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

type LineDiscountRequest struct {
	Barcode string          `json:"barcode" validate:"required"`
	Rate    decimal.Decimal `json:"rate"`
}

type PaySaleRequest struct {
	Cash decimal.Decimal `json:"cash" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleLineResponse struct {
	Barcode      string          `json:"barcode"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	Status       string             `json:"status"`
	DiscountRate decimal.Decimal    `json:"discount_rate"`
	Lines        []SaleLineResponse `json:"lines"`
	Total        decimal.Decimal    `json:"total"`
	CreatedAt    string             `json:"created_at"`
	ClosedAt     *string            `json:"closed_at,omitempty"`
}

type ChangeResponse struct {
	Change decimal.Decimal `json:"change"`
}

type PointsResponse struct {
	Points int64 `json:"points"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
