package dto

import "github.com/shopspring/decimal"

type CreateReturnRequest struct {
	SaleID string `json:"sale_id" validate:"required,uuid"`
}

type ReturnLineResponse struct {
	Barcode      string          `json:"barcode"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

type ReturnResponse struct {
	ID        string               `json:"id"`
	SaleID    string               `json:"sale_id"`
	Status    string               `json:"status"`
	Lines     []ReturnLineResponse `json:"lines"`
	CreatedAt string               `json:"created_at"`
	ClosedAt  *string              `json:"closed_at,omitempty"`
}

type RefundResponse struct {
	RefundAmount decimal.Decimal `json:"refund_amount"`
}
