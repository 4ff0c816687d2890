package dto

import "github.com/shopspring/decimal"

type IssueOrderRequest struct {
	Barcode      string          `json:"barcode"        validate:"required"`
	Quantity     int             `json:"quantity"       validate:"required,gt=0"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" validate:"required,gt=0"`
}

type OrderResponse struct {
	ID           string          `json:"id"`
	Barcode      string          `json:"barcode"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Status       string          `json:"status"`
	IssuedAt     string          `json:"issued_at"`
}

type OrderListResponse struct {
	Data []OrderResponse `json:"data"`
}
