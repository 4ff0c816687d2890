package dto

import "github.com/shopspring/decimal"

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// SetBalanceRequest is the administrative balance override (not used by
// business transactions).
type SetBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
