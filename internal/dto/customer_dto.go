package dto

type CreateCustomerRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateCustomerRequest struct {
	Name string `json:"name" validate:"required"`
	// CardCode: nil leaves the card untouched, "" detaches it, any other
	// value attaches that card (must be unused).
	CardCode *string `json:"card_code"`
}

// ModifyPointsRequest applies a signed delta to the card's fidelity points.
type ModifyPointsRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type CustomerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	CardCode *string `json:"card_code"`
	Points   int     `json:"points"`
}
