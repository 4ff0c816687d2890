// Package barcode validates GTIN product codes (GTIN-12/13/14).
package barcode

import (
	"tillpoint/internal/apperr"
)

// Validate checks the GTIN format and check digit.
// Format rule: 12 to 14 characters, digits only. Check digit rule: weights
// alternate 3,1,3,1,… over the data digits taken right-to-left (starting
// from the digit before the check digit); the check digit must equal
// (10 - weighted_sum mod 10) mod 10.
func Validate(code string) error {
	if len(code) < 12 || len(code) > 14 {
		return apperr.New(apperr.BadRequest, "barcode must be 12 to 14 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return apperr.New(apperr.BadRequest, "barcode must contain only digits")
		}
	}

	check := int(code[len(code)-1] - '0')
	sum := 0
	weight := 3
	for i := len(code) - 2; i >= 0; i-- {
		sum += weight * int(code[i]-'0')
		if weight == 3 {
			weight = 1
		} else {
			weight = 3
		}
	}
	if (10-sum%10)%10 != check {
		return apperr.New(apperr.BadRequest, "barcode check digit mismatch")
	}
	return nil
}
