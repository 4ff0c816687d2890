package apierror

import (
	"errors"
	"net/http"
	"testing"

	"tillpoint/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	for kind, want := range map[apperr.Kind]int{
		apperr.BadRequest:               http.StatusBadRequest,
		apperr.NotFound:                 http.StatusNotFound,
		apperr.Conflict:                 http.StatusConflict,
		apperr.InvalidState:             http.StatusConflict,
		apperr.InsufficientStock:        http.StatusUnprocessableEntity,
		apperr.InsufficientQuantitySold: http.StatusUnprocessableEntity,
		apperr.InsufficientFunds:        http.StatusUnprocessableEntity,
		apperr.InsufficientCash:         http.StatusUnprocessableEntity,
		apperr.PreconditionFailed:       http.StatusPreconditionFailed,
	} {
		assert.Equal(t, want, Status(apperr.New(kind, "x")), kind.String())
	}
}

func TestUnknownErrorsAre500AndRedacted(t *testing.T) {
	status, body := From(errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body.Detail)
}

func TestBusinessErrorsKeepTheirMessage(t *testing.T) {
	status, body := From(apperr.New(apperr.InsufficientCash, "cash 5.00 is less than total 9.99"))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "cash 5.00 is less than total 9.99", body.Detail)
}
