package handler

import (
	"net/http"

	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct{ svc service.LedgerService }

func NewLedgerHandler(svc service.LedgerService) *LedgerHandler { return &LedgerHandler{svc: svc} }

func (h *LedgerHandler) GetBalance(c *gin.Context) {
	balance, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// SetBalance is the administrative override, not part of any business flow.
func (h *LedgerHandler) SetBalance(c *gin.Context) {
	var req dto.SetBalanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Set(c.Request.Context(), req.Amount); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
