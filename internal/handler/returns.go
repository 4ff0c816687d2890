package handler

import (
	"net/http"

	"tillpoint/internal/apierror"
	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReturnsHandler struct{ svc service.ReturnService }

func NewReturnsHandler(svc service.ReturnService) *ReturnsHandler {
	return &ReturnsHandler{svc: svc}
}

// Create opens a return against a paid sale.
func (h *ReturnsHandler) Create(c *gin.Context) {
	var req dto.CreateReturnRequest
	if !bindAndValidate(c, &req) {
		return
	}
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale_id"))
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), saleID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReturnsHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AttachItem adds units to an open return, bounded by the quantity sold minus
// everything already returned for that sale.
func (h *ReturnsHandler) AttachItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.AttachItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AttachItem(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReturnsHandler) EditItemQuantity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.EditItemQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.EditItemQuantity(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReturnsHandler) Close(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Close(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// Reimburse credits the refund to the ledger and finalizes the return.
func (h *ReturnsHandler) Reimburse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Reimburse(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReturnsHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
