package handler

import (
	"net/http"

	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

func (h *SalesHandler) Create(c *gin.Context) {
	resp, err := h.svc.Create(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SalesHandler) Get(c *gin.Context) {
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

// AttachItem adds units of a product to an open sale, debiting stock in the
// same transaction.
func (h *SalesHandler) AttachItem(c *gin.Context) {
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

func (h *SalesHandler) EditItemQuantity(c *gin.Context) {
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

func (h *SalesHandler) SetDiscount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.SaleDiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetSaleDiscount(c.Request.Context(), id, req.Rate); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *SalesHandler) SetLineDiscount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.LineDiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetLineDiscount(c.Request.Context(), id, req); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// Close freezes the sale's content and moves it to pending payment. An empty
// sale is discarded instead.
func (h *SalesHandler) Close(c *gin.Context) {
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

// Pay settles a pending sale with cash and returns the change due.
func (h *SalesHandler) Pay(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.PaySaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Pay(c.Request.Context(), id, req.Cash)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SalesHandler) Delete(c *gin.Context) {
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

func (h *SalesHandler) ComputePoints(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ComputePoints(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
