package handler

import (
	"net/http"

	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Issue registers a restocking order without paying for it.
func (h *OrdersHandler) Issue(c *gin.Context) {
	var req dto.IssueOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Issue(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// IssueAndPay registers and pays an order in one atomic step.
func (h *OrdersHandler) IssueAndPay(c *gin.Context) {
	var req dto.IssueOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.IssueAndPay(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Pay debits the ledger with the order's cost.
func (h *OrdersHandler) Pay(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Pay(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordArrival credits the ordered quantity into stock. The product must
// have an assigned shelf position.
func (h *OrdersHandler) RecordArrival(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RecordArrival(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Get(c *gin.Context) {
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

func (h *OrdersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
