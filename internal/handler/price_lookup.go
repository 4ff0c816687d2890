package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tillpoint/internal/apierror"
	"tillpoint/internal/barcode"
	"tillpoint/internal/dto"
	"tillpoint/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// PriceLookupHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type PriceLookupHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewPriceLookupHandler(repo repository.ProductRepository, rdb *redis.Client, ttl time.Duration) *PriceLookupHandler {
	return &PriceLookupHandler{repo: repo, rdb: rdb, ttl: ttl}
}

// GetByBarcode answers price and availability for a single barcode,
// cached in Redis so till-side price checks stay fast.
func (h *PriceLookupHandler) GetByBarcode(c *gin.Context) {
	code := c.Param("barcode")
	if err := barcode.Validate(code); err != nil {
		respondErr(c, err)
		return
	}
	ctx := c.Request.Context()
	cacheKey := "price:" + code

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceLookupResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	product, err := h.repo.FindByBarcode(ctx, code)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	resp := dto.PriceLookupResponse{
		Barcode:      product.Barcode,
		Description:  product.Description,
		PricePerUnit: product.PricePerUnit,
		InStock:      product.Quantity > 0,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, h.ttl).Err()
	}

	c.JSON(http.StatusOK, resp)
}
