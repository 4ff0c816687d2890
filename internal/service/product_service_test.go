package service_test

import (
	"context"
	"testing"

	"tillpoint/internal/apperr"
	"tillpoint/internal/dto"
	"tillpoint/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture() service.ProductService {
	return service.NewProductService(newStubProductRepo())
}

func createReq(barcode, price string, qty int) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Barcode:      barcode,
		Description:  "test product",
		PricePerUnit: decimal.RequireFromString(price),
		Quantity:     qty,
	}
}

func TestProductCreate(t *testing.T) {
	svc := newProductFixture()
	ctx := context.Background()

	p, err := svc.Create(ctx, createReq(barcodeCola, "10.00", 5))
	require.NoError(t, err)
	assert.Equal(t, barcodeCola, p.Barcode)
	assert.Nil(t, p.Position)

	// Duplicate barcode.
	_, err = svc.Create(ctx, createReq(barcodeCola, "12.00", 0))
	assert.True(t, apperr.Is(err, apperr.Conflict))

	// Invalid check digit, bad length, non-digits, non-positive price.
	_, err = svc.Create(ctx, createReq("123456789013", "10.00", 0))
	assert.True(t, apperr.Is(err, apperr.BadRequest))
	_, err = svc.Create(ctx, createReq("12345678901", "10.00", 0))
	assert.True(t, apperr.Is(err, apperr.BadRequest))
	_, err = svc.Create(ctx, createReq("12345678901a", "10.00", 0))
	assert.True(t, apperr.Is(err, apperr.BadRequest))
	_, err = svc.Create(ctx, createReq(barcodeWater, "0.00", 0))
	assert.True(t, apperr.Is(err, apperr.BadRequest))
}

func TestProductGetByBarcode(t *testing.T) {
	svc := newProductFixture()
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq(barcodeCola, "10.00", 5))
	require.NoError(t, err)

	p, err := svc.GetByBarcode(ctx, barcodeCola)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Quantity)

	_, err = svc.GetByBarcode(ctx, barcodeWater)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestProductUpdatePosition(t *testing.T) {
	svc := newProductFixture()
	ctx := context.Background()

	a, err := svc.Create(ctx, createReq(barcodeCola, "10.00", 5))
	require.NoError(t, err)
	b, err := svc.Create(ctx, createReq(barcodeWater, "2.50", 5))
	require.NoError(t, err)

	got, err := svc.UpdatePosition(ctx, uuid.MustParse(a.ID), "12-ab-07")
	require.NoError(t, err)
	require.NotNil(t, got.Position)
	assert.Equal(t, "12-ab-07", *got.Position)

	// Occupied position is rejected for a different product.
	_, err = svc.UpdatePosition(ctx, uuid.MustParse(b.ID), "12-ab-07")
	assert.True(t, apperr.Is(err, apperr.Conflict))

	// Re-setting a product's own position is a no-op, not a conflict.
	_, err = svc.UpdatePosition(ctx, uuid.MustParse(a.ID), "12-ab-07")
	require.NoError(t, err)

	// Malformed format.
	_, err = svc.UpdatePosition(ctx, uuid.MustParse(b.ID), "12ab07")
	assert.True(t, apperr.Is(err, apperr.BadRequest))

	// Clearing frees the slot.
	got, err = svc.UpdatePosition(ctx, uuid.MustParse(a.ID), "")
	require.NoError(t, err)
	assert.Nil(t, got.Position)
	_, err = svc.UpdatePosition(ctx, uuid.MustParse(b.ID), "12-ab-07")
	require.NoError(t, err)
}

func TestProductAdjustQuantity(t *testing.T) {
	svc := newProductFixture()
	ctx := context.Background()

	p, err := svc.Create(ctx, createReq(barcodeCola, "10.00", 5))
	require.NoError(t, err)
	id := uuid.MustParse(p.ID)

	got, err := svc.AdjustQuantity(ctx, id, 7)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)

	got, err = svc.AdjustQuantity(ctx, id, -12)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)

	_, err = svc.AdjustQuantity(ctx, id, -1)
	assert.True(t, apperr.Is(err, apperr.InsufficientStock))
}

func TestProductAdjustQuantityEchoMatchesStore(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, createReq(barcodeCola, "10.00", 5))
	require.NoError(t, err)
	id := uuid.MustParse(p.ID)

	// The quantity echoed back must be the one the update produced, not a
	// re-application of the delta on top of it.
	got, err := svc.AdjustQuantity(ctx, id, 7)
	require.NoError(t, err)

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Quantity)
	assert.Equal(t, stored.Quantity, got.Quantity)
}

func TestProductDelete(t *testing.T) {
	svc := newProductFixture()
	ctx := context.Background()

	p, err := svc.Create(ctx, createReq(barcodeCola, "10.00", 5))
	require.NoError(t, err)
	id := uuid.MustParse(p.ID)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.GetByID(ctx, id)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	err = svc.Delete(ctx, id)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
