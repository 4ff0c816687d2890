package service_test

import (
	"context"
	"testing"

	"tillpoint/internal/apperr"
	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	barcodeCola  = "614141007349"   // UPC-A
	barcodeWater = "6291041500213"  // EAN-13
	barcodeCrate = "40700719670720" // GTIN-14
)

type saleFixture struct {
	svc      service.SaleService
	sales    *stubSaleRepo
	products *stubProductRepo
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	products := newStubProductRepo()
	require.NoError(t, products.Create(context.Background(), &model.Product{
		Barcode:      barcodeCola,
		Description:  "cola 1.5l",
		Quantity:     50,
		PricePerUnit: decimal.RequireFromString("10.00"),
	}))
	require.NoError(t, products.Create(context.Background(), &model.Product{
		Barcode:      barcodeWater,
		Description:  "still water",
		Quantity:     3,
		PricePerUnit: decimal.RequireFromString("2.50"),
	}))
	sales := newStubSaleRepo()
	inventory := service.NewInventoryService(products)
	return &saleFixture{
		svc:      service.NewSaleService(sales, products, inventory, nil),
		sales:    sales,
		products: products,
	}
}

func (f *saleFixture) openSaleWith(t *testing.T, barcode string, amount int) uuid.UUID {
	t.Helper()
	sale, err := f.svc.Create(context.Background())
	require.NoError(t, err)
	id := uuid.MustParse(sale.ID)
	_, err = f.svc.AttachItem(context.Background(), id, dto.AttachItemRequest{Barcode: barcode, Amount: amount})
	require.NoError(t, err)
	return id
}

func TestSaleLifecycle(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	saleID := f.openSaleWith(t, barcodeCola, 3)

	// Attaching debits stock immediately.
	p, _ := f.products.FindByBarcode(ctx, barcodeCola)
	assert.Equal(t, 47, p.Quantity)

	require.NoError(t, f.svc.Close(ctx, saleID))

	resp, err := f.svc.Pay(ctx, saleID, decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.Equal(t, "20.00", resp.Change.StringFixed(2))

	sale, err := f.svc.Get(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, model.SalePaid, sale.Status)
	assert.Equal(t, "30.00", sale.Total.StringFixed(2))
}

func TestSaleAttachItemValidation(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.Create(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(sale.ID)

	// Bad check digit.
	_, err = f.svc.AttachItem(ctx, id, dto.AttachItemRequest{Barcode: "123456789013", Amount: 1})
	assert.True(t, apperr.Is(err, apperr.BadRequest))

	// Unknown product.
	_, err = f.svc.AttachItem(ctx, id, dto.AttachItemRequest{Barcode: barcodeCrate, Amount: 1})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	// More than in stock.
	_, err = f.svc.AttachItem(ctx, id, dto.AttachItemRequest{Barcode: barcodeWater, Amount: 4})
	assert.True(t, apperr.Is(err, apperr.InsufficientStock))

	// A failed attach must not leak stock.
	p, _ := f.products.FindByBarcode(ctx, barcodeWater)
	assert.Equal(t, 3, p.Quantity)
}

func TestSaleAttachAfterCloseRejected(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	saleID := f.openSaleWith(t, barcodeCola, 1)
	require.NoError(t, f.svc.Close(ctx, saleID))

	_, err := f.svc.AttachItem(ctx, saleID, dto.AttachItemRequest{Barcode: barcodeCola, Amount: 1})
	assert.True(t, apperr.Is(err, apperr.InvalidState))
}

func TestSaleEditItemQuantity(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	saleID := f.openSaleWith(t, barcodeCola, 5)

	// Removing part of the line credits stock back.
	resp, err := f.svc.EditItemQuantity(ctx, saleID, dto.EditItemQuantityRequest{Barcode: barcodeCola, Delta: -2})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 3, resp.Lines[0].Quantity)

	p, _ := f.products.FindByBarcode(ctx, barcodeCola)
	assert.Equal(t, 47, p.Quantity)

	// Removing the remainder drops the line entirely.
	resp, err = f.svc.EditItemQuantity(ctx, saleID, dto.EditItemQuantityRequest{Barcode: barcodeCola, Delta: -3})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)

	p, _ = f.products.FindByBarcode(ctx, barcodeCola)
	assert.Equal(t, 50, p.Quantity)

	// Removing below zero is rejected.
	_, err = f.svc.EditItemQuantity(ctx, saleID, dto.EditItemQuantityRequest{Barcode: barcodeCola, Delta: -1})
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestSaleDiscountStacking(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	// 2 × 10.00 = 20.00, line −10% → 18.00, sale −20% → 14.40
	saleID := f.openSaleWith(t, barcodeCola, 2)
	require.NoError(t, f.svc.SetLineDiscount(ctx, saleID, dto.LineDiscountRequest{
		Barcode: barcodeCola,
		Rate:    decimal.RequireFromString("0.10"),
	}))
	require.NoError(t, f.svc.SetSaleDiscount(ctx, saleID, decimal.RequireFromString("0.20")))

	require.NoError(t, f.svc.Close(ctx, saleID))
	resp, err := f.svc.Pay(ctx, saleID, decimal.RequireFromString("20.00"))
	require.NoError(t, err)
	assert.Equal(t, "5.60", resp.Change.StringFixed(2))
}

func TestSaleDiscountRateBounds(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	saleID := f.openSaleWith(t, barcodeCola, 1)

	err := f.svc.SetSaleDiscount(ctx, saleID, decimal.RequireFromString("1.00"))
	assert.True(t, apperr.Is(err, apperr.BadRequest))

	err = f.svc.SetSaleDiscount(ctx, saleID, decimal.RequireFromString("-0.10"))
	assert.True(t, apperr.Is(err, apperr.BadRequest))
}

func TestSalePayInsufficientCash(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	saleID := f.openSaleWith(t, barcodeCola, 3)
	require.NoError(t, f.svc.Close(ctx, saleID))

	_, err := f.svc.Pay(ctx, saleID, decimal.RequireFromString("29.99"))
	assert.True(t, apperr.Is(err, apperr.InsufficientCash))

	// The sale stays pending and can still be paid.
	resp, err := f.svc.Pay(ctx, saleID, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.Equal(t, "0.00", resp.Change.StringFixed(2))
}

func TestSaleCloseEmptyDeletes(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	sale, err := f.svc.Create(ctx)
	require.NoError(t, err)
	id := uuid.MustParse(sale.ID)

	require.NoError(t, f.svc.Close(ctx, id))

	_, err = f.svc.Get(ctx, id)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestSaleDeleteRestoresStock(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	saleID := f.openSaleWith(t, barcodeCola, 4)
	require.NoError(t, f.svc.Delete(ctx, saleID))

	p, _ := f.products.FindByBarcode(ctx, barcodeCola)
	assert.Equal(t, 50, p.Quantity)

	_, err := f.svc.Get(ctx, saleID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestSaleDeletePaidRejected(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	saleID := f.openSaleWith(t, barcodeCola, 1)
	require.NoError(t, f.svc.Close(ctx, saleID))
	_, err := f.svc.Pay(ctx, saleID, decimal.RequireFromString("10.00"))
	require.NoError(t, err)

	err = f.svc.Delete(ctx, saleID)
	assert.True(t, apperr.Is(err, apperr.InvalidState))
}

func TestSaleComputePoints(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	// 3 × 10.00 = 30.00 → 3 points
	saleID := f.openSaleWith(t, barcodeCola, 3)

	// Points only exist for paid sales.
	_, err := f.svc.ComputePoints(ctx, saleID)
	assert.True(t, apperr.Is(err, apperr.InvalidState))

	require.NoError(t, f.svc.Close(ctx, saleID))
	_, err = f.svc.Pay(ctx, saleID, decimal.RequireFromString("30.00"))
	require.NoError(t, err)

	resp, err := f.svc.ComputePoints(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Points)
}

func TestSaleComputePointsFloorsFractionalTotals(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()

	// 1 × 10.00 + 3 × 2.50 = 17.50 → 1 point; rounding 1.75 up would give 2.
	saleID := f.openSaleWith(t, barcodeCola, 1)
	_, err := f.svc.AttachItem(ctx, saleID, dto.AttachItemRequest{Barcode: barcodeWater, Amount: 3})
	require.NoError(t, err)

	require.NoError(t, f.svc.Close(ctx, saleID))
	_, err = f.svc.Pay(ctx, saleID, decimal.RequireFromString("17.50"))
	require.NoError(t, err)

	resp, err := f.svc.ComputePoints(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Points)
}
