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

type returnFixture struct {
	svc     service.ReturnService
	sales   service.SaleService
	ledger  service.LedgerService
	saleID  uuid.UUID
	returns *stubReturnRepo
}

// newReturnFixture builds a paid sale of 3 × cola (10.00) + 2 × water (2.50)
// and a return service sharing the same sale repository.
func newReturnFixture(t *testing.T) *returnFixture {
	t.Helper()
	ctx := context.Background()

	products := newStubProductRepo()
	require.NoError(t, products.Create(ctx, &model.Product{
		Barcode:      barcodeCola,
		Description:  "cola 1.5l",
		Quantity:     50,
		PricePerUnit: decimal.RequireFromString("10.00"),
	}))
	require.NoError(t, products.Create(ctx, &model.Product{
		Barcode:      barcodeWater,
		Description:  "still water",
		Quantity:     50,
		PricePerUnit: decimal.RequireFromString("2.50"),
	}))

	saleRepo := newStubSaleRepo()
	inventory := service.NewInventoryService(products)
	sales := service.NewSaleService(saleRepo, products, inventory, nil)

	sale, err := sales.Create(ctx)
	require.NoError(t, err)
	saleID := uuid.MustParse(sale.ID)
	_, err = sales.AttachItem(ctx, saleID, dto.AttachItemRequest{Barcode: barcodeCola, Amount: 3})
	require.NoError(t, err)
	_, err = sales.AttachItem(ctx, saleID, dto.AttachItemRequest{Barcode: barcodeWater, Amount: 2})
	require.NoError(t, err)
	require.NoError(t, sales.Close(ctx, saleID))
	_, err = sales.Pay(ctx, saleID, decimal.RequireFromString("35.00"))
	require.NoError(t, err)

	ledger := service.NewLedgerService(newStubLedgerRepo())
	returns := newStubReturnRepo()
	return &returnFixture{
		svc:     service.NewReturnService(returns, saleRepo, ledger),
		sales:   sales,
		ledger:  ledger,
		saleID:  saleID,
		returns: returns,
	}
}

func TestReturnRequiresPaidSale(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	open, err := f.sales.Create(ctx)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, uuid.MustParse(open.ID))
	assert.True(t, apperr.Is(err, apperr.InvalidState))

	_, err = f.svc.Create(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestReturnLifecycleAndRefund(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	ret, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	retID := uuid.MustParse(ret.ID)

	resp, err := f.svc.AttachItem(ctx, retID, dto.AttachItemRequest{Barcode: barcodeCola, Amount: 2})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	// The refund price is the sale's frozen unit price.
	assert.Equal(t, "10.00", resp.Lines[0].PricePerUnit.StringFixed(2))

	require.NoError(t, f.svc.Close(ctx, retID))

	refund, err := f.svc.Reimburse(ctx, retID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", refund.RefundAmount.StringFixed(2))

	balance, _ := f.ledger.Get(ctx)
	assert.Equal(t, "20.00", balance.StringFixed(2))
}

func TestReturnBoundedBySoldQuantity(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	ret, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	retID := uuid.MustParse(ret.ID)

	// Only 3 cola units were sold.
	_, err = f.svc.AttachItem(ctx, retID, dto.AttachItemRequest{Barcode: barcodeCola, Amount: 4})
	assert.True(t, apperr.Is(err, apperr.InsufficientQuantitySold))

	// A product absent from the sale cannot be returned at all.
	_, err = f.svc.AttachItem(ctx, retID, dto.AttachItemRequest{Barcode: barcodeCrate, Amount: 1})
	assert.True(t, apperr.Is(err, apperr.BadRequest))
}

func TestReturnBoundSpansMultipleReturns(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	_, err = f.svc.AttachItem(ctx, uuid.MustParse(first.ID), dto.AttachItemRequest{Barcode: barcodeCola, Amount: 2})
	require.NoError(t, err)

	// The second return only has 1 cola unit left to claim.
	second, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	_, err = f.svc.AttachItem(ctx, uuid.MustParse(second.ID), dto.AttachItemRequest{Barcode: barcodeCola, Amount: 2})
	assert.True(t, apperr.Is(err, apperr.InsufficientQuantitySold))

	_, err = f.svc.AttachItem(ctx, uuid.MustParse(second.ID), dto.AttachItemRequest{Barcode: barcodeCola, Amount: 1})
	require.NoError(t, err)
}

func TestReturnEditItemQuantity(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	ret, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	retID := uuid.MustParse(ret.ID)

	_, err = f.svc.AttachItem(ctx, retID, dto.AttachItemRequest{Barcode: barcodeCola, Amount: 1})
	require.NoError(t, err)

	// Growing the line re-checks the sold bound.
	_, err = f.svc.EditItemQuantity(ctx, retID, dto.EditItemQuantityRequest{Barcode: barcodeCola, Delta: 3})
	assert.True(t, apperr.Is(err, apperr.InsufficientQuantitySold))

	resp, err := f.svc.EditItemQuantity(ctx, retID, dto.EditItemQuantityRequest{Barcode: barcodeCola, Delta: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Lines[0].Quantity)

	// Shrinking to zero drops the line.
	resp, err = f.svc.EditItemQuantity(ctx, retID, dto.EditItemQuantityRequest{Barcode: barcodeCola, Delta: -3})
	require.NoError(t, err)
	assert.Empty(t, resp.Lines)
}

func TestReturnCloseEmptyDeletes(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	ret, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	retID := uuid.MustParse(ret.ID)

	require.NoError(t, f.svc.Close(ctx, retID))

	_, err = f.svc.Get(ctx, retID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestReturnDeleteAfterReimburseRejected(t *testing.T) {
	f := newReturnFixture(t)
	ctx := context.Background()

	ret, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	retID := uuid.MustParse(ret.ID)

	_, err = f.svc.AttachItem(ctx, retID, dto.AttachItemRequest{Barcode: barcodeWater, Amount: 1})
	require.NoError(t, err)
	require.NoError(t, f.svc.Close(ctx, retID))
	_, err = f.svc.Reimburse(ctx, retID)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, retID)
	assert.True(t, apperr.Is(err, apperr.InvalidState))

	// A closed-but-unreimbursed return is still deletable.
	other, err := f.svc.Create(ctx, f.saleID)
	require.NoError(t, err)
	otherID := uuid.MustParse(other.ID)
	_, err = f.svc.AttachItem(ctx, otherID, dto.AttachItemRequest{Barcode: barcodeWater, Amount: 1})
	require.NoError(t, err)
	require.NoError(t, f.svc.Close(ctx, otherID))
	require.NoError(t, f.svc.Delete(ctx, otherID))
}
