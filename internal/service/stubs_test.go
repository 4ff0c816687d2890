package service_test

import (
	"context"
	"errors"
	"strings"

	"tillpoint/internal/dto"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Product stub ──────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository. The Tx variants ignore
// the (nil) transaction handle — runTx passes fn(nil) when DB() is nil.
type stubProductRepo struct {
	byID      map[uuid.UUID]*model.Product
	byBarcode map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		byID:      make(map[uuid.UUID]*model.Product),
		byBarcode: make(map[string]*model.Product),
	}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.byID[p.ID] = p
	r.byBarcode[p.Barcode] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	p, ok := r.byBarcode[barcode]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindByPosition(_ context.Context, position string) (*model.Product, error) {
	for _, p := range r.byID {
		if p.Position != nil && *p.Position == position {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.byID {
		if filter.Barcode != "" && p.Barcode != filter.Barcode {
			continue
		}
		if filter.Description != "" && !strings.Contains(p.Description, filter.Description) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.byID[p.ID] = p
	r.byBarcode[p.Barcode] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	p, ok := r.byID[id]
	if !ok {
		return errors.New("not found")
	}
	delete(r.byBarcode, p.Barcode)
	delete(r.byID, id)
	return nil
}

func (r *stubProductRepo) FindByBarcodeForUpdateTx(_ *gorm.DB, barcode string) (*model.Product, error) {
	return r.FindByBarcode(context.Background(), barcode)
}

func (r *stubProductRepo) AdjustQuantityTx(_ *gorm.DB, barcode string, delta int) (int64, error) {
	p, ok := r.byBarcode[barcode]
	if !ok || p.Quantity+delta < 0 {
		return 0, nil
	}
	p.Quantity += delta
	return 1, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Sale stub ─────────────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales map[uuid.UUID]*model.Sale
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubSaleRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Sale, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSaleRepo) UpdateTx(_ *gorm.DB, s *model.Sale) error {
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.sales, id)
	return nil
}

func (r *stubSaleRepo) CreateLineTx(_ *gorm.DB, l *model.SaleLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (r *stubSaleRepo) UpdateLineTx(_ *gorm.DB, _ *model.SaleLine) error { return nil }
func (r *stubSaleRepo) DeleteLineTx(_ *gorm.DB, _ uuid.UUID) error       { return nil }

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Order stub ────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	return r.Create(context.Background(), o)
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return o, nil
}

func (r *stubOrderRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return errors.New("not found")
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) List(_ context.Context) ([]model.Order, error) {
	out := make([]model.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Return stub ───────────────────────────────────────────────────────────────

type stubReturnRepo struct {
	returns map[uuid.UUID]*model.ReturnTransaction
}

func newStubReturnRepo() *stubReturnRepo {
	return &stubReturnRepo{returns: make(map[uuid.UUID]*model.ReturnTransaction)}
}

func (r *stubReturnRepo) Create(_ context.Context, ret *model.ReturnTransaction) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	r.returns[ret.ID] = ret
	return nil
}

func (r *stubReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ReturnTransaction, error) {
	ret, ok := r.returns[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return ret, nil
}

func (r *stubReturnRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.ReturnTransaction, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubReturnRepo) UpdateTx(_ *gorm.DB, ret *model.ReturnTransaction) error {
	r.returns[ret.ID] = ret
	return nil
}

func (r *stubReturnRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.returns, id)
	return nil
}

func (r *stubReturnRepo) CreateLineTx(_ *gorm.DB, l *model.ReturnLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (r *stubReturnRepo) UpdateLineTx(_ *gorm.DB, _ *model.ReturnLine) error { return nil }
func (r *stubReturnRepo) DeleteLineTx(_ *gorm.DB, _ uuid.UUID) error         { return nil }

func (r *stubReturnRepo) SumReturnedBySaleTx(_ *gorm.DB, saleID uuid.UUID) (map[string]int, error) {
	sums := make(map[string]int)
	for _, ret := range r.returns {
		if ret.SaleID != saleID {
			continue
		}
		for _, l := range ret.Lines {
			sums[l.Barcode] += l.Quantity
		}
	}
	return sums, nil
}

func (r *stubReturnRepo) DB() *gorm.DB { return nil }

var _ repository.ReturnRepository = (*stubReturnRepo)(nil)

// ── Ledger stub ───────────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	rec *model.BalanceRecord
}

func newStubLedgerRepo() *stubLedgerRepo { return &stubLedgerRepo{} }

func (r *stubLedgerRepo) GetOrCreate(_ context.Context) (*model.BalanceRecord, error) {
	if r.rec == nil {
		r.rec = &model.BalanceRecord{ID: model.LedgerRowID, Balance: decimal.Zero}
	}
	return r.rec, nil
}

func (r *stubLedgerRepo) GetOrCreateForUpdateTx(_ *gorm.DB) (*model.BalanceRecord, error) {
	return r.GetOrCreate(context.Background())
}

func (r *stubLedgerRepo) SetTx(_ *gorm.DB, amount decimal.Decimal) error {
	r.rec.Balance = amount
	return nil
}

func (r *stubLedgerRepo) AdjustTx(_ *gorm.DB, delta decimal.Decimal) (int64, error) {
	next := r.rec.Balance.Add(delta)
	if next.IsNegative() {
		return 0, nil
	}
	r.rec.Balance = next
	return 1, nil
}

func (r *stubLedgerRepo) DB() *gorm.DB { return nil }

var _ repository.LedgerRepository = (*stubLedgerRepo)(nil)

// ── Customer stub ─────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	byID map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byID: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.byID[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByCardCode(_ context.Context, code string) (*model.Customer, error) {
	for _, c := range r.byID {
		if c.CardCode != nil && *c.CardCode == code {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.byID[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── User stub ─────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	byID map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byID[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)
