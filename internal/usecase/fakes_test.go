package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeProductRepo struct {
	products  map[int64]domain.Product
	created   []domain.ProductInput
	updated   map[int64]domain.ProductInput
	deleted   []int64
	failWith  error
	lastQuery *string
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[int64]domain.Product{}, updated: map[int64]domain.ProductInput{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) ListCatalog(_ context.Context, category *string) ([]domain.ProductView, error) {
	r.lastQuery = category
	if r.failWith != nil {
		return nil, r.failWith
	}
	var views []domain.ProductView
	for _, p := range r.products {
		if category == nil || *category == p.Category {
			views = append(views, domain.ProductView{Product: p, Flavors: []string{}})
		}
	}
	return views, nil
}

func (r *fakeProductRepo) GetProductByID(_ context.Context, id int64) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeProductRepo) ListCategories(context.Context) ([]string, error) {
	return []string{"a", "b"}, r.failWith
}

func (r *fakeProductRepo) ListProductsWithStock(context.Context) ([]domain.AdminProduct, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var list []domain.AdminProduct
	for _, p := range r.products {
		list = append(list, domain.AdminProduct{Product: p, FlavorStock: map[int64]int{}})
	}
	return list, nil
}

func (r *fakeProductRepo) CreateProduct(_ context.Context, in domain.ProductInput) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	r.created = append(r.created, in)
	return int64(len(r.created)), nil
}

func (r *fakeProductRepo) UpdateProduct(_ context.Context, id int64, in domain.ProductInput) error {
	r.updated[id] = in
	return r.failWith
}

func (r *fakeProductRepo) DeleteProduct(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return r.failWith
}

type fakeFlavorRepo struct {
	names   []string
	deleted []int64
}

func (r *fakeFlavorRepo) ListFlavors(context.Context) ([]domain.Flavor, error) {
	var list []domain.Flavor
	for i, n := range r.names {
		list = append(list, domain.Flavor{ID: int64(i + 1), Name: n})
	}
	return list, nil
}

func (r *fakeFlavorRepo) CreateFlavor(_ context.Context, name string) error {
	r.names = append(r.names, name)
	return nil
}

func (r *fakeFlavorRepo) DeleteFlavor(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type memoryCart struct {
	items     []domain.CartItem
	failWrite bool
}

func (c *memoryCart) Items() []domain.CartItem { return c.items }

func (c *memoryCart) Append(item domain.CartItem) error {
	if c.failWrite {
		return errors.New("session write failed")
	}
	c.items = append(c.items, item)
	return nil
}

func (c *memoryCart) Clear() error {
	c.items = nil
	return nil
}

type memoryAuth struct {
	authenticated bool
}

func (a *memoryAuth) Authenticated() bool { return a.authenticated }

func (a *memoryAuth) SetAuthenticated(v bool) error {
	a.authenticated = v
	return nil
}

type fakeProvider struct {
	gotItems []domain.CartItem
	gotTotal decimal.Decimal
	err      error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateCheckout(_ context.Context, items []domain.CartItem, total decimal.Decimal) (*domain.Checkout, error) {
	p.gotItems = items
	p.gotTotal = total
	if p.err != nil {
		return nil, p.err
	}
	return &domain.Checkout{ID: "cs_test", URL: "https://pay.example/cs_test", Total: total}, nil
}
