package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCartAddUnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo(domain.Product{ID: 1, Name: "A", Price: price("12.90")})
	uc := NewCartUseCase(repo, quietLogger())
	cart := &memoryCart{}

	added, err := uc.AddItem(ctx, cart, "1", "X")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = uc.AddItem(ctx, cart, "999", "Z")
	require.NoError(t, err)
	assert.False(t, added)

	items, total := uc.ViewCart(cart)
	require.Len(t, items, 1)
	assert.Equal(t, domain.CartItem{ProductID: 1, Name: "A", Price: price("12.90"), Flavor: "X"}, items[0])
	assert.True(t, price("12.90").Equal(total))
}

func TestCartAddIgnoresMissingArguments(t *testing.T) {
	ctx := context.Background()
	uc := NewCartUseCase(newFakeProductRepo(domain.Product{ID: 1}), quietLogger())
	cart := &memoryCart{}

	for _, tc := range []struct{ id, flavor string }{
		{"", "X"},
		{"1", ""},
		{"  ", " "},
		{"abc", "X"},
		{"-4", "X"},
	} {
		added, err := uc.AddItem(ctx, cart, tc.id, tc.flavor)
		require.NoError(t, err)
		assert.False(t, added, "id=%q flavor=%q", tc.id, tc.flavor)
	}
	assert.Empty(t, cart.Items())
}

func TestCartTotalIsPriceLocked(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProductRepo(
		domain.Product{ID: 1, Name: "A", Price: price("10.00")},
		domain.Product{ID: 2, Name: "B", Price: price("2.55")},
	)
	uc := NewCartUseCase(repo, quietLogger())
	cart := &memoryCart{}

	_, err := uc.AddItem(ctx, cart, "1", "X")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, cart, "2", "Y")
	require.NoError(t, err)
	_, err = uc.AddItem(ctx, cart, "2", "Y")
	require.NoError(t, err)

	repo.products[1] = domain.Product{ID: 1, Name: "A", Price: price("99.00")}

	_, total := uc.ViewCart(cart)
	assert.Equal(t, "15.10", total.StringFixed(2))
}

func TestCartEmptyAndClear(t *testing.T) {
	uc := NewCartUseCase(newFakeProductRepo(), quietLogger())
	cart := &memoryCart{items: []domain.CartItem{{ProductID: 1, Price: price("1")}}}

	require.NoError(t, uc.Clear(cart))
	items, total := uc.ViewCart(cart)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.True(t, total.IsZero())
}

func TestCartAddPropagatesStorageErrors(t *testing.T) {
	repo := newFakeProductRepo()
	repo.failWith = &domain.StorageError{Op: "query", Err: errors.New("connection refused")}
	uc := NewCartUseCase(repo, quietLogger())
	cart := &memoryCart{}

	added, err := uc.AddItem(context.Background(), cart, "1", "X")
	assert.False(t, added)
	var sErr *domain.StorageError
	assert.ErrorAs(t, err, &sErr)

	cart.failWrite = true
	repo.failWith = nil
	repo.products[1] = domain.Product{ID: 1}
	_, err = uc.AddItem(context.Background(), cart, "1", "X")
	assert.Error(t, err)
}

func TestCatalogTrimsCategory(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{ID: 1, Category: "doces"}, domain.Product{ID: 2, Category: "salgados"})
	uc := NewCatalogUseCase(repo, quietLogger())

	cat := " doces "
	views, err := uc.ListProducts(context.Background(), &cat)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "doces", *repo.lastQuery)

	views, err = uc.ListProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Nil(t, repo.lastQuery)
}

func TestCreateProductNormalizesInput(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUseCase(repo, &fakeFlavorRepo{}, quietLogger())

	blank := "   "
	id, err := uc.CreateProduct(context.Background(), domain.ProductInput{
		Name:        " Brownie ",
		Price:       price("7.5"),
		Category:    "doces",
		ImageURL:    &blank,
		FlavorStock: map[int64]int{1: 5, 2: -3, 0: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	got := repo.created[0]
	assert.Equal(t, "Brownie", got.Name)
	assert.Nil(t, got.ImageURL)
	assert.Equal(t, map[int64]int{1: 5, 2: 0}, got.FlavorStock)
}

func TestCreateProductValidation(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUseCase(repo, &fakeFlavorRepo{}, quietLogger())

	cases := map[string]domain.ProductInput{
		"name":     {Price: price("1"), Category: "c"},
		"category": {Name: "n", Price: price("1")},
		"price":    {Name: "n", Category: "c", Price: price("-1")},
	}
	for field, in := range cases {
		_, err := uc.CreateProduct(context.Background(), in)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr, field)
		assert.Equal(t, field, vErr.Field)
		assert.True(t, IsValidation(err))
	}
	assert.Empty(t, repo.created, "no mutation on validation failure")
}

func TestCreateProductRejectsOutOfRangeValues(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUseCase(repo, &fakeFlavorRepo{}, quietLogger())

	cases := []struct {
		name  string
		in    domain.ProductInput
		field string
	}{
		{"price above column precision", domain.ProductInput{Name: "n", Category: "c", Price: price("100000000")}, "price"},
		{"price rounds past the limit", domain.ProductInput{Name: "n", Category: "c", Price: price("99999999.995")}, "price"},
		{"stock above int32", domain.ProductInput{Name: "n", Category: "c", Price: price("1"), FlavorStock: map[int64]int{1: math.MaxInt32 + 1}}, "stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateProduct(context.Background(), tc.in)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
	assert.Empty(t, repo.created)

	_, err := uc.CreateProduct(context.Background(), domain.ProductInput{
		Name: "n", Category: "c", Price: price("99999999.99"), FlavorStock: map[int64]int{1: math.MaxInt32},
	})
	require.NoError(t, err)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUseCase(repo, &fakeFlavorRepo{}, quietLogger())
	ctx := context.Background()

	require.NoError(t, uc.UpdateProduct(ctx, 3, domain.ProductInput{Name: "n", Category: "c", Price: price("1")}))
	assert.NotNil(t, repo.updated[3].FlavorStock)
	assert.Empty(t, repo.updated[3].FlavorStock)

	assert.True(t, IsValidation(uc.UpdateProduct(ctx, 0, domain.ProductInput{})))
	assert.True(t, IsValidation(uc.DeleteProduct(ctx, -1)))
	require.NoError(t, uc.DeleteProduct(ctx, 3))
	assert.Equal(t, []int64{3}, repo.deleted)
}

func TestOverview(t *testing.T) {
	repo := newFakeProductRepo(domain.Product{ID: 1, Name: "A"})
	uc := NewProductUseCase(repo, &fakeFlavorRepo{names: []string{"X"}}, quietLogger())

	overview, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Len(t, overview.Products, 1)
	assert.Equal(t, []domain.Flavor{{ID: 1, Name: "X"}}, overview.Flavors)
}

func TestFlavorValidation(t *testing.T) {
	repo := &fakeFlavorRepo{}
	uc := NewFlavorUseCase(repo, quietLogger())
	ctx := context.Background()

	assert.True(t, IsValidation(uc.CreateFlavor(ctx, "  ")))
	assert.True(t, IsValidation(uc.CreateFlavor(ctx, "salt,pepper")))
	require.NoError(t, uc.CreateFlavor(ctx, " Morango "))
	assert.Equal(t, []string{"Morango"}, repo.names)

	assert.True(t, IsValidation(uc.DeleteFlavor(ctx, 0)))
	require.NoError(t, uc.DeleteFlavor(ctx, 4))
	assert.Equal(t, []int64{4}, repo.deleted)
}

func TestAuthGate(t *testing.T) {
	uc, err := NewAuthUseCase("admin", "password123", quietLogger())
	require.NoError(t, err)
	state := &memoryAuth{}

	ok, err := uc.Login(state, "admin", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, state.Authenticated())

	ok, err = uc.Login(state, "root", "password123")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = uc.Login(state, "admin", "password123")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, state.Authenticated())

	require.NoError(t, uc.Logout(state))
	assert.False(t, state.Authenticated())

	_, err = NewAuthUseCase("", "x", quietLogger())
	assert.Error(t, err)
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	cart := &memoryCart{items: []domain.CartItem{
		{ProductID: 1, Name: "A", Price: price("10.00"), Flavor: "X"},
		{ProductID: 2, Name: "B", Price: price("0.99"), Flavor: "Y"},
	}}

	provider := &fakeProvider{}
	checkout, err := NewCheckoutUseCase(provider, quietLogger()).CreatePayment(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, "cs_test", checkout.ID)
	assert.Equal(t, "10.99", provider.gotTotal.StringFixed(2))
	assert.Len(t, provider.gotItems, 2)

	_, err = NewCheckoutUseCase(provider, quietLogger()).CreatePayment(ctx, &memoryCart{})
	assert.True(t, IsValidation(err))

	_, err = NewCheckoutUseCase(nil, quietLogger()).CreatePayment(ctx, cart)
	assert.ErrorIs(t, err, domain.ErrPaymentDisabled)

	failing := &fakeProvider{err: errors.New("card network down")}
	_, err = NewCheckoutUseCase(failing, quietLogger()).CreatePayment(ctx, cart)
	var pErr *domain.PaymentProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "fake", pErr.Provider)
}
