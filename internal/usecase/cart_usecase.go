package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type CartUseCase interface {
	// AddItem reports whether an item was appended. Missing arguments and
	// unknown products are silent no-ops.
	AddItem(ctx context.Context, cart domain.CartStore, productID, flavor string) (bool, error)
	ViewCart(cart domain.CartStore) ([]domain.CartItem, decimal.Decimal)
	Clear(cart domain.CartStore) error
}

type cartUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewCartUseCase(pRepo domain.ProductRepository, logger *logrus.Logger) CartUseCase {
	return &cartUseCase{
		productRepo: pRepo,
		log:         logger,
	}
}

func (uc *cartUseCase) AddItem(ctx context.Context, cart domain.CartStore, productID, flavor string) (bool, error) {
	productID = strings.TrimSpace(productID)
	flavor = strings.TrimSpace(flavor)
	if productID == "" || flavor == "" {
		uc.log.Warn("Use Case: Add to cart without product or flavor, ignoring")
		return false, nil
	}

	id, err := strconv.ParseInt(productID, 10, 64)
	if err != nil || id <= 0 {
		uc.log.Warnf("Use Case: Add to cart with invalid product id '%s', ignoring", productID)
		return false, nil
	}

	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Product %d not found, cart unchanged", id)
			return false, nil
		}
		uc.log.Errorf("Use Case: Failed to load product %d for cart: %v", id, err)
		return false, fmt.Errorf("could not add to cart: %w", err)
	}

	item := domain.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Flavor:    flavor,
	}
	if err := cart.Append(item); err != nil {
		uc.log.Errorf("Use Case: Failed to store cart item for product %d: %v", id, err)
		return false, fmt.Errorf("could not add to cart: %w", err)
	}
	uc.log.Infof("Use Case: Added product %d (%s) to cart", product.ID, flavor)
	return true, nil
}

func (uc *cartUseCase) ViewCart(cart domain.CartStore) ([]domain.CartItem, decimal.Decimal) {
	items := cart.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, CartTotal(items)
}

func (uc *cartUseCase) Clear(cart domain.CartStore) error {
	if err := cart.Clear(); err != nil {
		uc.log.Errorf("Use Case: Failed to clear cart: %v", err)
		return fmt.Errorf("could not clear cart: %w", err)
	}
	uc.log.Info("Use Case: Cart cleared")
	return nil
}

// CartTotal sums the snapshotted prices.
func CartTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}
