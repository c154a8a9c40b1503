package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

type CheckoutUseCase interface {
	// CreatePayment hands the session cart to the payment provider at the
	// prices captured when each item was added.
	CreatePayment(ctx context.Context, cart domain.CartStore) (*domain.Checkout, error)
}

type checkoutUseCase struct {
	provider domain.PaymentProvider
	log      *logrus.Logger
}

// NewCheckoutUseCase accepts a nil provider; CreatePayment then returns
// domain.ErrPaymentDisabled.
func NewCheckoutUseCase(provider domain.PaymentProvider, logger *logrus.Logger) CheckoutUseCase {
	return &checkoutUseCase{
		provider: provider,
		log:      logger,
	}
}

func (uc *checkoutUseCase) CreatePayment(ctx context.Context, cart domain.CartStore) (*domain.Checkout, error) {
	if uc.provider == nil {
		uc.log.Warn("Use Case: Payment requested but no provider is configured")
		return nil, domain.ErrPaymentDisabled
	}

	items := cart.Items()
	if len(items) == 0 {
		uc.log.Warn("Use Case: Payment requested for an empty cart")
		return nil, domain.NewValidationError("cart", "is empty")
	}
	total := CartTotal(items)

	uc.log.Infof("Use Case: Creating %s payment for %d items, total %s", uc.provider.Name(), len(items), total.StringFixed(2))
	checkout, err := uc.provider.CreateCheckout(ctx, items, total)
	if err != nil {
		uc.log.Errorf("Use Case: Payment provider %s failed: %v", uc.provider.Name(), err)
		var pErr *domain.PaymentProviderError
		if errors.As(err, &pErr) {
			return nil, err
		}
		return nil, &domain.PaymentProviderError{Provider: uc.provider.Name(), Err: err}
	}
	return checkout, nil
}
