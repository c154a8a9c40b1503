package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type PaymentProvider interface {
	Name() string
	CreateCheckout(ctx context.Context, items []CartItem, total decimal.Decimal) (*Checkout, error)
}
