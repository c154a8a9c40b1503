package clients

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"golang.org/x/text/currency"

	"storefront/internal/domain"
)

const stripeProviderName = "stripe"

type StripeConfig struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
	// Backends overrides the Stripe API endpoints; nil uses the live API.
	Backends *stripe.Backends
}

// StripeClient creates Stripe Checkout sessions for a cart.
type StripeClient struct {
	api        *client.API
	currency   string
	scale      int32
	successURL string
	cancelURL  string
	log        *logrus.Logger
}

var _ domain.PaymentProvider = (*StripeClient)(nil)

func NewStripeClient(cfg StripeConfig, logger *logrus.Logger) (*StripeClient, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key cannot be empty")
	}
	if cfg.Currency == "" {
		cfg.Currency = "brl"
	}

	scale, err := currencyScale(cfg.Currency)
	if err != nil {
		return nil, err
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, cfg.Backends)
	logger.Infof("Payment client initialized for %s (currency %s)", stripeProviderName, cfg.Currency)

	return &StripeClient{
		api:        api,
		currency:   strings.ToLower(cfg.Currency),
		scale:      scale,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		log:        logger,
	}, nil
}

func (c *StripeClient) Name() string { return stripeProviderName }

func (c *StripeClient) CreateCheckout(ctx context.Context, items []domain.CartItem, total decimal.Decimal) (*domain.Checkout, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  c.lineItems(items),
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("cart_total", total.StringFixed(2))

	c.log.Infof("Client: Creating stripe checkout session with %d line items", len(params.LineItems))
	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.log.Errorf("Client: Failed to create stripe checkout session: %v", err)
		return nil, &domain.PaymentProviderError{Provider: stripeProviderName, Err: err}
	}

	c.log.Infof("Client: Stripe checkout session %s created", s.ID)
	return &domain.Checkout{ID: s.ID, URL: s.URL, Total: total}, nil
}

// lineItems merges identical snapshots into one line with a quantity.
func (c *StripeClient) lineItems(items []domain.CartItem) []*stripe.CheckoutSessionLineItemParams {
	type key struct {
		productID int64
		flavor    string
		cents     int64
	}
	index := map[key]*stripe.CheckoutSessionLineItemParams{}
	var lines []*stripe.CheckoutSessionLineItemParams

	for _, item := range items {
		k := key{item.ProductID, item.Flavor, MinorUnits(item.Price, c.scale)}
		if line, ok := index[k]; ok {
			*line.Quantity++
			continue
		}
		name := item.Name
		if item.Flavor != "" {
			name = fmt.Sprintf("%s (%s)", item.Name, item.Flavor)
		}
		line := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(c.currency),
				UnitAmount: stripe.Int64(k.cents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
			},
			Quantity: stripe.Int64(1),
		}
		index[k] = line
		lines = append(lines, line)
	}
	return lines
}

// currencyScale is the number of minor-unit digits of an ISO 4217 code:
// 0 for JPY, 2 for BRL, 3 for KWD.
func currencyScale(code string) (int32, error) {
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return 0, fmt.Errorf("unknown payment currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

// MinorUnits converts a price to the currency's smallest unit, rounding
// half away from zero.
func MinorUnits(price decimal.Decimal, scale int32) int64 {
	return price.Shift(scale).Round(0).IntPart()
}
