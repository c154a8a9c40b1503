package clients

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"

	"storefront/internal/domain"
)

func testBackends(serverURL string) *stripe.Backends {
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(serverURL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1290), MinorUnits(decimal.RequireFromString("12.90"), 2))
	assert.Equal(t, int64(1000), MinorUnits(decimal.RequireFromString("10"), 2))
	assert.Equal(t, int64(1), MinorUnits(decimal.RequireFromString("0.005"), 2))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero, 2))
	assert.Equal(t, int64(1500), MinorUnits(decimal.RequireFromString("1500"), 0))
	assert.Equal(t, int64(1235), MinorUnits(decimal.RequireFromString("1.2345"), 3))
}

func TestCurrencyScale(t *testing.T) {
	for code, want := range map[string]int32{"brl": 2, "USD": 2, "jpy": 0, "krw": 0, "kwd": 3} {
		scale, err := currencyScale(code)
		require.NoError(t, err, code)
		assert.Equal(t, want, scale, code)
	}

	_, err := currencyScale("zzz")
	assert.Error(t, err)
}

func TestCreateCheckoutUsesZeroDecimalAmounts(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_jpy","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_jpy"}`))
	}))
	defer server.Close()

	c, err := NewStripeClient(StripeConfig{SecretKey: "sk_test_123", Currency: "jpy", Backends: testBackends(server.URL)}, quietLogger())
	require.NoError(t, err)

	_, err = c.CreateCheckout(context.Background(), []domain.CartItem{{ProductID: 1, Name: "Mochi", Price: decimal.RequireFromString("1500"), Flavor: "Matcha"}}, decimal.RequireFromString("1500"))
	require.NoError(t, err)
	assert.Equal(t, "jpy", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "1500", form.Get("line_items[0][price_data][unit_amount]"))
}

func TestCreateCheckoutSendsLineItems(t *testing.T) {
	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_123","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`))
	}))
	defer server.Close()

	c, err := NewStripeClient(StripeConfig{
		SecretKey:  "sk_test_123",
		Currency:   "BRL",
		SuccessURL: "http://shop.local/cart?paid=1",
		CancelURL:  "http://shop.local/cart",
		Backends:   testBackends(server.URL),
	}, quietLogger())
	require.NoError(t, err)

	items := []domain.CartItem{
		{ProductID: 1, Name: "Cake", Price: decimal.RequireFromString("12.90"), Flavor: "Chocolate"},
		{ProductID: 1, Name: "Cake", Price: decimal.RequireFromString("12.90"), Flavor: "Chocolate"},
		{ProductID: 2, Name: "Pie", Price: decimal.RequireFromString("5"), Flavor: "Apple"},
	}
	checkout, err := c.CreateCheckout(context.Background(), items, decimal.RequireFromString("30.80"))
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", checkout.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", checkout.URL)
	assert.Equal(t, "30.80", checkout.Total.StringFixed(2))

	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "brl", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "1290", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "Cake (Chocolate)", form.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "2", form.Get("line_items[0][quantity]"))
	assert.Equal(t, "500", form.Get("line_items[1][price_data][unit_amount]"))
	assert.Equal(t, "1", form.Get("line_items[1][quantity]"))
	assert.Equal(t, "30.80", form.Get("metadata[cart_total]"))
}

func TestCreateCheckoutWrapsProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"Invalid currency"}}`))
	}))
	defer server.Close()

	c, err := NewStripeClient(StripeConfig{SecretKey: "sk_test_123", Backends: testBackends(server.URL)}, quietLogger())
	require.NoError(t, err)

	_, err = c.CreateCheckout(context.Background(), []domain.CartItem{{ProductID: 1, Name: "A", Price: decimal.NewFromInt(1)}}, decimal.NewFromInt(1))
	var pErr *domain.PaymentProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "stripe", pErr.Provider)

	var sErr *stripe.Error
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "Invalid currency", sErr.Msg)
}

func TestNewStripeClientRequiresKey(t *testing.T) {
	_, err := NewStripeClient(StripeConfig{}, quietLogger())
	assert.Error(t, err)
}

func TestNewStripeClientRejectsUnknownCurrency(t *testing.T) {
	_, err := NewStripeClient(StripeConfig{SecretKey: "sk_test_123", Currency: "zzz"}, quietLogger())
	assert.Error(t, err)
}
