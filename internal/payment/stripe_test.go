package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"paynotify/internal/domain"
)

func fixedProductRequest() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		ProductName: "Test Product",
		Amount:      decimal.NewFromInt(50),
		Currency:    "usd",
		Quantity:    1,
		Phone:       "+15550006677",
	}
}

func TestBuildSessionParams(t *testing.T) {
	provider := NewStripePaymentProvider("http://localhost:5000")

	params := provider.buildSessionParams(fixedProductRequest())

	require.Len(t, params.LineItems, 1)

	lineItem := params.LineItems[0]
	assert.Equal(t, int64(1), *lineItem.Quantity)
	assert.Equal(t, "usd", *lineItem.PriceData.Currency)
	assert.Equal(t, int64(5000), *lineItem.PriceData.UnitAmount)
	assert.Equal(t, "Test Product", *lineItem.PriceData.ProductData.Name)

	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	assert.Equal(t, "+15550006677", params.Metadata["phone"])
	assert.NotEmpty(t, *params.ClientReferenceID)
	assert.Nil(t, params.CustomerEmail)
}

func TestBuildSessionParamsRedirectUrls(t *testing.T) {
	provider := NewStripePaymentProvider("https://shop.example.com")

	params := provider.buildSessionParams(fixedProductRequest())

	assert.Equal(t,
		"https://shop.example.com/success?payment_status=completed&amount=50.00&transaction_id={CHECKOUT_SESSION_ID}",
		*params.SuccessURL)
	assert.Equal(t, "https://shop.example.com/cancel", *params.CancelURL)
}

func TestBuildSessionParamsWithCustomerEmail(t *testing.T) {
	provider := NewStripePaymentProvider("http://localhost:5000")

	req := fixedProductRequest()
	req.CustomerEmail = "buyer@example.com"
	req.Amount = decimal.RequireFromString("19.99")

	params := provider.buildSessionParams(req)

	require.Len(t, params.LineItems, 1)
	assert.Equal(t, int64(1999), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "buyer@example.com", *params.CustomerEmail)
}
