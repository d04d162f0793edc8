package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
)

// CheckoutRequest carries everything the provider needs to build a
// hosted checkout session. Phone travels in the session metadata so
// the webhook handler can recover it without a database.
type CheckoutRequest struct {
	ProductName   string
	Amount        decimal.Decimal
	Currency      string
	Quantity      int64
	CustomerEmail string
	Phone         string
}

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*stripe.CheckoutSession, error)

	// ReconcileCustomer looks a customer up by email, creates one when
	// absent and updates the name on mismatch. Best effort: callers
	// must not fail the primary path on its error.
	ReconcileCustomer(ctx context.Context, email, name string) (*stripe.Customer, error)

	// TagPaymentIntent attaches the resolved customer id to the payment
	// intent's metadata. Best effort, same as ReconcileCustomer.
	TagPaymentIntent(ctx context.Context, paymentIntentID, customerID string) error
}
