package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"paynotify/internal/domain"
)

type StripePaymentProvider struct {
	baseUrl string
}

func NewStripePaymentProvider(baseUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		baseUrl: baseUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	req domain.CheckoutRequest) (*stripe.CheckoutSession, error) {

	params := s.buildSessionParams(req)
	params.Context = ctx

	return session.New(params)
}

// buildSessionParams is split out so tests can assert the session
// shape without hitting the Stripe API.
func (s *StripePaymentProvider) buildSessionParams(req domain.CheckoutRequest) *stripe.CheckoutSessionParams {
	priceCents := req.Amount.Mul(decimal.NewFromInt(100)).IntPart()

	lineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(req.Currency),
			UnitAmount: stripe.Int64(priceCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(req.ProductName),
			},
		},
		Quantity: stripe.Int64(req.Quantity),
	}

	// Stripe substitutes {CHECKOUT_SESSION_ID} with the real session id
	// on redirect; the success page treats the raw placeholder as a
	// direct visit.
	successUrl := fmt.Sprintf(
		"%s/success?payment_status=completed&amount=%s&transaction_id={CHECKOUT_SESSION_ID}",
		s.baseUrl,
		req.Amount.StringFixed(2),
	)

	params := &stripe.CheckoutSessionParams{
		LineItems:         []*stripe.CheckoutSessionLineItemParams{lineItem},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(successUrl),
		CancelURL:         stripe.String(s.baseUrl + "/cancel"),
		ClientReferenceID: stripe.String(uuid.NewString()),
	}
	params.AddMetadata("phone", req.Phone)

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	return params
}

func (s *StripePaymentProvider) ReconcileCustomer(ctx context.Context, email, name string) (*stripe.Customer, error) {
	listParams := &stripe.CustomerListParams{
		Email: stripe.String(email),
	}
	listParams.Context = ctx
	listParams.Limit = stripe.Int64(1)

	iter := customer.List(listParams)
	if iter.Next() {
		existing := iter.Customer()

		if name != "" && existing.Name != name {
			updateParams := &stripe.CustomerParams{
				Name: stripe.String(name),
			}
			updateParams.Context = ctx

			return customer.Update(existing.ID, updateParams)
		}

		return existing, nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	createParams := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	createParams.Context = ctx

	return customer.New(createParams)
}

func (s *StripePaymentProvider) TagPaymentIntent(ctx context.Context, paymentIntentID, customerID string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddMetadata("customer_id", customerID)

	_, err := paymentintent.Update(paymentIntentID, params)

	return err
}
