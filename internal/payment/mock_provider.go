package payment

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"

	"paynotify/internal/domain"
)

type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	req domain.CheckoutRequest) (*stripe.CheckoutSession, error) {

	args := m.Called(ctx, req)
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) ReconcileCustomer(ctx context.Context, email, name string) (*stripe.Customer, error) {
	args := m.Called(ctx, email, name)
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

func (m *MockPaymentProvider) TagPaymentIntent(ctx context.Context, paymentIntentID, customerID string) error {
	args := m.Called(ctx, paymentIntentID, customerID)
	return args.Error(0)
}
