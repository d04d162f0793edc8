package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"

	"paynotify/api"
	"paynotify/internal/domain"
	"paynotify/internal/payment"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

type CheckoutTestSuite struct {
	suite.Suite
	app             *Application
	paymentProvider *payment.MockPaymentProvider
}

func (s *CheckoutTestSuite) SetupTest() {
	s.paymentProvider = new(payment.MockPaymentProvider)

	s.app = newTestApplication(func(a *Application) {
		a.paymentProvider = s.paymentProvider
	})
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutTestSuite))
}

func (s *CheckoutTestSuite) hostedSession() *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.com/c/pay/cs_test_123",
	}
}

func (s *CheckoutTestSuite) TestCreateCheckoutSessionReturnsSessionId() {
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(s.hostedSession(), nil).Once()

	r := httptest.NewRequest(http.MethodPost, "/pay", nil)
	w := httptest.NewRecorder()
	s.app.CreateCheckoutSessionHandler(w, r)

	s.Equal(http.StatusOK, w.Code)

	var resp api.CheckoutSessionResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("cs_test_123", resp.Id)
}

func (s *CheckoutTestSuite) TestCreateCheckoutSessionUsesFixedProduct() {
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(s.hostedSession(), nil).Once()

	r := httptest.NewRequest(http.MethodPost, "/pay", nil)
	w := httptest.NewRecorder()
	s.app.CreateCheckoutSessionHandler(w, r)

	s.Require().Len(s.paymentProvider.Calls, 1)
	got := s.paymentProvider.Calls[0].Arguments.Get(1).(domain.CheckoutRequest)

	want := domain.CheckoutRequest{
		ProductName: "Test Product",
		Amount:      decimal.NewFromInt(50),
		Currency:    "usd",
		Quantity:    1,
		Phone:       "+15550006677",
	}

	if diff := cmp.Diff(want, got, decimalComparer); diff != "" {
		s.T().Errorf("checkout request mismatch (-want +got):\n%s", diff)
	}
}

func (s *CheckoutTestSuite) TestCreateCheckoutSessionProviderError() {
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return((*stripe.CheckoutSession)(nil), fmt.Errorf("No such price: 'price_123'")).Once()

	r := httptest.NewRequest(http.MethodPost, "/pay", nil)
	w := httptest.NewRecorder()
	s.app.CreateCheckoutSessionHandler(w, r)

	s.Equal(http.StatusBadRequest, w.Code)

	var resp api.ErrorResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("No such price: 'price_123'", resp.Message)
}

func (s *CheckoutTestSuite) TestRedirectCheckoutHandler() {
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(s.hostedSession(), nil).Once()

	r := httptest.NewRequest(http.MethodPost, "/create-checkout-session", nil)
	w := httptest.NewRecorder()
	s.app.RedirectCheckoutHandler(w, r)

	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal("https://checkout.stripe.com/c/pay/cs_test_123", w.Header().Get("Location"))
}

func (s *CheckoutTestSuite) postCheckoutForm(values url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	s.app.SubmitCheckoutFormHandler(w, r)

	return w
}

func (s *CheckoutTestSuite) TestSubmitCheckoutFormCreatesSessionForAmount() {
	s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(s.hostedSession(), nil).Once()

	w := s.postCheckoutForm(url.Values{
		"email":  {"buyer@example.com"},
		"name":   {"Test User"},
		"amount": {"19.99"},
	})

	s.Equal(http.StatusSeeOther, w.Code)

	s.Require().Len(s.paymentProvider.Calls, 1)
	got := s.paymentProvider.Calls[0].Arguments.Get(1).(domain.CheckoutRequest)
	s.Equal("buyer@example.com", got.CustomerEmail)
	s.Equal("19.99", got.Amount.StringFixed(2))
}

func (s *CheckoutTestSuite) TestSubmitCheckoutFormValidation() {
	tests := []struct {
		name      string
		values    url.Values
		wantIssue string
	}{
		{
			name:      "missing email",
			values:    url.Values{"name": {"Test User"}, "amount": {"50.00"}},
			wantIssue: "Email is required",
		},
		{
			name:      "malformed email",
			values:    url.Values{"email": {"invalid-email"}, "name": {"Test User"}, "amount": {"50.00"}},
			wantIssue: "Invalid email address",
		},
		{
			name:      "missing name",
			values:    url.Values{"email": {"buyer@example.com"}, "amount": {"50.00"}},
			wantIssue: "Name is required",
		},
		{
			name:      "missing amount",
			values:    url.Values{"email": {"buyer@example.com"}, "name": {"Test User"}},
			wantIssue: "Amount is required",
		},
		{
			name:      "negative amount",
			values:    url.Values{"email": {"buyer@example.com"}, "name": {"Test User"}, "amount": {"-5"}},
			wantIssue: "Amount must be greater than 0",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.postCheckoutForm(tt.values)

			s.Equal(http.StatusUnprocessableEntity, w.Code)

			var resp api.ValidationErrorResponse
			s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

			issues := make(map[string]bool)
			for _, validationErr := range resp.ValidationErrors {
				issues[validationErr.Issue] = true
			}

			s.True(issues[tt.wantIssue], "expected issue %q, got %v", tt.wantIssue, resp.ValidationErrors)
		})
	}

	s.paymentProvider.AssertNotCalled(s.T(), "CreateCheckoutSession", mock.Anything, mock.Anything)
}
