package app

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"paynotify/api"
	"paynotify/internal/domain"
)

// The deployment sells a single fixed product.
var fixedProductAmount = decimal.NewFromInt(50)

func (app *Application) fixedProductRequest() domain.CheckoutRequest {
	return domain.CheckoutRequest{
		ProductName: "Test Product",
		Amount:      fixedProductAmount,
		Currency:    "usd",
		Quantity:    1,
		Phone:       app.config.UserPhone,
	}
}

// CreateCheckoutSessionHandler creates the fixed-product checkout
// session and returns its id for client-side redirection.
func (app *Application) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(r.Context(), app.fixedProductRequest())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.CheckoutSessionResponse{
		Id: checkoutSession.ID,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// RedirectCheckoutHandler creates the same session but answers with a
// 303 straight to the Stripe-hosted page, for plain form posts.
func (app *Application) RedirectCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(r.Context(), app.fixedProductRequest())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	http.Redirect(w, r, checkoutSession.URL, http.StatusSeeOther)
}

// SubmitCheckoutFormHandler validates the payment form and creates a
// checkout session for the submitted amount.
func (app *Application) SubmitCheckoutFormHandler(w http.ResponseWriter, r *http.Request) {
	form, err := app.readPaymentForm(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.validator.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			app.failedValidationResponse(w, r, validationErrors)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	req := app.fixedProductRequest()
	req.Amount = decimal.NewFromFloat(form.Amount)
	req.CustomerEmail = form.Email

	checkoutSession, err := app.paymentProvider.CreateCheckoutSession(r.Context(), req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	http.Redirect(w, r, checkoutSession.URL, http.StatusSeeOther)
}
