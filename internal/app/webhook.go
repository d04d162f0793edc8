package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"paynotify/api"
)

const maxWebhookBytes = int64(65536)

var minorUnitsPerDollar = decimal.NewFromInt(100)

// StripeWebhookHandler verifies the delivery signature over the raw
// request bytes, drops already-handled event ids, and dispatches on
// the event type. Verification must happen before any JSON parsing:
// re-serialized bytes would not match the signed payload.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.invalidPayloadResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		app.config.Stripe.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		if isSignatureError(err) {
			app.invalidSignatureResponse(w, r, err)
		} else {
			app.invalidPayloadResponse(w, r, err)
		}
		return
	}

	app.logger.Info("webhook verified",
		"eventId", event.ID,
		"type", event.Type,
		"created", event.Created,
	)

	if app.eventRepo != nil {
		seen, err := app.eventRepo.Seen(r.Context(), event.ID)
		if err != nil {
			// Fail open: a broken dedup store degrades to the
			// provider's at-least-once delivery, it must not reject
			// valid events.
			app.logError(r, err)
		} else if seen {
			app.metrics.duplicateDeliveries.Add(r.Context(), 1)
			app.logger.Info("duplicate webhook delivery ignored", "eventId", event.ID)

			app.writeJSON(w, http.StatusOK, api.WebhookAckResponse{
				Message: "Duplicate delivery ignored",
			}, nil)
			return
		}
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		app.handleCheckoutSessionCompleted(w, r, event)
	case stripe.EventTypePaymentIntentSucceeded:
		app.handlePaymentIntentSucceeded(w, r, event)
	case stripe.EventTypePaymentMethodAttached:
		app.handlePaymentMethodAttached(w, r, event)
	default:
		// Acknowledge types we don't handle. A non-2xx here would make
		// Stripe redeliver them forever.
		app.logger.Info("ignoring unhandled event type", "type", event.Type, "eventId", event.ID)

		app.writeJSON(w, http.StatusOK, api.WebhookAckResponse{
			Message: fmt.Sprintf("Unhandled event type: %s", event.Type),
		}, nil)
	}
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func (app *Application) handleCheckoutSessionCompleted(w http.ResponseWriter, r *http.Request, event stripe.Event) {
	var checkoutSession stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
		app.invalidPayloadResponse(w, r, err)
		return
	}

	amount := decimal.NewFromInt(checkoutSession.AmountTotal).Div(minorUnitsPerDollar)

	phone := checkoutSession.Metadata["phone"]
	if phone == "" {
		phone = app.config.UserPhone
	}

	app.logger.Info("checkout session completed",
		"sessionId", checkoutSession.ID,
		"amount", amount.StringFixed(2),
		"paymentStatus", checkoutSession.PaymentStatus,
		"phone", phone,
	)

	// Secondary effect: customer bookkeeping. Failures are recorded
	// and never block the notification.
	customerID := app.reconcileCustomer(r, checkoutSession)

	if _, err := app.notifier.SendPaymentConfirmation(r.Context(), amount); err != nil {
		app.metrics.notificationsFailed.Add(r.Context(), 1)
		app.notificationFailedResponse(w, r, err)
		return
	}
	app.metrics.notificationsSent.Add(r.Context(), 1)

	app.markEventHandled(r, event.ID)

	resp := api.PaymentProcessedResponse{
		Message:    "Payment processed and SMS sent",
		Amount:     amount.InexactFloat64(),
		Phone:      phone,
		SessionId:  checkoutSession.ID,
		CustomerId: customerID,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) handlePaymentIntentSucceeded(w http.ResponseWriter, r *http.Request, event stripe.Event) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		app.invalidPayloadResponse(w, r, err)
		return
	}

	amount := decimal.NewFromInt(intent.Amount).Div(minorUnitsPerDollar)

	app.logger.Info("payment intent succeeded",
		"paymentIntentId", intent.ID,
		"amount", amount.StringFixed(2),
		"status", intent.Status,
	)

	if _, err := app.notifier.SendPaymentConfirmation(r.Context(), amount); err != nil {
		app.metrics.notificationsFailed.Add(r.Context(), 1)
		app.notificationFailedResponse(w, r, err)
		return
	}
	app.metrics.notificationsSent.Add(r.Context(), 1)

	app.markEventHandled(r, event.ID)

	resp := api.PaymentProcessedResponse{
		Message:         "Payment processed and SMS sent",
		Amount:          amount.InexactFloat64(),
		PaymentIntentId: intent.ID,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) handlePaymentMethodAttached(w http.ResponseWriter, r *http.Request, event stripe.Event) {
	var paymentMethod stripe.PaymentMethod
	if err := json.Unmarshal(event.Data.Raw, &paymentMethod); err != nil {
		app.invalidPayloadResponse(w, r, err)
		return
	}

	app.logger.Info("payment method attached",
		"paymentMethodId", paymentMethod.ID,
		"type", paymentMethod.Type,
	)

	app.markEventHandled(r, event.ID)

	app.writeJSON(w, http.StatusOK, api.WebhookAckResponse{
		Message: "Payment method attached",
	}, nil)
}

// reconcileCustomer runs the best-effort customer bookkeeping for a
// completed session and returns the resolved customer id, if any.
func (app *Application) reconcileCustomer(r *http.Request, checkoutSession stripe.CheckoutSession) string {
	details := checkoutSession.CustomerDetails
	if details == nil || details.Email == "" {
		return ""
	}

	customer, err := app.paymentProvider.ReconcileCustomer(r.Context(), details.Email, details.Name)
	if err != nil {
		app.metrics.reconciliationFailures.Add(r.Context(), 1)
		app.logger.Error("customer reconciliation failed",
			"email", details.Email,
			"error", err,
		)
		return ""
	}

	if checkoutSession.PaymentIntent != nil {
		err = app.paymentProvider.TagPaymentIntent(r.Context(), checkoutSession.PaymentIntent.ID, customer.ID)
		if err != nil {
			app.metrics.reconciliationFailures.Add(r.Context(), 1)
			app.logger.Error("tagging payment intent failed",
				"paymentIntentId", checkoutSession.PaymentIntent.ID,
				"customerId", customer.ID,
				"error", err,
			)
		}
	}

	return customer.ID
}

// markEventHandled records the event id after its side effects
// succeeded, so a failed delivery stays retryable.
func (app *Application) markEventHandled(r *http.Request, eventID string) {
	if app.eventRepo == nil {
		return
	}

	if err := app.eventRepo.Mark(r.Context(), eventID); err != nil {
		app.logError(r, err)
	}
}
