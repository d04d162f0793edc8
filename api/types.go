// Package api defines the request and response types of the HTTP surface.
package api

import "time"

// ErrorResponse is the JSON envelope for all error responses.
type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

// ValidationError describes a single failed validation rule.
type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationErrorResponse is returned when request validation fails.
type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

// CheckoutSessionResponse carries the identifier of a newly created
// Stripe checkout session.
type CheckoutSessionResponse struct {
	Id string `json:"id"`
}

// PaymentForm is the payment details form accepted by POST /checkout.
type PaymentForm struct {
	Email  string  `json:"email" validate:"required,email"`
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// WebhookAckResponse acknowledges a webhook delivery that required no
// side effects (duplicate deliveries, ignored event types).
type WebhookAckResponse struct {
	Message string `json:"message"`
}

// PaymentProcessedResponse confirms that a payment event was handled
// and the SMS notification went out. Field names follow the webhook
// wire contract, not the rest of the API.
type PaymentProcessedResponse struct {
	Message         string  `json:"message"`
	Amount          float64 `json:"amount"`
	Phone           string  `json:"phone,omitempty"`
	SessionId       string  `json:"session_id,omitempty"`
	PaymentIntentId string  `json:"payment_intent_id,omitempty"`
	CustomerId      string  `json:"customer_id,omitempty"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
