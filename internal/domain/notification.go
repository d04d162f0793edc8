package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// NotificationRequest describes a single SMS confirmation. The
// destination is fixed per deployment; it is not derived from the
// inbound request.
type NotificationRequest struct {
	Amount decimal.Decimal
	To     string
}

// NotificationResult reports what the messaging provider accepted.
type NotificationResult struct {
	MessageSID string
	Status     string
}

// Notifier sends a payment confirmation for the given amount to the
// deployment's destination number. A provider-level message error
// (accepted API call, undelivered message) and a transport error both
// surface as a non-nil error wrapping ErrNotificationFailed.
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, amount decimal.Decimal) (*NotificationResult, error)
}
