// Package notifier sends payment confirmations over SMS.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"paynotify/internal/domain"
)

type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	to     string
	logger *slog.Logger
}

// NewTwilioNotifier fails fast when any credential is absent, so a
// misconfigured deployment dies at startup instead of at the first
// webhook delivery.
func NewTwilioNotifier(accountSID, authToken, from, to string, logger *slog.Logger) (*TwilioNotifier, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, domain.ErrMissingCredentials
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioNotifier{
		client: client,
		from:   from,
		to:     to,
		logger: logger,
	}, nil
}

func (t *TwilioNotifier) SendPaymentConfirmation(ctx context.Context, amount decimal.Decimal) (*domain.NotificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := domain.NotificationRequest{
		To:     t.to,
		Amount: amount,
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(req.To)
	params.SetFrom(t.from)
	params.SetBody(ConfirmationMessage(req.Amount))

	msg, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotificationFailed, err)
	}

	// The API can accept a message and still report it undeliverable
	// through a message-level error code.
	if msg.ErrorCode != nil && *msg.ErrorCode != 0 {
		t.logger.Error("twilio accepted the message but reported an error",
			"errorCode", *msg.ErrorCode,
			"errorMessage", stringValue(msg.ErrorMessage),
		)

		return nil, fmt.Errorf("%w: message error code %d", domain.ErrNotificationFailed, *msg.ErrorCode)
	}

	result := &domain.NotificationResult{
		MessageSID: stringValue(msg.Sid),
		Status:     stringValue(msg.Status),
	}

	t.logger.Info("sms confirmation sent",
		"messageSid", result.MessageSID,
		"status", result.Status,
		"to", t.to,
	)

	return result, nil
}

// ConfirmationMessage is the fixed SMS body template, with the amount
// rendered to exactly two decimals.
func ConfirmationMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("Payment of $%s Successful! Thank you for your purchase.", amount.StringFixed(2))
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
