package app

import (
	"context"
	"io"
	"log/slog"
	"sync"

	appvalidator "paynotify/internal/validator"
)

const testWebhookSecret = "whsec_test_secret"

func newTestApplication(opts ...func(*Application)) *Application {
	metrics, err := newMetrics()
	if err != nil {
		panic(err)
	}

	app := &Application{
		config: Config{
			Port:    5000,
			Env:     "test",
			BaseUrl: "http://localhost:5000",
			Stripe: StripeConfig{
				SecretKey:     "sk_test_123",
				PublicKey:     "pk_test_123",
				WebhookSecret: testWebhookSecret,
			},
			Twilio: TwilioConfig{
				AccountSID: "AC_test_123",
				AuthToken:  "token_test_123",
				FromNumber: "+15550001111",
			},
			UserPhone: "+15550006677",
		},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator: appvalidator.NewValidator(),
		metrics:   metrics,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// memoryEventRepo is an in-process stand-in for the Redis dedup store.
type memoryEventRepo struct {
	mu      sync.Mutex
	seen    map[string]bool
	seenErr error
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{
		seen: make(map[string]bool),
	}
}

func (m *memoryEventRepo) Seen(ctx context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seenErr != nil {
		return false, m.seenErr
	}

	return m.seen[eventID], nil
}

func (m *memoryEventRepo) Mark(ctx context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen[eventID] = true

	return nil
}
