package notifier

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"paynotify/internal/domain"
)

// MockNotifier records every confirmation that would have been sent.
type MockNotifier struct {
	mu    sync.RWMutex
	sends []decimal.Decimal

	// Err, when set, is returned by every send.
	Err error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		sends: make([]decimal.Decimal, 0),
	}
}

func (m *MockNotifier) SendPaymentConfirmation(ctx context.Context, amount decimal.Decimal) (*domain.NotificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.sends = append(m.sends, amount)

	return &domain.NotificationResult{
		MessageSID: "SM-mock",
		Status:     "queued",
	}, nil
}

// SentAmounts returns a copy of the recorded send amounts.
func (m *MockNotifier) SentAmounts() []decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sends := make([]decimal.Decimal, len(m.sends))
	copy(sends, m.sends)
	return sends
}

// Reset clears the record of sent confirmations.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sends = make([]decimal.Decimal, 0)
}
