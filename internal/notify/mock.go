package notify

import (
	"context"
	"sync"

	"fjacquet/recurpay/internal/models"
)

// MockSender is a mock implementation of Sender for testing. It is safe
// for concurrent use because the dispatcher sends from multiple
// goroutines.
type MockSender struct {
	mu   sync.Mutex
	Sent []models.Alert

	// Err fails every send. FailFor fails only the named payment IDs.
	Err     error
	FailFor map[string]error
}

// Send records the alert or returns the configured error.
func (m *MockSender) Send(ctx context.Context, alert models.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if err, ok := m.FailFor[alert.PaymentID]; ok {
		return err
	}
	m.Sent = append(m.Sent, alert)
	return nil
}

// SentCount returns how many alerts were delivered.
func (m *MockSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
