package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/maskpaint/pkg/ports"
)

// PaymentGateway is a mock implementation of ports.PaymentGateway.
type PaymentGateway struct {
	mu      sync.RWMutex
	amounts []int64

	CreateIntentFunc func(ctx context.Context, amount int64) (ports.PaymentIntent, error)
}

func (m *PaymentGateway) CreateIntent(ctx context.Context, amount int64) (ports.PaymentIntent, error) {
	m.mu.Lock()
	m.amounts = append(m.amounts, amount)
	n := len(m.amounts)
	m.mu.Unlock()

	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, amount)
	}
	return ports.PaymentIntent{
		ID:           fmt.Sprintf("pi_%d", n),
		ClientSecret: fmt.Sprintf("pi_%d_secret", n),
		Amount:       amount,
	}, nil
}

// Amounts returns the amount of every intent requested.
func (m *PaymentGateway) Amounts() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int64(nil), m.amounts...)
}

var _ ports.PaymentGateway = (*PaymentGateway)(nil)

// PaymentConfirmer is a mock implementation of ports.PaymentConfirmer.
// Without AwaitConfirmationFunc every intent succeeds.
type PaymentConfirmer struct {
	mu      sync.RWMutex
	intents []ports.PaymentIntent

	AwaitConfirmationFunc func(ctx context.Context, intent ports.PaymentIntent) error
}

func (m *PaymentConfirmer) AwaitConfirmation(ctx context.Context, intent ports.PaymentIntent) error {
	m.mu.Lock()
	m.intents = append(m.intents, intent)
	m.mu.Unlock()

	if m.AwaitConfirmationFunc != nil {
		return m.AwaitConfirmationFunc(ctx, intent)
	}
	return nil
}

// Intents returns the intents passed to AwaitConfirmation.
func (m *PaymentConfirmer) Intents() []ports.PaymentIntent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ports.PaymentIntent(nil), m.intents...)
}

var _ ports.PaymentConfirmer = (*PaymentConfirmer)(nil)
