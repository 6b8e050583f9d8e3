// Package stripepay creates and watches Stripe PaymentIntents.
package stripepay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"

	"github.com/user/maskpaint/pkg/ports"
)

var (
	// ErrNotConfigured is returned when no secret key is set.
	ErrNotConfigured = errors.New("stripepay: secret key is required")
	// ErrCanceled is returned when the intent was canceled before succeeding.
	ErrCanceled = fmt.Errorf("stripepay: %w", ports.ErrPaymentCanceled)
)

// IntentAPI is the subset of the PaymentIntents API used here.
// paymentintent.Client satisfies it.
type IntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewIntentAPI returns the live PaymentIntents client for secretKey.
func NewIntentAPI(secretKey string) IntentAPI {
	return paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey}
}

// Config controls intent creation and status polling.
type Config struct {
	SecretKey    string
	Currency     string
	PollInterval time.Duration
}

// Gateway implements ports.PaymentGateway and ports.PaymentConfirmer.
type Gateway struct {
	api    IntentAPI
	config Config
	logger ports.Logger
}

// New creates a Gateway on api. A nil api builds the live client from the
// secret key.
func New(api IntentAPI, config Config, logger ports.Logger) (*Gateway, error) {
	if api == nil {
		if config.SecretKey == "" {
			return nil, ErrNotConfigured
		}
		api = NewIntentAPI(config.SecretKey)
	}
	if config.Currency == "" {
		config.Currency = string(stripe.CurrencyUSD)
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 2 * time.Second
	}
	return &Gateway{api: api, config: config, logger: logger}, nil
}

// CreateIntent creates an intent for amount minor units with automatic
// payment methods enabled.
func (g *Gateway) CreateIntent(ctx context.Context, amount int64) (ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(g.config.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := g.api.New(params)
	if err != nil {
		g.logger.Error("Stripe rejected payment intent: %s", err)
		return ports.PaymentIntent{}, fmt.Errorf("stripepay: create intent: %w", err)
	}
	g.logger.Info("Payment intent %s created for %d %s", pi.ID, amount, g.config.Currency)
	return ports.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret, Amount: pi.Amount}, nil
}

// AwaitConfirmation polls the intent until it succeeds, fails or ctx ends.
func (g *Gateway) AwaitConfirmation(ctx context.Context, intent ports.PaymentIntent) error {
	ticker := time.NewTicker(g.config.PollInterval)
	defer ticker.Stop()

	for {
		pi, err := g.fetch(ctx, intent.ID)
		if err != nil {
			return err
		}
		status, failure := classify(pi)
		switch status {
		case ports.PaymentSucceeded:
			return nil
		case ports.PaymentFailed:
			return failure
		}
		g.logger.Debug("Payment %s is %s", intent.ID, pi.Status)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (g *Gateway) fetch(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripepay: get intent %s: %w", id, err)
	}
	return pi, nil
}

// classify maps a Stripe intent onto the three states the editor cares
// about. A requires_payment_method intent with a last error is a declined
// attempt.
func classify(pi *stripe.PaymentIntent) (ports.PaymentStatus, error) {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return ports.PaymentSucceeded, nil
	case stripe.PaymentIntentStatusCanceled:
		return ports.PaymentFailed, ErrCanceled
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
			return ports.PaymentFailed, errors.New(pi.LastPaymentError.Msg)
		}
	}
	return ports.PaymentPending, nil
}

var (
	_ ports.PaymentGateway   = (*Gateway)(nil)
	_ ports.PaymentConfirmer = (*Gateway)(nil)
)
