package ports

import (
	"context"
	"errors"
)

var (
	// ErrPaymentCanceled reports an intent canceled before it succeeded.
	ErrPaymentCanceled = errors.New("payment canceled")
	// ErrPaymentNotCompleted reports a confirmation that ended without a successful charge.
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

// PaymentIntent is the processor-side record of a pending charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64
}

// PaymentStatus is the processor-reported state of an intent.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentGateway creates payment intents for a fixed amount in minor currency units.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64) (PaymentIntent, error)
}

// PaymentConfirmer blocks until the card widget reports the outcome of an intent.
// A nil return means the payment succeeded; the error message is shown to the user otherwise.
type PaymentConfirmer interface {
	AwaitConfirmation(ctx context.Context, intent PaymentIntent) error
}
