// Package session implements the editor's user-visible state machine.
package session

import (
	"errors"
	"fmt"
)

// State is the user-visible phase of an editing session.
type State int

const (
	NoImage State = iota
	Editing
	AwaitingPayment
	Paid
	Processing
	Result
	Error
)

func (s State) String() string {
	switch s {
	case NoImage:
		return "no-image"
	case Editing:
		return "editing"
	case AwaitingPayment:
		return "awaiting-payment"
	case Paid:
		return "paid"
	case Processing:
		return "processing"
	case Result:
		return "result"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when an event does not apply to the current state.
var ErrInvalidTransition = errors.New("session: invalid transition")

// Machine holds the session state. The "already paid" flag lives here rather
// than in ambient globals so it can survive Reset. Machine is not safe for
// concurrent use; the editor serialises access.
type Machine struct {
	state           State
	hasPaid         bool
	paymentRequired bool
	submitting      bool
	epoch           uint64
}

// New returns a machine in NoImage. When paymentRequired is false the payment
// states are never entered.
func New(paymentRequired bool) *Machine {
	return &Machine{paymentRequired: paymentRequired}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// HasPaid reports whether payment was confirmed earlier in this session.
func (m *Machine) HasPaid() bool { return m.hasPaid }

// Epoch identifies the current image session. It changes on every Reset, so
// work started under an older epoch can detect that it is stale.
func (m *Machine) Epoch() uint64 { return m.epoch }

// Submitting reports whether a submission is between its start and the next
// state change.
func (m *Machine) Submitting() bool { return m.submitting }

// NeedsPayment reports whether the next submission must go through the payment gate.
func (m *Machine) NeedsPayment() bool {
	return m.paymentRequired && !m.hasPaid
}

// Reset starts over for a new upload. Everything except the paid flag is dropped.
func (m *Machine) Reset() {
	m.state = NoImage
	m.submitting = false
	m.epoch++
}

// MarkPaid records a confirmed payment without changing state. It is used
// when the confirmation arrives after the image it was taken for was replaced.
func (m *Machine) MarkPaid() {
	m.hasPaid = true
}

// ImageLoaded moves NoImage to Editing.
func (m *Machine) ImageLoaded() error {
	return m.transition(Editing, NoImage)
}

// CanDraw reports whether pointer input may paint the mask.
func (m *Machine) CanDraw() bool {
	if m.submitting {
		return false
	}
	switch m.state {
	case Editing, Result, Error:
		return true
	}
	return false
}

// MaskCleared returns to Editing after the mask is reset.
func (m *Machine) MaskCleared() error {
	if m.submitting {
		return fmt.Errorf("%w: clear while submitting", ErrInvalidTransition)
	}
	return m.transition(Editing, Editing, Result, Error)
}

// BeginSubmit marks the start of a submission attempt. A retry from Error or a
// resubmit from Result re-enters Editing first.
func (m *Machine) BeginSubmit() error {
	if m.submitting {
		return fmt.Errorf("%w: submission already in progress", ErrInvalidTransition)
	}
	if err := m.transition(Editing, Editing, Result, Error); err != nil {
		return err
	}
	m.submitting = true
	return nil
}

// AbortSubmit ends a submission that failed validation without side effects.
func (m *Machine) AbortSubmit() {
	m.submitting = false
}

// AwaitPayment moves Editing to AwaitingPayment once assets are uploaded.
func (m *Machine) AwaitPayment() error {
	if !m.NeedsPayment() {
		return fmt.Errorf("%w: payment not required", ErrInvalidTransition)
	}
	if err := m.transition(AwaitingPayment, Editing); err != nil {
		return err
	}
	m.submitting = false
	return nil
}

// PaymentConfirmed records the payment and moves AwaitingPayment to Paid.
func (m *Machine) PaymentConfirmed() error {
	if err := m.transition(Paid, AwaitingPayment); err != nil {
		return err
	}
	m.hasPaid = true
	return nil
}

// StartProcessing enters Processing from Paid, or from Editing when no payment
// is needed.
func (m *Machine) StartProcessing() error {
	if m.state == Editing && m.NeedsPayment() {
		return fmt.Errorf("%w: payment required", ErrInvalidTransition)
	}
	if err := m.transition(Processing, Paid, Editing); err != nil {
		return err
	}
	m.submitting = false
	return nil
}

// Succeeded moves Processing to Result.
func (m *Machine) Succeeded() error {
	return m.transition(Result, Processing)
}

// Fail moves any in-flight state to Error.
func (m *Machine) Fail() error {
	if m.state == Editing && !m.submitting {
		return fmt.Errorf("%w: nothing in flight", ErrInvalidTransition)
	}
	if err := m.transition(Error, Editing, AwaitingPayment, Paid, Processing); err != nil {
		return err
	}
	m.submitting = false
	return nil
}

// Dismiss leaves Error for Editing.
func (m *Machine) Dismiss() error {
	return m.transition(Editing, Error)
}

func (m *Machine) transition(to State, from ...State) error {
	for _, s := range from {
		if m.state == s {
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
}
