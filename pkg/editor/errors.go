package editor

import (
	"errors"
	"fmt"

	"github.com/user/maskpaint/pkg/ports"
	"github.com/user/maskpaint/pkg/submission"
)

// Kind classifies an error shown in the banner.
type Kind int

const (
	KindInputValidation Kind = iota + 1
	KindDecode
	KindUpload
	KindPayment
	KindInference
)

func (k Kind) String() string {
	switch k {
	case KindInputValidation:
		return "input validation"
	case KindDecode:
		return "decode"
	case KindUpload:
		return "upload"
	case KindPayment:
		return "payment"
	case KindInference:
		return "inference"
	default:
		return "unknown"
	}
}

var (
	// ErrTooLarge is returned when an upload exceeds the byte limit.
	ErrTooLarge = errors.New("editor: image exceeds the upload size limit")
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("editor: no image loaded")
	// ErrSuperseded is returned when a newer image replaced the session while a
	// network call was in flight. The outcome of that call is discarded.
	ErrSuperseded = errors.New("editor: superseded by a newer image")
	// ErrNotAwaitingPayment is returned by ConfirmPayment outside AwaitingPayment.
	ErrNotAwaitingPayment = errors.New("editor: no payment is pending")
)

// Banner texts.
const (
	msgTooLarge        = "Image size should be less than 10MB"
	msgDecode          = "Error reading file"
	msgMissingInput    = "Please provide an image, mask, and prompt."
	msgPromptNotListed = "Please choose one of the suggested prompts."
	msgUpload          = "Failed to upload to Cloudflare"
	msgPayment         = "Payment failed. Please try again."
	msgPaymentCanceled = "Payment was canceled."
	msgPaymentDeclined = "Payment was not completed."
	msgInference       = "Failed to process image. Please try again."
	msgNoOutput        = "No output received from the server"
)

// Error is a user-facing failure. Message is the banner text; Err keeps the
// underlying cause for errors.Is and logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify maps a submission failure onto a banner error.
func classify(err error) *Error {
	switch {
	case errors.Is(err, submission.ErrMissingInput):
		return &Error{Kind: KindInputValidation, Message: msgMissingInput, Err: err}
	case errors.Is(err, submission.ErrPromptNotAllowed):
		return &Error{Kind: KindInputValidation, Message: msgPromptNotListed, Err: err}
	case errors.Is(err, submission.ErrUpload):
		return &Error{Kind: KindUpload, Message: causeMessage(err, msgUpload), Err: err}
	case errors.Is(err, ports.ErrPaymentCanceled):
		return &Error{Kind: KindPayment, Message: msgPaymentCanceled, Err: err}
	case errors.Is(err, ports.ErrPaymentNotCompleted):
		return &Error{Kind: KindPayment, Message: msgPaymentDeclined, Err: err}
	case errors.Is(err, submission.ErrPayment):
		return &Error{Kind: KindPayment, Message: causeMessage(err, msgPayment), Err: err}
	case errors.Is(err, submission.ErrInvalidResponse):
		return &Error{Kind: KindInference, Message: msgNoOutput, Err: err}
	default:
		return &Error{Kind: KindInference, Message: causeMessage(err, msgInference), Err: err}
	}
}

// causeMessage returns the text of the innermost wrapped error, or fallback
// when the chain ends in one of our own sentinels.
func causeMessage(err error, fallback string) string {
	for {
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			errs := u.Unwrap()
			if len(errs) == 0 {
				return fallback
			}
			err = errs[len(errs)-1]
		case interface{ Unwrap() error }:
			next := u.Unwrap()
			if next == nil {
				return err.Error()
			}
			err = next
		default:
			if err == nil || isStep(err) {
				return fallback
			}
			return err.Error()
		}
	}
}

func isStep(err error) bool {
	switch err {
	case submission.ErrUpload, submission.ErrPayment, submission.ErrInference:
		return true
	}
	return false
}
