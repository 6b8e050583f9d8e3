package consoleconfirm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/user/maskpaint/pkg/ports"
)

func TestAwaitConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"y\n", nil},
		{"YES\n", nil},
		{"  yes  \n", nil},
		{"yes", nil},
		{"n\n", ErrDeclined},
		{"\n", ErrDeclined},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		c := New(strings.NewReader(tt.input), &out)

		err := c.AwaitConfirmation(context.Background(), ports.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"})
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: AwaitConfirmation() = %v, want %v", tt.input, err, tt.want)
		}
		if !strings.Contains(out.String(), "pi_1_secret") {
			t.Errorf("%q: prompt %q lacks the client secret", tt.input, out.String())
		}
	}
}

func TestErrDeclined_IsPaymentNotCompleted(t *testing.T) {
	if !errors.Is(ErrDeclined, ports.ErrPaymentNotCompleted) {
		t.Error("ErrDeclined does not wrap ports.ErrPaymentNotCompleted")
	}
	if got := ErrDeclined.Error(); got != "consoleconfirm: payment not completed" {
		t.Errorf("ErrDeclined = %q", got)
	}
}

func TestAwaitConfirmation_EmptyInput(t *testing.T) {
	c := New(strings.NewReader(""), io.Discard)
	if err := c.AwaitConfirmation(context.Background(), ports.PaymentIntent{}); err == nil || errors.Is(err, ErrDeclined) {
		t.Errorf("AwaitConfirmation() = %v, want read error", err)
	}
}

func TestAwaitConfirmation_ContextDone(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := New(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := c.AwaitConfirmation(ctx, ports.PaymentIntent{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("AwaitConfirmation() = %v", err)
	}
}
