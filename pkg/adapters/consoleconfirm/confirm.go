// Package consoleconfirm asks the operator on a terminal whether a payment
// went through.
package consoleconfirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ideamans/go-l10n"

	"github.com/user/maskpaint/pkg/ports"
)

// ErrDeclined is returned when the operator answers anything but yes.
var ErrDeclined = fmt.Errorf("consoleconfirm: %w", ports.ErrPaymentNotCompleted)

// Confirmer implements ports.PaymentConfirmer by prompting on out and
// reading one line from in.
type Confirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Confirmer.
func New(in io.Reader, out io.Writer) *Confirmer {
	return &Confirmer{in: bufio.NewReader(in), out: out}
}

// AwaitConfirmation prints the client secret for the payment widget and
// waits for "y" or "yes".
func (c *Confirmer) AwaitConfirmation(ctx context.Context, intent ports.PaymentIntent) error {
	fmt.Fprintln(c.out, l10n.F("Payment intent %s is waiting (client secret %s).", intent.ID, intent.ClientSecret))
	fmt.Fprint(c.out, l10n.T("Has the payment completed? [y/N]: "))

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := c.in.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case a := <-ch:
		if a.err != nil && !(errors.Is(a.err, io.EOF) && a.line != "") {
			return fmt.Errorf("consoleconfirm: read answer: %w", a.err)
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return nil
		}
		return ErrDeclined
	}
}

var _ ports.PaymentConfirmer = (*Confirmer)(nil)
