package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Inpainting Summary\n\n")
	fmt.Fprintf(&b, "Generated at %s\n\n", s.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Image\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	row(&b, "File", orNA(s.Source.Path))
	row(&b, "Format", orNA(s.Source.Format))
	row(&b, "Original size", fmt.Sprintf("%dx%d", s.Source.Width, s.Source.Height))
	row(&b, "File size", formatBytes(s.Source.Size))
	row(&b, "Canvas", fmt.Sprintf("%dx%d", s.Source.CanvasWidth, s.Source.CanvasHeight))
	b.WriteString("\n")

	b.WriteString("## Mask\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	row(&b, "Strokes", fmt.Sprintf("%d", s.Mask.Strokes))
	row(&b, "Brush", fmt.Sprintf("%.0f px", s.Mask.BrushSize))
	row(&b, "Polarity", orNA(s.Mask.Polarity))
	b.WriteString("\n")

	b.WriteString("## Submission\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	row(&b, "Prompt", orNA(s.Prompt))
	row(&b, "Transport", orNA(s.Submission.Transport))
	row(&b, "Image URL", orNA(s.Submission.ImageURL))
	row(&b, "Mask URL", orNA(s.Submission.MaskURL))
	if s.Submission.PaymentIntent != "" {
		row(&b, "Payment intent", s.Submission.PaymentIntent)
		row(&b, "Amount", formatAmount(s.Submission.Amount, s.Submission.Currency))
	} else {
		row(&b, "Payment intent", "not required")
	}
	row(&b, "Steps", fmt.Sprintf("%d", s.Submission.Steps))
	row(&b, "Model", orNA(s.Submission.ModelVersion))
	b.WriteString("\n")

	b.WriteString("## Outcome\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	row(&b, "State", orNA(s.Outcome.State))
	if s.Outcome.OutputURL != "" {
		row(&b, "Output", s.Outcome.OutputURL)
	}
	if s.Outcome.Error != "" {
		row(&b, "Error", s.Outcome.Error)
	}
	row(&b, "Duration", s.Outcome.Duration.Round(time.Millisecond).String())

	return b.String()
}

func row(b *strings.Builder, item, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", item, strings.ReplaceAll(value, "|", `\|`))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatBytes renders n with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.2f KB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(unit*unit))
	}
}

// formatAmount renders minor currency units, e.g. 500 usd as "5.00 USD".
func formatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", amount/100, amount%100, strings.ToUpper(currency))
}

var _ Formatter = (*MarkdownFormatter)(nil)
