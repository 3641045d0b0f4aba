package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Subtle lipgloss.Style
	Good   lipgloss.Style
	Warn   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text),
		Label: lipgloss.NewStyle().
			Foreground(t.Muted),
		Value: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		Subtle: lipgloss.NewStyle().
			Foreground(t.Muted),
		Good: lipgloss.NewStyle().
			Foreground(t.Success),
		Warn: lipgloss.NewStyle().
			Foreground(t.Warning),
	}
}

// SparklineChart renders values as a one-line bar strip of the given width.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		b.WriteRune(chars[idx])
	}
	return b.String()
}

func Separator(width int) string {
	return strings.Repeat("─", width)
}
