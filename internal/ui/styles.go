// Package ui holds the terminal styles shared by the markservo commands.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888899"))

	Value = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00ccff")).
		Bold(true)

	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#444466"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	// marker state
	Found   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	Held    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	Missing = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

// KV renders a "label: value" line.
func KV(label string, value any) string {
	return Label.Render(label+":") + " " + Value.Render(fmt.Sprint(value))
}

// Status renders the per-frame marker state.
func Status(found, held bool) string {
	switch {
	case found:
		return Found.Render("found")
	case held:
		return Held.Render("held")
	default:
		return Missing.Render("missing")
	}
}

// Ratio renders a 0..1 fraction as a bar, green when high and red when low.
func Ratio(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case frac > 0.8:
		return Found.Render(bar)
	case frac > 0.4:
		return Held.Render(bar)
	}
	return Missing.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Spark draws values as a one-line sparkline at most width runes wide.
func Spark(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)

	var sb strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		sb.WriteRune(sparkChars[idx])
	}
	return Value.Render(sb.String())
}

func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}
