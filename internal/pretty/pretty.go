// Package pretty renders a human-readable run summary for the terminal.
package pretty

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"meclust/internal/scan"
)

// Options control the summary rendering.
type Options struct {
	RunID   string
	Output  string // destination shown on the last line
	Verbose bool   // break down drops and rejections by reason
}

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: r.NewStyle().Width(10),
		value: r.NewStyle().Bold(true),
		dim:   r.NewStyle().Faint(true),
	}
}

// breakdown renders "a=1, b=2" in key order.
func breakdown(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func total(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// RenderSummary writes the run summary block to w.
func RenderSummary(w io.Writer, st scan.Stats, o Options) error {
	s := newStyles(w)
	var b strings.Builder

	title := "meclust run"
	if o.RunID != "" {
		title += " " + o.RunID
	}
	b.WriteString(s.title.Render(title))
	b.WriteByte('\n')

	row := func(label string, n int, detail map[string]int) {
		b.WriteString("  ")
		b.WriteString(s.label.Render(label))
		b.WriteString(s.value.Render(fmt.Sprint(n)))
		if o.Verbose && n > 0 && detail != nil {
			b.WriteString(" ")
			b.WriteString(s.dim.Render("(" + breakdown(detail) + ")"))
		}
		b.WriteByte('\n')
	}
	row("inputs", st.Inputs, nil)
	row("records", st.Records, nil)
	row("clusters", st.Emitted, nil)
	row("dropped", total(st.Dropped), st.Dropped)
	row("rejected", st.Rejections(), st.Rejected)
	if o.Output != "" {
		b.WriteString("  ")
		b.WriteString(s.label.Render("output"))
		b.WriteString(o.Output)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
