package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/kuroda"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// ReportOptions configures the text report.
type ReportOptions struct {
	// NoColor renders every section unstyled.
	NoColor bool

	// Candidates appends the per-pivot goodness table.
	Candidates bool
}

type styles struct {
	title   lipgloss.Style
	heading lipgloss.Style
	label   lipgloss.Style
	stub    lipgloss.Style
	winner  lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()

		return styles{plain, plain, plain, plain, plain, plain}
	}

	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		heading: lipgloss.NewStyle().Bold(true).Underline(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		stub:    lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		winner:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true),
	}
}

// Report renders d as a human-readable text report: the prototype g values,
// the normalized and the physical line impedances and, optionally, the
// candidate scores.
func Report(d *design.Design, opts ReportOptions) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("rendering report: nil design")
	}

	st := newStyles(opts.NoColor)

	var b bytes.Buffer

	fmt.Fprintln(&b, st.title.Render(fmt.Sprintf("Butterworth lowpass, order %d", d.Order)))
	fmt.Fprintf(&b, "%s %s   %s %g Ω\n\n",
		st.label.Render("table:"), d.Table,
		st.label.Render("reference:"), d.ReferenceImpedance)

	fmt.Fprintln(&b, st.heading.Render("Prototype"))

	for i, e := range d.Prototype {
		fmt.Fprintf(&b, "  %s %s\n", st.label.Render(fmt.Sprintf("g%d:", i+1)), e)
	}

	fmt.Fprintln(&b)

	if d.Pivot < 0 {
		fmt.Fprintln(&b, st.muted.Render("no shunt element to pivot on"))
	} else {
		fmt.Fprintf(&b, "%s %d   %s %.4f\n",
			st.label.Render("pivot:"), d.Pivot,
			st.label.Render("goodness:"), d.Goodness)
	}

	fmt.Fprintln(&b)
	writeRealization(&b, st, "Normalized", d.Normalized, 4)
	fmt.Fprintln(&b)
	writeRealization(&b, st, "Physical (Ω)", d.Physical, 2)

	if opts.Candidates && len(d.Candidates) > 0 {
		fmt.Fprintln(&b)
		b.WriteString(CandidateTable(d.Candidates, opts.NoColor))
	}

	return b.Bytes(), nil
}

func writeRealization(b *bytes.Buffer, st styles, title string, l ladder.Ladder, precision int) {
	fmt.Fprintln(b, st.heading.Render(title))

	for i, e := range l {
		role := "line"
		roleStyle := st.label

		if kuroda.IsStub(i) {
			role = "stub"
			roleStyle = st.stub
		}

		fmt.Fprintf(b, "  %2d  %s  %s\n",
			i+1,
			roleStyle.Render(fmt.Sprintf("%-4s", role)),
			fmt.Sprintf("%s(%.*f)", kindTitle(e.Kind), precision, e.Value))
	}
}

// CandidateTable renders the per-pivot goodness scores with the winner
// marked.
func CandidateTable(cands []design.Candidate, noColor bool) string {
	st := newStyles(noColor)

	var b strings.Builder

	fmt.Fprintln(&b, st.heading.Render("Candidates"))
	fmt.Fprintf(&b, "  %s\n", st.label.Render(fmt.Sprintf("%-5s  %-12s", "pivot", "goodness")))

	for _, c := range cands {
		row := fmt.Sprintf("%-5d  %-12.4f", c.Pivot, c.Goodness)
		if c.Selected {
			fmt.Fprintf(&b, "  %s\n", st.winner.Render(row+"  *"))

			continue
		}

		fmt.Fprintf(&b, "  %s\n", row)
	}

	return b.String()
}

func kindTitle(k ladder.Kind) string {
	s := k.String()
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
