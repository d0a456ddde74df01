// Package diff compares two saved designs, both as a unified text diff of
// their YAML documents and as a list of changed quantities.
package diff

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/output"
)

// Tolerance is the absolute difference below which two impedances or
// goodness values count as equal.
const Tolerance = 1e-9

// Result holds the outcome of comparing two designs.
type Result struct {
	Unified        string
	HasDifferences bool
	Hunks          []string
	OldLabel       string
	NewLabel       string

	// Changes lists the quantities that differ, in document order.
	Changes []Change
}

// Change is one quantity that differs between two designs.
type Change struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Options configures diff computation.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultOptions returns sensible default diff options.
func DefaultOptions() Options {
	return Options{
		OldLabel: "old",
		NewLabel: "new",
		Context:  3,
	}
}

// Designs compares two designs.
func Designs(oldDesign, newDesign *design.Design, opts Options) (*Result, error) {
	oldDoc, err := output.SerializeYAML(oldDesign)
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", opts.OldLabel, err)
	}

	newDoc, err := output.SerializeYAML(newDesign)
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", opts.NewLabel, err)
	}

	res, err := Text(string(oldDoc), string(newDoc), opts)
	if err != nil {
		return nil, err
	}

	res.Changes = Changes(oldDesign, newDesign)
	res.HasDifferences = res.HasDifferences || len(res.Changes) > 0

	return res, nil
}

// Text computes a unified diff between two documents.
func Text(oldDoc, newDoc string, opts Options) (*Result, error) {
	d := difflib.UnifiedDiff{
		A:        splitLines(oldDoc),
		B:        splitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	hasDiff := unified != ""

	var hunks []string
	if hasDiff {
		hunks = extractHunks(unified)
	}

	return &Result{
		Unified:        unified,
		HasDifferences: hasDiff,
		Hunks:          hunks,
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}, nil
}

// Changes lists the quantities that differ between a and b. Impedances
// are compared position by position within Tolerance.
func Changes(a, b *design.Design) []Change {
	var out []Change

	add := func(field, o, n string) {
		if o != n {
			out = append(out, Change{Field: field, Old: o, New: n})
		}
	}

	add("table", a.Table, b.Table)
	add("order", fmt.Sprint(a.Order), fmt.Sprint(b.Order))
	addFloat(&out, "referenceImpedance", a.ReferenceImpedance, b.ReferenceImpedance)
	add("pivot", fmt.Sprint(a.Pivot), fmt.Sprint(b.Pivot))
	addFloat(&out, "goodness", a.Goodness, b.Goodness)

	n := max(len(a.Physical), len(b.Physical))
	for i := range n {
		field := fmt.Sprintf("physical[%d]", i)

		switch {
		case i >= len(a.Physical):
			add(field, "-", b.Physical[i].String())
		case i >= len(b.Physical):
			add(field, a.Physical[i].String(), "-")
		case a.Physical[i].Kind != b.Physical[i].Kind:
			add(field, a.Physical[i].String(), b.Physical[i].String())
		default:
			if math.Abs(a.Physical[i].Value-b.Physical[i].Value) > Tolerance {
				add(field, a.Physical[i].String(), b.Physical[i].String())
			}
		}
	}

	return out
}

func addFloat(out *[]Change, field string, a, b float64) {
	if math.Abs(a-b) > Tolerance {
		*out = append(*out, Change{Field: field, Old: fmt.Sprintf("%.4f", a), New: fmt.Sprintf("%.4f", b)})
	}
}

// extractHunks splits unified diff output into individual hunks.
func extractHunks(unified string) []string {
	var hunks []string

	var current strings.Builder

	for _, line := range strings.Split(unified, "\n") {
		if strings.HasPrefix(line, "@@") {
			if current.Len() > 0 {
				hunks = append(hunks, current.String())
				current.Reset()
			}
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	if current.Len() > 0 {
		hunks = append(hunks, current.String())
	}

	return hunks
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Write writes a formatted diff to w, styling lines when color is set.
func Write(w io.Writer, result *Result, color bool) {
	if !result.HasDifferences {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(result.Unified, "\n"), "\n") {
		if color {
			_, _ = fmt.Fprintln(w, styleLine(line))
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}

	if len(result.Changes) == 0 {
		return
	}

	_, _ = fmt.Fprintln(w)

	for _, c := range result.Changes {
		_, _ = fmt.Fprintf(w, "%s: %s -> %s\n", c.Field, c.Old, c.New)
	}
}

func styleLine(line string) string {
	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		return headerStyle.Render(line)
	case strings.HasPrefix(line, "@@"):
		return hunkStyle.Render(line)
	case strings.HasPrefix(line, "-"):
		return removedStyle.Render(line)
	case strings.HasPrefix(line, "+"):
		return addedStyle.Render(line)
	default:
		return line
	}
}

// splitLines splits a string into lines for diff processing.
// Each element includes a trailing newline for difflib compatibility.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}

	return strings.SplitAfter(s, "\n")
}
