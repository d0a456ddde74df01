// Package docs renders a design as a datasheet for hand-off to layout:
// Markdown for repositories and HTML for a standalone page.
package docs

import (
	"fmt"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/kuroda"
)

// SectionInfo describes one element of the realization.
type SectionInfo struct {
	// Position is one-based, counted from the source end.
	Position int

	// Role is "stub" or "unit element".
	Role string

	// Element is the element kind as printed ("Line", "Shunt").
	Element string

	Normalized float64

	// Impedance is the physical value in ohms.
	Impedance float64
}

// PrototypeInfo is one g-value of the lumped prototype.
type PrototypeInfo struct {
	Name    string
	Element string
	Value   float64
}

// CandidateInfo is one scored pivot.
type CandidateInfo struct {
	Pivot    int
	Goodness float64
	Selected bool
}

// DocModel is the intermediate representation used by every formatter.
type DocModel struct {
	Title              string
	Table              string
	Order              int
	ReferenceImpedance float64

	// Pivot is -1 when the order had no shunt element.
	Pivot    int
	Goodness float64

	Prototype  []PrototypeInfo
	Sections   []SectionInfo
	Candidates []CandidateInfo

	// IncludeDocument appends the machine-readable design document.
	IncludeDocument bool
	document        string
}

// NewModel builds the datasheet model for d.
func NewModel(d *design.Design, includeDocument bool) (*DocModel, error) {
	if d == nil {
		return nil, fmt.Errorf("building datasheet: nil design")
	}

	if len(d.Normalized) != len(d.Physical) {
		return nil, fmt.Errorf("building datasheet: %d normalized but %d physical elements",
			len(d.Normalized), len(d.Physical))
	}

	m := &DocModel{
		Title:              fmt.Sprintf("Butterworth lowpass filter, order %d", d.Order),
		Table:              d.Table,
		Order:              d.Order,
		ReferenceImpedance: d.ReferenceImpedance,
		Pivot:              d.Pivot,
		Goodness:           d.Goodness,
		IncludeDocument:    includeDocument,
	}

	for i, e := range d.Prototype {
		m.Prototype = append(m.Prototype, PrototypeInfo{
			Name:    fmt.Sprintf("g%d", i+1),
			Element: title(e.Kind.String()),
			Value:   e.Value,
		})
	}

	for i, e := range d.Physical {
		role := "unit element"
		if kuroda.IsStub(i) {
			role = "stub"
		}

		m.Sections = append(m.Sections, SectionInfo{
			Position:   i + 1,
			Role:       role,
			Element:    title(e.Kind.String()),
			Normalized: d.Normalized[i].Value,
			Impedance:  e.Value,
		})
	}

	for _, c := range d.Candidates {
		m.Candidates = append(m.Candidates, CandidateInfo(c))
	}

	if includeDocument {
		data, err := sigsyaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("building datasheet: %w", err)
		}

		m.document = string(data)
	}

	return m, nil
}

// Document returns the embedded design document, empty unless requested.
func (m *DocModel) Document() string { return m.document }

func title(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
