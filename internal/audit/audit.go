// Package audit checks synthesized designs for realizability problems:
// line impedances a board process cannot fabricate, excessive impedance
// spread, elements left lumped and marginal pivot choices. It supports
// built-in rules, custom policy files and table or JSON output.
package audit

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
)

// Severity ranks the impact of a finding.
type Severity int

const (
	// SeverityInfo is purely informational.
	SeverityInfo Severity = iota
	// SeverityLow indicates a minor concern.
	SeverityLow
	// SeverityMedium indicates a moderate concern.
	SeverityMedium
	// SeverityHigh indicates the design is unlikely to be buildable.
	SeverityHigh
	// SeverityCritical indicates the design cannot be built.
	SeverityCritical
)

// String returns the lowercase label for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ParseSeverity parses a severity string (case-insensitive).
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical, nil
	case "high":
		return SeverityHigh, nil
	case "medium":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q, valid values: critical, high, medium, low, info", s)
	}
}

// WholeDesign is the Element of a finding that concerns no single element.
const WholeDesign = -1

// Finding represents a single audit result.
type Finding struct {
	RuleID   string   `json:"ruleId"`
	Severity Severity `json:"severity"`

	// Element is the zero-based position in the physical ladder, or
	// WholeDesign.
	Element int `json:"element"`

	Message     string `json:"message"`
	Remediation string `json:"remediation"`
}

// Location renders the element position for humans.
func (f Finding) Location() string {
	if f.Element == WholeDesign {
		return "design"
	}

	return fmt.Sprintf("element %d", f.Element+1)
}

// Limits are the fabrication bounds the built-in checks enforce.
type Limits struct {
	// MinImpedance and MaxImpedance bound a physical line in ohms.
	MinImpedance float64
	MaxImpedance float64

	// MaxRatio bounds the highest over the lowest line impedance.
	MaxRatio float64

	// TieMargin is the relative goodness gap below which the runner-up
	// pivot counts as a near tie.
	TieMargin float64
}

// DefaultLimits returns bounds typical for microstrip on FR-4.
func DefaultLimits() Limits {
	return Limits{
		MinImpedance: 20,
		MaxImpedance: 150,
		MaxRatio:     6,
		TieMargin:    0.01,
	}
}

// Validate rejects limits no design could satisfy.
func (l Limits) Validate() error {
	if l.MinImpedance <= 0 || l.MaxImpedance <= l.MinImpedance {
		return fmt.Errorf("invalid impedance window [%g, %g] Ω", l.MinImpedance, l.MaxImpedance)
	}

	if l.MaxRatio < 1 {
		return fmt.Errorf("invalid impedance ratio %g: must be at least 1", l.MaxRatio)
	}

	if l.TieMargin < 0 {
		return fmt.Errorf("invalid tie margin %g: must not be negative", l.TieMargin)
	}

	return nil
}

// Check is the interface every audit rule must implement.
type Check interface {
	// ID returns the unique rule identifier (e.g. "RZ-001").
	ID() string
	// Run evaluates the design and returns any findings.
	Run(ctx context.Context, d *design.Design) []Finding
}

// Result aggregates findings from all checks.
type Result struct {
	Findings []Finding      `json:"findings"`
	Summary  map[string]int `json:"summary"`
}

// Passed returns true when no finding meets or exceeds the threshold severity.
func (r *Result) Passed(threshold Severity) bool {
	for _, f := range r.Findings {
		if f.Severity >= threshold {
			return false
		}
	}

	return true
}

// Auditor orchestrates a set of checks against a design.
type Auditor struct {
	checks []Check
}

// New creates an Auditor with the given checks.
func New(checks ...Check) *Auditor {
	return &Auditor{checks: checks}
}

// Run executes every registered check and returns the result.
func (a *Auditor) Run(ctx context.Context, d *design.Design) *Result {
	var all []Finding

	for _, chk := range a.checks {
		all = append(all, chk.Run(ctx, d)...)
	}

	// Severity descending, then rule, then position.
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Severity != all[j].Severity {
			return all[i].Severity > all[j].Severity
		}

		if all[i].RuleID != all[j].RuleID {
			return all[i].RuleID < all[j].RuleID
		}

		return all[i].Element < all[j].Element
	})

	summary := make(map[string]int)
	for _, f := range all {
		summary[f.Severity.String()]++
	}

	return &Result{Findings: all, Summary: summary}
}

// DefaultChecks returns the built-in realizability checks for limits.
func DefaultChecks(limits Limits) []Check {
	return []Check{
		&ImpedanceRangeCheck{Min: limits.MinImpedance, Max: limits.MaxImpedance},
		&ImpedanceSpreadCheck{MaxRatio: limits.MaxRatio},
		&LumpedElementCheck{},
		&MarginalPivotCheck{Margin: limits.TieMargin},
	}
}
