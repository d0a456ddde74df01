package audit

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/kuroda"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// role names the physical function of position i in a realization.
func role(i int) string {
	if kuroda.IsStub(i) {
		return "stub"
	}

	return "unit element"
}

// lineSpread returns the lowest and highest physical line impedance.
func lineSpread(d *design.Design) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)

	for _, e := range d.Physical {
		if e.Kind != ladder.KindLine {
			continue
		}

		lo = math.Min(lo, e.Value)
		hi = math.Max(hi, e.Value)
		ok = true
	}

	return lo, hi, ok
}

// --- RZ-001: impedance window ---

// ImpedanceRangeCheck flags lines outside the fabricable impedance window.
type ImpedanceRangeCheck struct {
	Min, Max float64
}

// ID returns the rule identifier.
func (c *ImpedanceRangeCheck) ID() string { return "RZ-001" }

// Run evaluates the check.
func (c *ImpedanceRangeCheck) Run(_ context.Context, d *design.Design) []Finding {
	var findings []Finding

	for i, e := range d.Physical {
		if e.Kind != ladder.KindLine {
			continue
		}

		switch {
		case e.Value < c.Min:
			findings = append(findings, Finding{
				RuleID:      c.ID(),
				Severity:    SeverityHigh,
				Element:     i,
				Message:     fmt.Sprintf("%s impedance %.2f Ω is below the %.2f Ω minimum", role(i), e.Value, c.Min),
				Remediation: "Raise the reference impedance or use a thicker substrate",
			})
		case e.Value > c.Max:
			findings = append(findings, Finding{
				RuleID:      c.ID(),
				Severity:    SeverityHigh,
				Element:     i,
				Message:     fmt.Sprintf("%s impedance %.2f Ω exceeds the %.2f Ω maximum", role(i), e.Value, c.Max),
				Remediation: "Lower the reference impedance or use a thinner substrate",
			})
		}
	}

	return findings
}

// --- RZ-002: impedance spread ---

// ImpedanceSpreadCheck flags designs whose line impedances span too wide a
// ratio for a single substrate.
type ImpedanceSpreadCheck struct {
	MaxRatio float64
}

// ID returns the rule identifier.
func (c *ImpedanceSpreadCheck) ID() string { return "RZ-002" }

// Run evaluates the check.
func (c *ImpedanceSpreadCheck) Run(_ context.Context, d *design.Design) []Finding {
	lo, hi, ok := lineSpread(d)
	if !ok || lo <= 0 {
		return nil
	}

	ratio := hi / lo
	if ratio <= c.MaxRatio {
		return nil
	}

	return []Finding{{
		RuleID:   c.ID(),
		Severity: SeverityMedium,
		Element:  WholeDesign,
		Message: fmt.Sprintf("line impedances span %.2f-%.2f Ω, ratio %.2f exceeds %.2f",
			lo, hi, ratio, c.MaxRatio),
		Remediation: "Compare the other pivot candidates or split the filter across two substrates",
	}}
}

// --- RZ-003: lumped leftovers ---

// LumpedElementCheck flags elements that were not realized as lines.
type LumpedElementCheck struct{}

// ID returns the rule identifier.
func (c *LumpedElementCheck) ID() string { return "RZ-003" }

// Run evaluates the check.
func (c *LumpedElementCheck) Run(_ context.Context, d *design.Design) []Finding {
	var findings []Finding

	for i, e := range d.Physical {
		if e.Kind == ladder.KindLine {
			continue
		}

		findings = append(findings, Finding{
			RuleID:      c.ID(),
			Severity:    SeverityLow,
			Element:     i,
			Message:     fmt.Sprintf("%s is not a transmission line", e),
			Remediation: "Realize it as a lumped component or as an open stub by hand",
		})
	}

	return findings
}

// --- RZ-004: marginal pivot ---

// MarginalPivotCheck reports when the runner-up pivot scores within Margin
// of the winner, so table rounding could flip the choice.
type MarginalPivotCheck struct {
	Margin float64
}

// ID returns the rule identifier.
func (c *MarginalPivotCheck) ID() string { return "RZ-004" }

// Run evaluates the check.
func (c *MarginalPivotCheck) Run(_ context.Context, d *design.Design) []Finding {
	if len(d.Candidates) < 2 || d.Goodness <= 0 {
		return nil
	}

	scores := make([]design.Candidate, len(d.Candidates))
	copy(scores, d.Candidates)
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Goodness < scores[j].Goodness })

	best, next := scores[0], scores[1]

	gap := (next.Goodness - best.Goodness) / best.Goodness
	if gap > c.Margin {
		return nil
	}

	return []Finding{{
		RuleID:   c.ID(),
		Severity: SeverityInfo,
		Element:  WholeDesign,
		Message: fmt.Sprintf("pivot %d scores within %.2f%% of pivot %d (%.4f vs %.4f)",
			next.Pivot, gap*100, best.Pivot, next.Goodness, best.Goodness),
		Remediation: "Run the candidates command and pick by layout if the scores are equivalent",
	}}
}
