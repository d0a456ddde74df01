package audit

import (
	"context"
	"fmt"
	"os"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// PolicyFile represents a custom policy YAML file.
type PolicyFile struct {
	Rules []PolicyRule `json:"rules"`
}

// PolicyRule defines a single custom audit rule.
type PolicyRule struct {
	// ID is the unique rule identifier (e.g., "SHOP-001").
	ID string `json:"id"`

	// Severity is the finding severity (critical, high, medium, low, info).
	SeverityStr string `json:"severity"`

	// Match restricts per-element conditions to stubs or unit elements.
	Match PolicyMatch `json:"match"`

	// Condition selects what is compared against Threshold.
	// Supported: "impedance above", "impedance below", "ratio above",
	// "goodness above", "order above".
	Condition string `json:"condition"`

	Threshold float64 `json:"threshold"`

	// Message is the finding message.
	Message string `json:"message"`

	// Remediation suggests how to fix the issue.
	Remediation string `json:"remediation"`
}

// PolicyMatch restricts which elements a rule applies to.
type PolicyMatch struct {
	// Role is "stub", "unit element" or empty for both.
	Role string `json:"role"`
}

// LoadPolicyFile loads a custom policy file from disk.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy file %s: %w", path, err)
	}

	var pf PolicyFile
	if err := sigsyaml.UnmarshalStrict(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	for _, r := range pf.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("policy file %s: rule missing required 'id' field", path)
		}

		if r.Message == "" {
			return nil, fmt.Errorf("policy file %s: rule %s missing required 'message' field", path, r.ID)
		}

		if r.SeverityStr != "" {
			if _, err := ParseSeverity(r.SeverityStr); err != nil {
				return nil, fmt.Errorf("policy file %s: rule %s: %w", path, r.ID, err)
			}
		}

		if !isKnownCondition(r.Condition) {
			return nil, fmt.Errorf("policy file %s: rule %s: unknown condition %q; supported: %s",
				path, r.ID, r.Condition, strings.Join(knownConditions(), ", "))
		}

		switch r.Match.Role {
		case "", "stub", "unit element":
		default:
			return nil, fmt.Errorf("policy file %s: rule %s: unknown role %q; supported: stub, unit element",
				path, r.ID, r.Match.Role)
		}
	}

	return &pf, nil
}

// ToChecks converts policy rules into audit checks.
func (pf *PolicyFile) ToChecks() []Check {
	checks := make([]Check, 0, len(pf.Rules))

	for _, rule := range pf.Rules {
		checks = append(checks, &customRuleCheck{rule: rule})
	}

	return checks
}

// customRuleCheck implements Check for a custom policy rule.
type customRuleCheck struct {
	rule PolicyRule
}

func (c *customRuleCheck) ID() string { return c.rule.ID }

func (c *customRuleCheck) Run(_ context.Context, d *design.Design) []Finding {
	condition := normalizeCondition(c.rule.Condition)

	switch condition {
	case "impedance above", "impedance below":
		var findings []Finding

		for i, e := range d.Physical {
			if e.Kind != ladder.KindLine || !c.matchesRole(i) {
				continue
			}

			above := condition == "impedance above" && e.Value > c.rule.Threshold
			below := condition == "impedance below" && e.Value < c.rule.Threshold

			if above || below {
				findings = append(findings, c.finding(i))
			}
		}

		return findings

	case "ratio above":
		lo, hi, ok := lineSpread(d)
		if ok && lo > 0 && hi/lo > c.rule.Threshold {
			return []Finding{c.finding(WholeDesign)}
		}
	case "goodness above":
		if d.Pivot >= 0 && d.Goodness > c.rule.Threshold {
			return []Finding{c.finding(WholeDesign)}
		}
	case "order above":
		if float64(d.Order) > c.rule.Threshold {
			return []Finding{c.finding(WholeDesign)}
		}
	}

	return nil
}

func (c *customRuleCheck) matchesRole(i int) bool {
	return c.rule.Match.Role == "" || c.rule.Match.Role == role(i)
}

func (c *customRuleCheck) finding(element int) Finding {
	sev, _ := ParseSeverity(c.rule.SeverityStr)

	return Finding{
		RuleID:      c.rule.ID,
		Severity:    sev,
		Element:     element,
		Message:     c.rule.Message,
		Remediation: c.rule.Remediation,
	}
}

// knownConditions returns the list of supported condition strings.
func knownConditions() []string {
	return []string{
		"impedance above",
		"impedance below",
		"ratio above",
		"goodness above",
		"order above",
	}
}

func normalizeCondition(cond string) string {
	return strings.ToLower(strings.TrimSpace(cond))
}

// isKnownCondition reports whether the given condition string is supported.
func isKnownCondition(cond string) bool {
	normalized := normalizeCondition(cond)
	for _, c := range knownConditions() {
		if c == normalized {
			return true
		}
	}

	return false
}
