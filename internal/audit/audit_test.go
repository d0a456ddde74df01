package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/audit"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/ladder"
)

// lineDesign returns a design whose physical ladder is made of lines with
// the given impedances.
func lineDesign(ohms ...float64) *design.Design {
	l := make(ladder.Ladder, len(ohms))
	for i, z := range ohms {
		l[i] = ladder.Line(z)
	}

	return &design.Design{
		Order:              (len(ohms) + 1) / 2,
		ReferenceImpedance: 50,
		Pivot:              0,
		Goodness:           10,
		Physical:           l,
	}
}

type fixedCheck struct {
	id       string
	findings []audit.Finding
}

func (c *fixedCheck) ID() string { return c.id }

func (c *fixedCheck) Run(context.Context, *design.Design) []audit.Finding { return c.findings }

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		sev  audit.Severity
		want string
	}{
		{audit.SeverityInfo, "info"},
		{audit.SeverityLow, "low"},
		{audit.SeverityMedium, "medium"},
		{audit.SeverityHigh, "high"},
		{audit.SeverityCritical, "critical"},
		{audit.Severity(99), "unknown(99)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sev.String())
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    audit.Severity
		wantErr bool
	}{
		{"critical", audit.SeverityCritical, false},
		{"CRITICAL", audit.SeverityCritical, false},
		{"  High  ", audit.SeverityHigh, false},
		{"medium", audit.SeverityMedium, false},
		{"low", audit.SeverityLow, false},
		{"info", audit.SeverityInfo, false},
		{"", audit.SeverityInfo, true},
		{"unknown", audit.SeverityInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := audit.ParseSeverity(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResult_Passed(t *testing.T) {
	t.Run("no findings passes any threshold", func(t *testing.T) {
		r := &audit.Result{Summary: map[string]int{}}
		assert.True(t, r.Passed(audit.SeverityCritical))
		assert.True(t, r.Passed(audit.SeverityInfo))
	})

	t.Run("findings below threshold passes", func(t *testing.T) {
		r := &audit.Result{Findings: []audit.Finding{
			{Severity: audit.SeverityLow, RuleID: "TEST-001"},
			{Severity: audit.SeverityInfo, RuleID: "TEST-002"},
		}}
		assert.True(t, r.Passed(audit.SeverityMedium))
	})

	t.Run("finding at threshold fails", func(t *testing.T) {
		r := &audit.Result{Findings: []audit.Finding{{Severity: audit.SeverityHigh}}}
		assert.False(t, r.Passed(audit.SeverityHigh))
		assert.False(t, r.Passed(audit.SeverityLow))
	})
}

func TestAuditor_SortsAndSummarizes(t *testing.T) {
	a := audit.New(
		&fixedCheck{id: "B", findings: []audit.Finding{
			{RuleID: "B", Severity: audit.SeverityLow, Element: 3},
			{RuleID: "B", Severity: audit.SeverityLow, Element: 1},
		}},
		&fixedCheck{id: "A", findings: []audit.Finding{
			{RuleID: "A", Severity: audit.SeverityHigh, Element: audit.WholeDesign},
			{RuleID: "A", Severity: audit.SeverityLow, Element: 0},
		}},
	)

	result := a.Run(context.Background(), lineDesign(50))
	require.Len(t, result.Findings, 4)

	assert.Equal(t, audit.SeverityHigh, result.Findings[0].Severity)
	assert.Equal(t, "A", result.Findings[1].RuleID)
	assert.Equal(t, 1, result.Findings[2].Element)
	assert.Equal(t, 3, result.Findings[3].Element)
	assert.Equal(t, map[string]int{"high": 1, "low": 3}, result.Summary)
}

func TestDefaultChecks_ThirdOrderIsClean(t *testing.T) {
	d, err := design.Build(context.Background(), 3, design.Options{})
	require.NoError(t, err)

	result := audit.New(audit.DefaultChecks(audit.DefaultLimits())...).Run(context.Background(), d)
	assert.Empty(t, result.Findings)
}

func TestDefaultChecks_FirstOrderKeepsShunt(t *testing.T) {
	d, err := design.Build(context.Background(), 1, design.Options{})
	require.NoError(t, err)

	result := audit.New(audit.DefaultChecks(audit.DefaultLimits())...).Run(context.Background(), d)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "RZ-003", result.Findings[0].RuleID)
	assert.Equal(t, 0, result.Findings[0].Element)
}

func TestLimits_Validate(t *testing.T) {
	assert.NoError(t, audit.DefaultLimits().Validate())

	bad := []audit.Limits{
		{MinImpedance: 0, MaxImpedance: 100, MaxRatio: 2},
		{MinImpedance: 100, MaxImpedance: 50, MaxRatio: 2},
		{MinImpedance: 20, MaxImpedance: 150, MaxRatio: 0.5},
		{MinImpedance: 20, MaxImpedance: 150, MaxRatio: 2, TieMargin: -1},
	}

	for _, l := range bad {
		assert.Error(t, l.Validate(), "%+v", l)
	}
}

func TestFinding_Location(t *testing.T) {
	assert.Equal(t, "design", audit.Finding{Element: audit.WholeDesign}.Location())
	assert.Equal(t, "element 3", audit.Finding{Element: 2}.Location())
}
