package audit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/audit"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadPolicyFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		content := `rules:
  - id: SHOP-001
    severity: high
    match:
      role: stub
    condition: "impedance above"
    threshold: 110
    message: "stub too narrow for our etch process"
    remediation: "Lower the reference impedance"
`
		path := writeTempFile(t, "policy.yaml", content)
		pf, err := audit.LoadPolicyFile(path)
		require.NoError(t, err)
		require.Len(t, pf.Rules, 1)
		assert.Equal(t, "SHOP-001", pf.Rules[0].ID)
		assert.Equal(t, "stub", pf.Rules[0].Match.Role)
		assert.Equal(t, 110.0, pf.Rules[0].Threshold)
	})

	t.Run("rejects missing id", func(t *testing.T) {
		path := writeTempFile(t, "bad.yaml", "rules:\n  - severity: high\n    message: test\n")
		_, err := audit.LoadPolicyFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required 'id'")
	})

	t.Run("rejects missing message", func(t *testing.T) {
		path := writeTempFile(t, "bad2.yaml", "rules:\n  - id: X\n    severity: high\n")
		_, err := audit.LoadPolicyFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required 'message'")
	})

	t.Run("nonexistent file", func(t *testing.T) {
		_, err := audit.LoadPolicyFile("/nonexistent/policy.yaml")
		assert.Error(t, err)
	})

	t.Run("rejects invalid severity", func(t *testing.T) {
		path := writeTempFile(t, "badsev.yaml",
			"rules:\n  - id: X\n    severity: banana\n    condition: order above\n    message: test\n")
		_, err := audit.LoadPolicyFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown severity")
	})

	t.Run("rejects unknown condition", func(t *testing.T) {
		path := writeTempFile(t, "badcond.yaml", "rules:\n  - id: X\n    condition: too shiny\n    message: test\n")
		_, err := audit.LoadPolicyFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown condition")
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		path := writeTempFile(t, "badrole.yaml",
			"rules:\n  - id: X\n    condition: impedance above\n    match:\n      role: via\n    message: test\n")
		_, err := audit.LoadPolicyFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown role")
	})

	t.Run("rejects unknown field", func(t *testing.T) {
		path := writeTempFile(t, "typo.yaml", "rules:\n  - id: X\n    condition: order above\n    mesage: test\n")
		_, err := audit.LoadPolicyFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing policy file")
	})
}

func TestPolicyFile_ToChecks(t *testing.T) {
	pf := &audit.PolicyFile{Rules: []audit.PolicyRule{
		{ID: "A", Condition: "order above", Message: "a"},
		{ID: "B", Condition: "ratio above", Message: "b"},
	}}

	checks := pf.ToChecks()
	require.Len(t, checks, 2)
	assert.Equal(t, "A", checks[0].ID())
	assert.Equal(t, "B", checks[1].ID())
}

func TestCustomRules(t *testing.T) {
	d := lineDesign(100, 100, 25, 100, 100)
	d.Goodness = 16.25

	tests := []struct {
		name string
		rule audit.PolicyRule
		want []int
	}{
		{
			name: "impedance above on stubs",
			rule: audit.PolicyRule{Condition: "impedance above", Threshold: 90, Match: audit.PolicyMatch{Role: "stub"}},
			want: []int{0, 4},
		},
		{
			name: "impedance above on unit elements",
			rule: audit.PolicyRule{Condition: "impedance above", Threshold: 90, Match: audit.PolicyMatch{Role: "unit element"}},
			want: []int{1, 3},
		},
		{
			name: "impedance below any role",
			rule: audit.PolicyRule{Condition: "Impedance Below", Threshold: 30},
			want: []int{2},
		},
		{
			name: "ratio above",
			rule: audit.PolicyRule{Condition: "ratio above", Threshold: 3},
			want: []int{audit.WholeDesign},
		},
		{
			name: "ratio within",
			rule: audit.PolicyRule{Condition: "ratio above", Threshold: 4},
		},
		{
			name: "goodness above",
			rule: audit.PolicyRule{Condition: "goodness above", Threshold: 16},
			want: []int{audit.WholeDesign},
		},
		{
			name: "order above",
			rule: audit.PolicyRule{Condition: "order above", Threshold: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rule.ID = "SHOP-001"
			tt.rule.SeverityStr = "medium"
			tt.rule.Message = "custom"

			pf := &audit.PolicyFile{Rules: []audit.PolicyRule{tt.rule}}
			findings := pf.ToChecks()[0].Run(context.Background(), d)

			var got []int
			for _, f := range findings {
				got = append(got, f.Element)
				assert.Equal(t, "SHOP-001", f.RuleID)
				assert.Equal(t, audit.SeverityMedium, f.Severity)
				assert.Equal(t, "custom", f.Message)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}
