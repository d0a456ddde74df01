package watch

import (
	"fmt"
	"strings"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/diff"
)

// ChangeSummary condenses design changes into one line.
func ChangeSummary(changes []diff.Change) string {
	if len(changes) == 0 {
		return "no design changes"
	}

	var (
		parts    []string
		sections int
	)

	for _, c := range changes {
		if strings.HasPrefix(c.Field, "physical[") {
			sections++
			continue
		}

		parts = append(parts, fmt.Sprintf("%s %s → %s", c.Field, c.Old, c.New))
	}

	if sections > 0 {
		parts = append(parts, fmt.Sprintf("~%d section(s) changed", sections))
	}

	return strings.Join(parts, ", ")
}
