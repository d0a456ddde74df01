package output

import (
	"encoding/json"
	"fmt"

	sigsyaml "sigs.k8s.io/yaml"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
)

// SerializeYAML converts a design to YAML bytes. Keys follow the JSON
// field tags of design.Design, so the output reads back with design.Parse.
func SerializeYAML(d *design.Design) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("serializing YAML: nil design")
	}

	b, err := sigsyaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return ensureNewline(b), nil
}

// SerializeJSON converts a design to indented JSON bytes.
func SerializeJSON(d *design.Design, indent string) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("serializing JSON: nil design")
	}

	if indent == "" {
		indent = "  "
	}

	b, err := json.MarshalIndent(d, "", indent)
	if err != nil {
		return nil, fmt.Errorf("serializing JSON: %w", err)
	}

	return ensureNewline(b), nil
}

func ensureNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}

	return b
}
