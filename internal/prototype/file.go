package prototype

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk layout of a custom prototype table:
//
//	name: chebyshev-0.5db
//	orders:
//	  3: [1.5963, 1.0967, 1.5963, 1.0]
type tableFile struct {
	Name   string            `yaml:"name"`
	Orders map[int][]float64 `yaml:"orders"`
}

// LoadFile reads a custom prototype table from a YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prototype table %q: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return Parse(data, name)
}

// Parse decodes a YAML prototype table. Unknown fields are rejected.
// fallbackName is used when the document does not name the table.
func Parse(data []byte, fallbackName string) (*Table, error) {
	var f tableFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: prototype table is empty", ErrInvalidCoefficient)
		}

		return nil, fmt.Errorf("parsing prototype table: %w", err)
	}

	if f.Name == "" {
		f.Name = fallbackName
	}

	return New(f.Name, f.Orders)
}
