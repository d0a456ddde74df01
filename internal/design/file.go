package design

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// FormatVersion is the document layout version written by this build.
const FormatVersion = "1.0.0"

// supportedFormats is the range of document versions Load accepts.
const supportedFormats = "^1.0.0"

// ErrIncompatibleFormat is returned for a design document whose format
// version is missing, malformed or outside the supported range.
var ErrIncompatibleFormat = errors.New("incompatible design format")

// Load reads a design document written as YAML or JSON.
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design %q: %w", path, err)
	}

	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("design %q: %w", path, err)
	}

	return d, nil
}

// Parse decodes a design document and checks its format version.
func Parse(data []byte) (*Design, error) {
	var d Design
	if err := sigsyaml.UnmarshalStrict(data, &d); err != nil {
		return nil, fmt.Errorf("parsing design: %w", err)
	}

	if err := CheckFormat(d.FormatVersion); err != nil {
		return nil, err
	}

	return &d, nil
}

// CheckFormat reports whether version can be read by this build.
func CheckFormat(version string) error {
	if version == "" {
		return fmt.Errorf("%w: formatVersion is missing", ErrIncompatibleFormat)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrIncompatibleFormat, version)
	}

	c, err := semver.NewConstraint(supportedFormats)
	if err != nil {
		return fmt.Errorf("parsing format constraint: %w", err)
	}

	if !c.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrIncompatibleFormat, version, supportedFormats)
	}

	return nil
}
