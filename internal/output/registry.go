package output

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
)

// Supported output format names.
const (
	FormatText     = "text"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Encoder renders a design in one output format.
type Encoder func(d *design.Design) ([]byte, error)

// Registry maps format names to encoders, enabling pluggable output
// formats for the design command.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates an empty encoder registry.
func NewRegistry() *Registry {
	return &Registry{
		encoders: make(map[string]Encoder),
	}
}

// Register adds an encoder under the given format name.
// Existing entries for the same name are overwritten.
func (r *Registry) Register(name string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.encoders[name] = enc
}

// Encoder returns the encoder for the given format, or an error if not found.
func (r *Registry) Encoder(name string) (Encoder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enc, ok := r.encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, r.availableLocked())
	}

	return enc, nil
}

// Formats returns the sorted list of registered format names.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.formatsLocked()
}

// AvailableFormats returns a comma-separated string of registered format names.
func (r *Registry) AvailableFormats() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.availableLocked()
}

func (r *Registry) formatsLocked() []string {
	names := make([]string, 0, len(r.encoders))
	for name := range r.encoders {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *Registry) availableLocked() string {
	formats := r.formatsLocked()
	if len(formats) == 0 {
		return "none"
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// output formats: text, yaml, json, markdown, html.
func DefaultRegistry(report ReportOptions) *Registry {
	r := NewRegistry()

	r.Register(FormatText, func(d *design.Design) ([]byte, error) {
		return Report(d, report)
	})
	r.Register(FormatYAML, SerializeYAML)
	r.Register(FormatJSON, func(d *design.Design) ([]byte, error) {
		return SerializeJSON(d, "  ")
	})
	r.Register(FormatMarkdown, Datasheet(FormatMarkdown))
	r.Register(FormatHTML, Datasheet(FormatHTML))

	return r
}
