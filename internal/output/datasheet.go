package output

import (
	"bytes"
	"fmt"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/docs"
)

// Datasheet returns an encoder rendering the design as a datasheet in the
// given docs format, with the YAML design document embedded.
func Datasheet(format string) Encoder {
	return func(d *design.Design) ([]byte, error) {
		f, err := docs.NewFormatter(format)
		if err != nil {
			return nil, err
		}

		model, err := docs.NewModel(d, true)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := f.Format(&buf, model); err != nil {
			return nil, fmt.Errorf("rendering %s datasheet: %w", format, err)
		}

		return buf.Bytes(), nil
	}
}
