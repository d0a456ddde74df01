// Package plot draws the impedance profile of a design: one bar per
// transmission-line section, stubs and unit elements in separate colors,
// with the reference impedance as a horizontal guide.
package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/abdullah-qal/butterworth-filter-designer/internal/design"
	"github.com/abdullah-qal/butterworth-filter-designer/internal/kuroda"
)

// Default image size.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// ErrUnsupportedFormat is returned for an image format Render cannot write.
var ErrUnsupportedFormat = errors.New("unsupported plot format")

var (
	stubColor = color.RGBA{R: 0x04, G: 0xB5, B: 0x75, A: 0xFF}
	lineColor = color.RGBA{R: 0x7D, G: 0x56, B: 0xF4, A: 0xFF}
	refColor  = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
)

// FormatFromPath returns the image format implied by the file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	switch ext {
	case "png", "svg", "pdf":
		return ext, nil
	case "":
		return "", fmt.Errorf("%w: %q has no extension (use .png, .svg or .pdf)", ErrUnsupportedFormat, path)
	default:
		return "", fmt.Errorf("%w: %q (use .png, .svg or .pdf)", ErrUnsupportedFormat, ext)
	}
}

// New builds the impedance profile plot of d.
func New(d *design.Design) (*plot.Plot, error) {
	if d == nil || len(d.Physical) == 0 {
		return nil, errors.New("plotting design: no line sections")
	}

	n := len(d.Physical)
	stubs := make(plotter.Values, n)
	lines := make(plotter.Values, n)
	names := make([]string, n)

	for i, e := range d.Physical {
		names[i] = strconv.Itoa(i + 1)

		if kuroda.IsStub(i) {
			stubs[i] = e.Value
		} else {
			lines[i] = e.Value
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Order %d impedance profile (pivot %d)", d.Order, d.Pivot)
	p.X.Label.Text = "section"
	p.Y.Label.Text = "Z (Ω)"
	p.Y.Min = 0

	width := vg.Points(14)

	stubBars, err := plotter.NewBarChart(stubs, width)
	if err != nil {
		return nil, fmt.Errorf("plotting stubs: %w", err)
	}

	stubBars.Color = stubColor
	stubBars.LineStyle.Width = 0

	lineBars, err := plotter.NewBarChart(lines, width)
	if err != nil {
		return nil, fmt.Errorf("plotting unit elements: %w", err)
	}

	lineBars.Color = lineColor
	lineBars.LineStyle.Width = 0

	z0 := d.ReferenceImpedance
	ref := plotter.NewFunction(func(float64) float64 { return z0 })
	ref.Color = refColor
	ref.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(stubBars, lineBars, ref, plotter.NewGrid())
	p.NominalX(names...)

	p.Legend.Add("stub", stubBars)
	p.Legend.Add("unit element", lineBars)
	p.Legend.Add(fmt.Sprintf("Z0 = %g Ω", z0), ref)
	p.Legend.Top = true

	return p, nil
}

// Render draws the profile of d in format ("png", "svg" or "pdf").
func Render(d *design.Design, format string) ([]byte, error) {
	switch format {
	case "png", "svg", "pdf":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	p, err := New(d)
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return nil, fmt.Errorf("rendering %s plot: %w", format, err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("rendering %s plot: %w", format, err)
	}

	return buf.Bytes(), nil
}
