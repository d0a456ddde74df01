package docs

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"
)

// Formatter renders a DocModel to a writer.
type Formatter interface {
	Format(w io.Writer, model *DocModel) error
}

// NewFormatter returns a formatter for the given format name.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "markdown", "md":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported datasheet format: %s", format)
	}
}

// ---------------------------------------------------------------------------
// Markdown
// ---------------------------------------------------------------------------

// MarkdownFormatter renders the datasheet as Markdown.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, model *DocModel) error {
	fmt.Fprintf(w, "# %s\n\n", model.Title)
	fmt.Fprintf(w, "**Prototype table:** `%s`  \n", model.Table)
	fmt.Fprintf(w, "**Reference impedance:** %g Ω  \n", model.ReferenceImpedance)

	if model.Pivot >= 0 {
		fmt.Fprintf(w, "**Pivot:** %d  \n", model.Pivot)
		fmt.Fprintf(w, "**Goodness:** %.4f  \n", model.Goodness)
	} else {
		fmt.Fprintln(w, "**Pivot:** none (no shunt element)  ")
	}

	fmt.Fprintln(w)

	if len(model.Prototype) > 0 {
		fmt.Fprintf(w, "## Prototype\n\n")
		fmt.Fprintln(w, "| g | Element | Value |")
		fmt.Fprintln(w, "|---|---------|-------|")

		for _, p := range model.Prototype {
			fmt.Fprintf(w, "| %s | %s | %.4f |\n", p.Name, p.Element, p.Value)
		}

		fmt.Fprintln(w)
	}

	if len(model.Sections) > 0 {
		fmt.Fprintf(w, "## Realization\n\n")

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

		fmt.Fprintln(tw, "| #\t| Role\t| Element\t| Normalized\t| Impedance (Ω)\t|")
		fmt.Fprintln(tw, "|---\t|------\t|---------\t|------------\t|---------------\t|")

		for _, s := range model.Sections {
			fmt.Fprintf(tw, "| %d\t| %s\t| %s\t| %.4f\t| %.2f\t|\n",
				s.Position, s.Role, s.Element, s.Normalized, s.Impedance)
		}

		if err := tw.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(w)
	}

	if len(model.Candidates) > 1 {
		fmt.Fprintf(w, "## Candidates\n\n")
		fmt.Fprintln(w, "| Pivot | Goodness | Selected |")
		fmt.Fprintln(w, "|-------|----------|----------|")

		for _, c := range model.Candidates {
			sel := ""
			if c.Selected {
				sel = "yes"
			}

			fmt.Fprintf(w, "| %d | %.4f | %s |\n", c.Pivot, c.Goodness, sel)
		}

		fmt.Fprintln(w)
	}

	if model.IncludeDocument {
		fmt.Fprintf(w, "## Design document\n\n```yaml\n%s```\n", model.Document())
	}

	return nil
}

// ---------------------------------------------------------------------------
// HTML
// ---------------------------------------------------------------------------

// HTMLFormatter renders the datasheet as a standalone HTML page.
type HTMLFormatter struct{}

var htmlTpl = template.Must(template.New("datasheet").Funcs(template.FuncMap{
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f4": func(v float64) string { return fmt.Sprintf("%.4f", v) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:sans-serif;margin:2em;line-height:1.6}
table{border-collapse:collapse;margin-bottom:1em}
th,td{border:1px solid #ddd;padding:6px 12px;text-align:right}
th{background:#f5f5f5}
tr.stub td{background:#f3fbf6}
tr.selected td{font-weight:bold}
code{background:#f0f0f0;padding:2px 4px;border-radius:3px}
pre{background:#f5f5f5;padding:1em;border-radius:4px;overflow-x:auto}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p><strong>Prototype table:</strong> <code>{{.Table}}</code></p>
<p><strong>Reference impedance:</strong> {{.ReferenceImpedance}} Ω</p>
{{if ge .Pivot 0}}<p><strong>Pivot:</strong> {{.Pivot}}, <strong>goodness:</strong> {{f4 .Goodness}}</p>{{else}}<p><strong>Pivot:</strong> none (no shunt element)</p>{{end}}

{{if .Prototype}}
<h2>Prototype</h2>
<table>
<tr><th>g</th><th>Element</th><th>Value</th></tr>
{{range .Prototype}}<tr><td>{{.Name}}</td><td>{{.Element}}</td><td>{{f4 .Value}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Sections}}
<h2>Realization</h2>
<table>
<tr><th>#</th><th>Role</th><th>Element</th><th>Normalized</th><th>Impedance (Ω)</th></tr>
{{range .Sections}}<tr{{if eq .Role "stub"}} class="stub"{{end}}><td>{{.Position}}</td><td>{{.Role}}</td><td>{{.Element}}</td><td>{{f4 .Normalized}}</td><td>{{f2 .Impedance}}</td></tr>
{{end}}
</table>
{{end}}

{{if gt (len .Candidates) 1}}
<h2>Candidates</h2>
<table>
<tr><th>Pivot</th><th>Goodness</th></tr>
{{range .Candidates}}<tr{{if .Selected}} class="selected"{{end}}><td>{{.Pivot}}</td><td>{{f4 .Goodness}}</td></tr>
{{end}}
</table>
{{end}}

{{if .IncludeDocument}}
<h2>Design document</h2>
<pre><code>{{.Document}}</code></pre>
{{end}}

</body>
</html>
`))

func (f *HTMLFormatter) Format(w io.Writer, model *DocModel) error {
	return htmlTpl.Execute(w, model)
}
