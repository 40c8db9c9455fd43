package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/ritikiit/careergps1/internal/types"
)

//go:embed templates/*.html
var templateFiles embed.FS

// BadgeView is a label with its tone.
type BadgeView struct {
	Label string
	Tone  Tone
}

var funcs = template.FuncMap{
	"noGaps":             func() string { return NoGapsPlaceholder },
	"actionsUnavailable": func() string { return ActionsUnavailable },
	"badge": func(label string, tone Tone) BadgeView {
		return BadgeView{Label: label, Tone: tone}
	},
}

// Projector renders reports into the interactive and print HTML views.
// It is safe for concurrent use.
type Projector struct {
	tmpl     *template.Template
	branding Branding
}

// NewProjector parses the embedded templates.
func NewProjector(branding Branding) (*Projector, error) {
	tmpl, err := template.New("careergps").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse templates", Cause: err}
	}
	return &Projector{tmpl: tmpl, branding: branding}, nil
}

// Branding returns the branding the projector stamps on every view.
func (p *Projector) Branding() Branding {
	return p.branding
}

// Page renders the application page.
func (p *Projector) Page(w io.Writer, view PageView) error {
	view.Branding = p.branding
	if view.Dashboard != nil {
		view.Dashboard.Branding = p.branding
	}
	return p.execute(w, "page", view)
}

// Dashboard renders the interactive projection as a standalone document.
func (p *Projector) Dashboard(w io.Writer, req types.ReportRequest, report *types.Report) error {
	return p.execute(w, "dashboard-document", BuildDashboard(req, report, p.branding))
}

// Print renders the five-page print projection.
func (p *Projector) Print(w io.Writer, req types.ReportRequest, report *types.Report) error {
	return p.execute(w, "print", BuildPrint(req, report, p.branding))
}

// PrintHTML is Print into a string.
func (p *Projector) PrintHTML(req types.ReportRequest, report *types.Report) (string, error) {
	var buf bytes.Buffer
	if err := p.Print(&buf, req, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// execute renders into a buffer first so a failing template never leaves a
// partial document in w.
func (p *Projector) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return &TemplateError{Message: "failed to execute " + name, Cause: err}
	}
	if _, err := buf.WriteTo(w); err != nil {
		return &RenderError{Message: "failed to write " + name, Cause: err}
	}
	return nil
}
