package rendering

import (
	"github.com/ritikiit/careergps1/internal/types"
)

// Step is the screen the application page shows.
type Step string

// Steps of the application page.
const (
	StepInput   Step = "input"
	StepLoading Step = "loading"
	StepResults Step = "results"
)

// HorizonOption is one choice of the horizon selector.
type HorizonOption struct {
	Label    string
	Selected bool
}

// FormView holds the values echoed back into the input form.
type FormView struct {
	Role       string
	Experience string
	Industry   string
	Target     string
	Horizons   []HorizonOption
}

// NewFormView fills the form from req. An unknown horizon selects the default.
func NewFormView(req types.ReportRequest) FormView {
	selected := req.Horizon
	if !selected.Known() {
		selected = types.DefaultHorizon
	}

	form := FormView{
		Role:       req.Role,
		Experience: req.Experience,
		Industry:   req.Industry,
		Target:     req.Target,
	}
	for _, h := range types.Horizons() {
		form.Horizons = append(form.Horizons, HorizonOption{Label: string(h), Selected: h == selected})
	}
	return form
}

// PageView is the whole application page for one session.
type PageView struct {
	Step      Step
	Form      FormView
	Error     string
	Notice    string
	Dashboard *DashboardView
	Branding  Branding
}

// Input reports whether the form is shown.
func (p PageView) Input() bool { return p.Step == StepInput }

// Loading reports whether the loading screen is shown.
func (p PageView) Loading() bool { return p.Step == StepLoading }

// Results reports whether the dashboard is shown.
func (p PageView) Results() bool { return p.Step == StepResults && p.Dashboard != nil }
