package rendering

import (
	"github.com/ritikiit/careergps1/internal/types"
)

// NoGapsPlaceholder replaces an empty distance map category.
const NoGapsPlaceholder = "No significant gaps identified in this category."

// ActionsUnavailable replaces a phase whose actions are not a list.
const ActionsUnavailable = "Action data unavailable"

// PrintPageCount is the fixed number of pages in the print projection.
const PrintPageCount = 5

// Branding holds the product and attribution strings shown in headers and footers.
type Branding struct {
	ProductName string
	Author      string
	AuthorURL   string
}

// DefaultBranding returns the stock product branding.
func DefaultBranding() Branding {
	return Branding{
		ProductName: "Career GPS",
		Author:      "Ritik",
		AuthorURL:   "https://www.linkedin.com/in/yadavritik",
	}
}

// GapView is one gap row.
type GapView struct {
	Missing    string
	Importance string
	Tone       Tone
	Reason     string
}

// CategoryView is one distance map category. Empty is set when it has no gaps.
type CategoryView struct {
	Key   string
	Label string
	Gaps  []GapView
	Empty bool
}

// OptionView is one decision simulator option.
type OptionView struct {
	Key        string
	Label      string
	Likelihood string
	Tone       Tone
	Score      int
	Upside     string
	Risk       string
	BestFor    string
	AvoidWhen  string
}

// PhaseView is one phase inside an action plan entry.
type PhaseView struct {
	Deliverable      string
	Actions          []string
	ActionsAvailable bool
	WhyNow           string
}

// PhaseGroupView is one action plan entry with its timeline position.
type PhaseGroupView struct {
	Number int
	Label  string
	Last   bool
	Phases []PhaseView
}

// SkillView is one row of the skill ROI table.
type SkillView struct {
	Skill        string
	ROI          string
	Tone         Tone
	TimeToImpact string
}

// ReportView is the display form of a report shared by both projections.
type ReportView struct {
	Request          types.ReportRequest
	Snapshot         string
	RealityCheck     string
	Unrealistic      bool
	StageContext     string
	Categories       []CategoryView
	Options          []OptionView
	Plan             []PhaseGroupView
	SkillROI         []SkillView
	FailureModes     []types.FailureMode
	Positioning      string
	Sustainability   string
	ExecutiveSummary []string
}

// DashboardView feeds the interactive projection.
type DashboardView struct {
	ReportView
	Branding Branding
	// ExportURL links the download action. Empty hides it.
	ExportURL string
	// Downloading disables the export action while an export runs.
	Downloading bool
}

// PrintView feeds the print projection.
type PrintView struct {
	ReportView
	Branding Branding
}

// FooterView is the footer carried by every print page.
type FooterView struct {
	Branding
	Page  int
	Pages int
}

// Footer returns the footer for page n.
func (v PrintView) Footer(n int) FooterView {
	return FooterView{Branding: v.Branding, Page: n, Pages: PrintPageCount}
}

// BuildDashboard projects a report for the interactive view.
func BuildDashboard(req types.ReportRequest, report *types.Report, branding Branding) DashboardView {
	return DashboardView{ReportView: buildReportView(req, report), Branding: branding}
}

// BuildPrint projects a report for the print view.
func BuildPrint(req types.ReportRequest, report *types.Report, branding Branding) PrintView {
	return PrintView{ReportView: buildReportView(req, report), Branding: branding}
}

func buildReportView(req types.ReportRequest, report *types.Report) ReportView {
	if report == nil {
		report = &types.Report{}
	}

	view := ReportView{
		Request:          req,
		Snapshot:         report.Snapshot,
		RealityCheck:     report.RealityCheck,
		Unrealistic:      report.IsUnrealistic(),
		StageContext:     report.AgeStageContext,
		FailureModes:     report.FailureModes,
		Positioning:      report.PositioningStrategy,
		Sustainability:   report.Sustainability,
		ExecutiveSummary: report.ExecutiveSummary,
	}

	for _, cat := range report.DistanceMap.Categories() {
		cv := CategoryView{Key: cat.Key, Label: cat.Label, Empty: len(cat.Gaps) == 0}
		for _, gap := range cat.Gaps {
			cv.Gaps = append(cv.Gaps, GapView{
				Missing:    gap.Missing,
				Importance: string(gap.Importance),
				Tone:       ImportanceTone(gap.Importance),
				Reason:     gap.Reason,
			})
		}
		view.Categories = append(view.Categories, cv)
	}

	for _, opt := range report.DecisionSimulator.Options() {
		view.Options = append(view.Options, OptionView{
			Key:        opt.Key,
			Label:      opt.Label,
			Likelihood: string(opt.Likelihood),
			Tone:       LikelihoodTone(opt.Likelihood),
			Score:      LikelihoodScore(opt.Likelihood),
			Upside:     opt.Upside,
			Risk:       opt.Risk,
			BestFor:    opt.BestFor,
			AvoidWhen:  opt.AvoidWhen,
		})
	}

	for i, group := range report.ActionPlan {
		gv := PhaseGroupView{
			Number: i + 1,
			Label:  group.Label,
			Last:   i == len(report.ActionPlan)-1,
		}
		phases := group.Phases
		if len(phases) == 0 {
			// A missing entry still renders with its placeholders.
			phases = []types.Phase{{}}
		}
		for _, phase := range phases {
			gv.Phases = append(gv.Phases, PhaseView{
				Deliverable:      phase.DeliverableOrDefault(),
				Actions:          phase.Actions,
				ActionsAvailable: phase.ActionsAvailable,
				WhyNow:           phase.WhyNow,
			})
		}
		view.Plan = append(view.Plan, gv)
	}

	for _, item := range report.SkillROI {
		view.SkillROI = append(view.SkillROI, SkillView{
			Skill:        item.Skill,
			ROI:          string(item.ROI),
			Tone:         ROITone(item.ROI),
			TimeToImpact: item.TimeToImpact,
		})
	}

	return view
}
