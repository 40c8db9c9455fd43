package types

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// Importance rates how much a gap matters.
type Importance string

// Importance labels emitted by the model.
const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
)

// Likelihood rates the success probability of a decision option.
type Likelihood string

// Likelihood labels emitted by the model.
const (
	LikelihoodLow    Likelihood = "Low"
	LikelihoodMedium Likelihood = "Medium"
	LikelihoodHigh   Likelihood = "High"
)

// ROICategory classifies the return of investing in a skill.
type ROICategory string

// ROI labels emitted by the model.
const (
	ROICareerAccelerator  ROICategory = "Career Accelerator"
	ROIHygieneRequirement ROICategory = "Hygiene Requirement"
	ROIOptionalLow        ROICategory = "Optional / Low ROI"
)

// Gap is a named deficiency with an importance rating and rationale.
type Gap struct {
	Missing    string     `json:"missing"`
	Importance Importance `json:"importance"`
	Reason     string     `json:"reason"`
}

// Distance map keys as emitted by the model.
const (
	GapKeySkill          = "skill_gaps"
	GapKeyExperience     = "experience_gaps"
	GapKeyRoleExposure   = "role_exposure_gaps"
	GapKeyBusinessImpact = "business_impact_gaps"
)

// DistanceMap groups gaps into four fixed categories.
type DistanceMap struct {
	SkillGaps          []Gap `json:"skill_gaps"`
	ExperienceGaps     []Gap `json:"experience_gaps"`
	RoleExposureGaps   []Gap `json:"role_exposure_gaps"`
	BusinessImpactGaps []Gap `json:"business_impact_gaps"`
}

// GapCategory is one distance map category ready for display.
type GapCategory struct {
	Key   string
	Label string
	Gaps  []Gap
}

// Categories returns the four categories in declared order.
func (m DistanceMap) Categories() []GapCategory {
	return []GapCategory{
		{Key: GapKeySkill, Label: keyLabel(GapKeySkill), Gaps: m.SkillGaps},
		{Key: GapKeyExperience, Label: keyLabel(GapKeyExperience), Gaps: m.ExperienceGaps},
		{Key: GapKeyRoleExposure, Label: keyLabel(GapKeyRoleExposure), Gaps: m.RoleExposureGaps},
		{Key: GapKeyBusinessImpact, Label: keyLabel(GapKeyBusinessImpact), Gaps: m.BusinessImpactGaps},
	}
}

// DefaultDeliverable is shown when a phase has no deliverable.
const DefaultDeliverable = "Clear progress"

// Phase is a time-boxed block of the 90-day plan.
type Phase struct {
	Actions []string `json:"actions"`
	// ActionsAvailable is false when the model sent something other than a list of actions.
	ActionsAvailable bool   `json:"-"`
	Deliverable      string `json:"deliverable"`
	WhyNow           string `json:"why_now"`
}

// DeliverableOrDefault returns the deliverable, or DefaultDeliverable when it is blank.
func (p Phase) DeliverableOrDefault() string {
	if strings.TrimSpace(p.Deliverable) == "" {
		return DefaultDeliverable
	}
	return p.Deliverable
}

// Action plan keys as emitted by the model.
const (
	PhaseKeyWeeks1to4  = "weeks_1_4"
	PhaseKeyWeeks5to8  = "weeks_5_8"
	PhaseKeyWeeks9to12 = "weeks_9_12"
)

// PhaseKeys returns the fixed phase keys in plan order.
func PhaseKeys() []string {
	return []string{PhaseKeyWeeks1to4, PhaseKeyWeeks5to8, PhaseKeyWeeks9to12}
}

// PhaseGroup is one action plan entry. The model may send a single phase or a list
// under the same key; both normalize to Phases.
type PhaseGroup struct {
	Key    string
	Label  string
	Phases []Phase
}

// ActionPlan is the ordered 90-day plan.
type ActionPlan []PhaseGroup

// MarshalJSON writes the plan as an object whose keys keep plan order.
func (p ActionPlan) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Key)
		if err != nil {
			return nil, err
		}
		phases := group.Phases
		if phases == nil {
			phases = []Phase{}
		}
		value, err := json.Marshal(phases)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Option is one simulated career path.
type Option struct {
	Likelihood Likelihood `json:"likelihood"`
	Upside     string     `json:"upside"`
	Risk       string     `json:"risk"`
	BestFor    string     `json:"best_for"`
	AvoidWhen  string     `json:"avoid_when"`
}

// DecisionSimulator holds exactly three options.
type DecisionSimulator struct {
	OptionA Option `json:"option_a"`
	OptionB Option `json:"option_b"`
	OptionC Option `json:"option_c"`
}

// NamedOption pairs an option with its display label.
type NamedOption struct {
	Key   string
	Label string
	Option
}

// Options returns the options in a, b, c order.
func (d DecisionSimulator) Options() []NamedOption {
	return []NamedOption{
		{Key: "option_a", Label: "Option A", Option: d.OptionA},
		{Key: "option_b", Label: "Option B", Option: d.OptionB},
		{Key: "option_c", Label: "Option C", Option: d.OptionC},
	}
}

// SkillROIItem ranks one skill by return on effort.
type SkillROIItem struct {
	Skill        string      `json:"skill"`
	ROI          ROICategory `json:"roi"`
	TimeToImpact string      `json:"time_to_impact"`
}

// FailureMode is a common mistake with its impact and avoidance.
type FailureMode struct {
	Mistake   string `json:"mistake"`
	Impact    string `json:"impact"`
	Avoidance string `json:"avoidance"`
}

// Report is the career strategy produced from one model call.
type Report struct {
	Snapshot            string            `json:"career_snapshot"`
	DistanceMap         DistanceMap       `json:"career_distance_map"`
	RealityCheck        string            `json:"reality_check"`
	AgeStageContext     string            `json:"age_stage_context"`
	ActionPlan          ActionPlan        `json:"90_day_action_plan"`
	DecisionSimulator   DecisionSimulator `json:"decision_simulator"`
	PositioningStrategy string            `json:"positioning_strategy"`
	SkillROI            []SkillROIItem    `json:"skill_roi_prioritization"`
	FailureModes        []FailureMode     `json:"common_failure_modes"`
	Sustainability      string            `json:"long_term_sustainability"`
	ExecutiveSummary    []string          `json:"executive_summary"`
}

// unrealisticMarker in the reality check switches its block to warning styling.
const unrealisticMarker = "not realistic"

// IsUnrealistic reports whether the reality check calls the target not realistic.
func (r *Report) IsUnrealistic() bool {
	return strings.Contains(strings.ToLower(r.RealityCheck), unrealisticMarker)
}

// Bundle is a saved report together with the inputs that produced it.
type Bundle struct {
	Request     ReportRequest `json:"request"`
	Report      *Report       `json:"report"`
	Model       string        `json:"model,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

var weeksKeyPattern = regexp.MustCompile(`weeks_(\d+)_(\d+)`)

// FormatPhaseName turns "weeks_1_4" into "Weeks 1-4". Other keys have underscores
// replaced by spaces.
func FormatPhaseName(key string) string {
	if m := weeksKeyPattern.FindStringSubmatch(key); m != nil {
		return "Weeks " + m[1] + "-" + m[2]
	}
	return keyLabel(key)
}

func keyLabel(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
