package parsing

import (
	"github.com/tidwall/gjson"

	"github.com/ritikiit/careergps1/internal/types"
)

// NormalizeReport maps a decoded response onto the typed Report. Values pass through
// verbatim; a field of the wrong JSON type reads as its zero value instead of failing.
// Action plan entries are always normalized to a list of phases.
func NormalizeReport(doc gjson.Result) *types.Report {
	distance := doc.Get("career_distance_map")
	sim := doc.Get("decision_simulator")

	return &types.Report{
		Snapshot: text(doc.Get("career_snapshot")),
		DistanceMap: types.DistanceMap{
			SkillGaps:          gaps(distance.Get(types.GapKeySkill)),
			ExperienceGaps:     gaps(distance.Get(types.GapKeyExperience)),
			RoleExposureGaps:   gaps(distance.Get(types.GapKeyRoleExposure)),
			BusinessImpactGaps: gaps(distance.Get(types.GapKeyBusinessImpact)),
		},
		RealityCheck:    text(doc.Get("reality_check")),
		AgeStageContext: text(doc.Get("age_stage_context")),
		// Keys starting with a digit need no escaping in gjson paths.
		ActionPlan: actionPlan(doc.Get("90_day_action_plan")),
		DecisionSimulator: types.DecisionSimulator{
			OptionA: option(sim.Get("option_a")),
			OptionB: option(sim.Get("option_b")),
			OptionC: option(sim.Get("option_c")),
		},
		PositioningStrategy: text(doc.Get("positioning_strategy")),
		SkillROI:            skillROI(doc.Get("skill_roi_prioritization")),
		FailureModes:        failureModes(doc.Get("common_failure_modes")),
		Sustainability:      text(doc.Get("long_term_sustainability")),
		ExecutiveSummary:    textList(doc.Get("executive_summary")),
	}
}

// NormalizePhases turns a phase value into a list: an object becomes a one-element
// list, a list is kept as is, anything else yields no phases.
func NormalizePhases(v gjson.Result) []types.Phase {
	switch {
	case v.IsArray():
		var out []types.Phase
		v.ForEach(func(_, item gjson.Result) bool {
			out = append(out, phase(item))
			return true
		})
		return out
	case v.IsObject():
		return []types.Phase{phase(v)}
	default:
		return nil
	}
}

// actionPlan emits the three fixed phases first, then any extra keys in document order.
func actionPlan(v gjson.Result) types.ActionPlan {
	known := make(map[string]bool)
	plan := make(types.ActionPlan, 0, 3)
	for _, key := range types.PhaseKeys() {
		known[key] = true
		plan = append(plan, types.PhaseGroup{
			Key:    key,
			Label:  types.FormatPhaseName(key),
			Phases: NormalizePhases(v.Get(key)),
		})
	}

	if v.IsObject() {
		v.ForEach(func(key, value gjson.Result) bool {
			k := key.String()
			if !known[k] {
				plan = append(plan, types.PhaseGroup{
					Key:    k,
					Label:  types.FormatPhaseName(k),
					Phases: NormalizePhases(value),
				})
			}
			return true
		})
	}
	return plan
}

func phase(v gjson.Result) types.Phase {
	p := types.Phase{
		Deliverable: text(v.Get("deliverable")),
		WhyNow:      text(v.Get("why_now")),
	}
	if actions := v.Get("actions"); actions.IsArray() {
		p.ActionsAvailable = true
		p.Actions = textList(actions)
	}
	return p
}

func gaps(v gjson.Result) []types.Gap {
	var out []types.Gap
	each(v, func(item gjson.Result) {
		out = append(out, types.Gap{
			Missing:    text(item.Get("missing")),
			Importance: types.Importance(text(item.Get("importance"))),
			Reason:     text(item.Get("reason")),
		})
	})
	return out
}

func option(v gjson.Result) types.Option {
	return types.Option{
		Likelihood: types.Likelihood(text(v.Get("likelihood"))),
		Upside:     text(v.Get("upside")),
		Risk:       text(v.Get("risk")),
		BestFor:    text(v.Get("best_for")),
		AvoidWhen:  text(v.Get("avoid_when")),
	}
}

func skillROI(v gjson.Result) []types.SkillROIItem {
	var out []types.SkillROIItem
	each(v, func(item gjson.Result) {
		out = append(out, types.SkillROIItem{
			Skill:        text(item.Get("skill")),
			ROI:          types.ROICategory(text(item.Get("roi"))),
			TimeToImpact: text(item.Get("time_to_impact")),
		})
	})
	return out
}

func failureModes(v gjson.Result) []types.FailureMode {
	var out []types.FailureMode
	each(v, func(item gjson.Result) {
		out = append(out, types.FailureMode{
			Mistake:   text(item.Get("mistake")),
			Impact:    text(item.Get("impact")),
			Avoidance: text(item.Get("avoidance")),
		})
	})
	return out
}

// textList keeps an empty array non-nil so it survives a JSON round trip as [].
func textList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	out := []string{}
	each(v, func(item gjson.Result) {
		out = append(out, text(item))
	})
	return out
}

// each visits array elements; non-arrays are treated as empty.
func each(v gjson.Result, fn func(gjson.Result)) {
	if !v.IsArray() {
		return
	}
	v.ForEach(func(_, item gjson.Result) bool {
		fn(item)
		return true
	})
}

// text reads scalars as strings. Objects and arrays read as empty.
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	default:
		return ""
	}
}
