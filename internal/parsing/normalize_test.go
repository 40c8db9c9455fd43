package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/ritikiit/careergps1/internal/types"
)

func TestNormalizePhases_SingleAndListAgree(t *testing.T) {
	single := gjson.Parse(`{"actions": ["a", "b"], "deliverable": "d", "why_now": "w"}`)
	list := gjson.Parse(`[{"actions": ["a", "b"], "deliverable": "d", "why_now": "w"}]`)

	fromSingle := NormalizePhases(single)
	fromList := NormalizePhases(list)

	require.Len(t, fromSingle, 1)
	assert.Equal(t, fromSingle, fromList)
	assert.Equal(t, []string{"a", "b"}, fromSingle[0].Actions)
	assert.True(t, fromSingle[0].ActionsAvailable)
}

func TestNormalizePhases_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "missing", input: ``, want: 0},
		{name: "null", input: `null`, want: 0},
		{name: "string", input: `"do things"`, want: 0},
		{name: "empty list", input: `[]`, want: 0},
		{name: "two phases", input: `[{"deliverable": "x"}, {"deliverable": "y"}]`, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, NormalizePhases(gjson.Parse(tt.input)), tt.want)
		})
	}
}

func TestNormalizeReport_MissingDeliverable(t *testing.T) {
	doc := gjson.Parse(`{"90_day_action_plan": {
		"weeks_1_4": {"actions": ["x"], "why_now": "now"},
		"weeks_5_8": {"actions": ["y"], "deliverable": "d2", "why_now": "now"},
		"weeks_9_12": {"actions": ["z"], "deliverable": "d3", "why_now": "now"}
	}}`)

	report := NormalizeReport(doc)
	require.Len(t, report.ActionPlan, 3)
	first := report.ActionPlan[0].Phases[0]
	assert.Empty(t, first.Deliverable)
	assert.Equal(t, types.DefaultDeliverable, first.DeliverableOrDefault())
}

func TestNormalizeReport_ActionsNotAList(t *testing.T) {
	doc := gjson.Parse(`{"90_day_action_plan": {"weeks_1_4": {"actions": "read a book"}}}`)

	report := NormalizeReport(doc)
	phase := report.ActionPlan[0].Phases[0]
	assert.False(t, phase.ActionsAvailable)
	assert.Empty(t, phase.Actions)
}

func TestNormalizeReport_PlanKeyOrder(t *testing.T) {
	doc := gjson.Parse(`{"90_day_action_plan": {
		"bonus_round": {"deliverable": "extra"},
		"weeks_9_12": {"deliverable": "c"},
		"weeks_1_4": {"deliverable": "a"},
		"weeks_5_8": {"deliverable": "b"}
	}}`)

	plan := NormalizeReport(doc).ActionPlan
	require.Len(t, plan, 4)
	keys := []string{plan[0].Key, plan[1].Key, plan[2].Key, plan[3].Key}
	assert.Equal(t, []string{"weeks_1_4", "weeks_5_8", "weeks_9_12", "bonus_round"}, keys)
	assert.Equal(t, "bonus round", plan[3].Label)
}

func TestNormalizeReport_MissingPlanKeepsFixedPhases(t *testing.T) {
	plan := NormalizeReport(gjson.Parse(`{}`)).ActionPlan
	require.Len(t, plan, 3)
	for _, group := range plan {
		assert.Empty(t, group.Phases)
	}
}

func TestNormalizeReport_LenientTypes(t *testing.T) {
	doc := gjson.Parse(`{
		"career_snapshot": {"nested": true},
		"career_distance_map": {"skill_gaps": {"missing": "not a list"}, "experience_gaps": [{"missing": 42, "importance": "HIGH"}]},
		"decision_simulator": {"option_a": {"likelihood": "Certain"}},
		"executive_summary": "one line",
		"skill_roi_prioritization": [{"skill": "SQL", "roi": "career accelerator"}]
	}`)

	report := NormalizeReport(doc)
	assert.Empty(t, report.Snapshot)
	assert.Empty(t, report.DistanceMap.SkillGaps)
	require.Len(t, report.DistanceMap.ExperienceGaps, 1)
	assert.Equal(t, "42", report.DistanceMap.ExperienceGaps[0].Missing)
	assert.Equal(t, types.Importance("HIGH"), report.DistanceMap.ExperienceGaps[0].Importance)
	assert.Equal(t, types.Likelihood("Certain"), report.DecisionSimulator.OptionA.Likelihood)
	assert.Empty(t, report.ExecutiveSummary)
	assert.Equal(t, types.ROICategory("career accelerator"), report.SkillROI[0].ROI)
}
