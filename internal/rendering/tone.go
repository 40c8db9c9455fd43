package rendering

import (
	"strings"

	"github.com/ritikiit/careergps1/internal/types"
)

// Tone is the colour family used to style a badge or cue. Templates turn it into
// class names such as "badge-emerald" or "text-emerald-600".
type Tone string

// Tones. ToneNeutral is the fallback for labels outside the known set.
const (
	ToneEmerald Tone = "emerald"
	ToneAmber   Tone = "amber"
	ToneSlate   Tone = "slate"
	ToneRed     Tone = "red"
	ToneNeutral Tone = "neutral"
)

// ImportanceTone maps a gap importance to a tone. Matching ignores case.
func ImportanceTone(i types.Importance) Tone {
	switch strings.ToLower(strings.TrimSpace(string(i))) {
	case "high":
		return ToneEmerald
	case "medium":
		return ToneAmber
	case "low":
		return ToneSlate
	default:
		return ToneNeutral
	}
}

// ROITone maps a skill ROI category to a tone. Matching is exact.
func ROITone(c types.ROICategory) Tone {
	switch c {
	case types.ROICareerAccelerator:
		return ToneEmerald
	case types.ROIHygieneRequirement:
		return ToneAmber
	case types.ROIOptionalLow:
		return ToneSlate
	default:
		return ToneNeutral
	}
}

// LikelihoodTone maps a decision likelihood to a tone. Anything other than
// High or Medium reads as red.
func LikelihoodTone(l types.Likelihood) Tone {
	switch l {
	case types.LikelihoodHigh:
		return ToneEmerald
	case types.LikelihoodMedium:
		return ToneAmber
	default:
		return ToneRed
	}
}

// LikelihoodScore is the progress bar fill, in percent, for a likelihood.
func LikelihoodScore(l types.Likelihood) int {
	switch l {
	case types.LikelihoodHigh:
		return 85
	case types.LikelihoodMedium:
		return 50
	default:
		return 20
	}
}

// PrintClass is the text colour class the print stylesheet keeps for t.
func (t Tone) PrintClass() string {
	switch t {
	case ToneEmerald, ToneAmber, ToneRed:
		return "text-" + string(t) + "-600"
	default:
		return "text-slate-500"
	}
}
