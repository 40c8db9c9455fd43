package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ritikiit/careergps1/internal/types"
)

func TestImportanceTone(t *testing.T) {
	tests := []struct {
		label string
		want  Tone
	}{
		{"High", ToneEmerald},
		{"high", ToneEmerald},
		{"HIGH", ToneEmerald},
		{"Medium", ToneAmber},
		{"Low", ToneSlate},
		{"", ToneNeutral},
		{"Critical", ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ImportanceTone(types.Importance(tt.label)))
		})
	}
}

func TestROITone(t *testing.T) {
	tests := []struct {
		label string
		want  Tone
	}{
		{"Career Accelerator", ToneEmerald},
		{"Hygiene Requirement", ToneAmber},
		{"Optional / Low ROI", ToneSlate},
		{"career accelerator", ToneNeutral},
		{"Optional", ToneNeutral},
		{"", ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ROITone(types.ROICategory(tt.label)))
		})
	}
}

func TestLikelihood(t *testing.T) {
	tests := []struct {
		label string
		tone  Tone
		score int
	}{
		{"High", ToneEmerald, 85},
		{"Medium", ToneAmber, 50},
		{"Low", ToneRed, 20},
		{"high", ToneRed, 20},
		{"Certain", ToneRed, 20},
		{"", ToneRed, 20},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			l := types.Likelihood(tt.label)
			assert.Equal(t, tt.tone, LikelihoodTone(l))
			assert.Equal(t, tt.score, LikelihoodScore(l))
		})
	}
}
