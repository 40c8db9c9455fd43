package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() ReportRequest {
	return ReportRequest{
		Role:       "Student",
		Experience: "0",
		Industry:   "Technology",
		Target:     "Software Engineer",
		Horizon:    HorizonOneYear,
	}
}

func TestReportRequest_Validate_Valid(t *testing.T) {
	req := validRequest()
	assert.NoError(t, req.Validate())
}

func TestReportRequest_Validate_MissingFields(t *testing.T) {
	req := validRequest()
	req.Role = ""
	req.Target = "   "

	err := req.Validate()
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ElementsMatch(t, []string{"role", "target"}, vErr.Fields)
	assert.Contains(t, err.Error(), "role")
}

func TestReportRequest_Validate_Horizon(t *testing.T) {
	tests := []struct {
		name    string
		horizon Horizon
		wantErr bool
	}{
		{name: "six months", horizon: HorizonSixMonths},
		{name: "one year", horizon: HorizonOneYear},
		{name: "three years", horizon: HorizonThreeYears},
		{name: "five plus", horizon: HorizonFivePlus},
		{name: "wrong case", horizon: "1 year", wantErr: true},
		{name: "unknown", horizon: "10 Years", wantErr: true},
		{name: "empty", horizon: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			req.Horizon = tt.horizon
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHorizons_Order(t *testing.T) {
	assert.Equal(t, []Horizon{"6 Months", "1 Year", "3 Years", "5+ Years"}, Horizons())
	assert.True(t, DefaultHorizon.Known())
}
