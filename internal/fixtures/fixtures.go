// Package fixtures ships a sample model response and request for previews and tests.
package fixtures

import (
	_ "embed"

	"github.com/ritikiit/careergps1/internal/types"
)

//go:embed sample_report.json
var sampleReport string

// SampleResponse returns the raw text of a well-formed model response.
func SampleResponse() string {
	return sampleReport
}

// SampleRequest returns the request that goes with SampleResponse.
func SampleRequest() types.ReportRequest {
	return types.ReportRequest{
		Role:       "Student",
		Experience: "0",
		Industry:   "Technology",
		Target:     "Software Engineer",
		Horizon:    types.HorizonOneYear,
	}
}
