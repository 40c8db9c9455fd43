// Package types provides type definitions for structured data used throughout the career report system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Horizon is the time horizon the user plans against.
type Horizon string

// Horizon labels offered by the input form.
const (
	HorizonSixMonths  Horizon = "6 Months"
	HorizonOneYear    Horizon = "1 Year"
	HorizonThreeYears Horizon = "3 Years"
	HorizonFivePlus   Horizon = "5+ Years"
)

// DefaultHorizon is preselected on a fresh form.
const DefaultHorizon = HorizonOneYear

// Horizons returns the selectable horizons in display order.
func Horizons() []Horizon {
	return []Horizon{HorizonSixMonths, HorizonOneYear, HorizonThreeYears, HorizonFivePlus}
}

// Known reports whether h is one of the fixed horizon labels.
func (h Horizon) Known() bool {
	for _, known := range Horizons() {
		if h == known {
			return true
		}
	}
	return false
}

// ReportRequest holds the fields collected by the input form.
type ReportRequest struct {
	Role       string  `json:"role" validate:"required,notblank"`
	Experience string  `json:"experience" validate:"required,notblank"`
	Industry   string  `json:"industry" validate:"required,notblank"`
	Target     string  `json:"target" validate:"required,notblank"`
	Horizon    Horizon `json:"horizon" validate:"required,horizon"`
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("horizon", func(fl validator.FieldLevel) bool {
		return Horizon(fl.Field().String()).Known()
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks that every field is present and the horizon is a known label.
func (r *ReportRequest) Validate() error {
	err := requestValidator.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	seen := make(map[string]bool)
	out := &ValidationError{}
	for _, fe := range fieldErrs {
		name := strings.ToLower(fe.Field())
		if !seen[name] {
			seen[name] = true
			out.Fields = append(out.Fields, name)
		}
	}
	return out
}
