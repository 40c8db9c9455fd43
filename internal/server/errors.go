// Package server serves the Career GPS web UI and JSON API.
package server

import (
	"errors"
	"net/http"

	"github.com/ritikiit/careergps1/internal/parsing"
	"github.com/ritikiit/careergps1/internal/pipeline"
	"github.com/ritikiit/careergps1/internal/types"
)

// ErrBadRequest indicates a request body that could not be decoded.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return "bad request: " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		validation *types.ValidationError
		modelErr   *parsing.ModelError
		parseErr   *parsing.ParseError
	)
	switch {
	case errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &modelErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.Is(err, pipeline.ErrNoReport):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrBusy),
		errors.Is(err, pipeline.ErrExportInProgress),
		errors.Is(err, pipeline.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
