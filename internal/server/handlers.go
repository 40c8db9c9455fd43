package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ritikiit/careergps1/internal/export"
	"github.com/ritikiit/careergps1/internal/parsing"
	"github.com/ritikiit/careergps1/internal/pipeline"
	"github.com/ritikiit/careergps1/internal/rendering"
	"github.com/ritikiit/careergps1/internal/schemas"
	"github.com/ritikiit/careergps1/internal/server/middleware"
	"github.com/ritikiit/careergps1/internal/types"
)

const (
	exportURL = "/report/pdf"
	// maxBodyBytes bounds JSON request bodies.
	maxBodyBytes = 1 << 20
)

// controller returns the controller of the request's session.
func (s *Server) controller(r *http.Request) (*pipeline.Controller, error) {
	sessionID, err := middleware.GetSessionID(r)
	if err != nil {
		return nil, err
	}
	return s.sessions.Controller(sessionID), nil
}

// pageView maps a controller snapshot onto the application page.
func (s *Server) pageView(snap pipeline.Snapshot) rendering.PageView {
	view := rendering.PageView{
		Step:     rendering.StepInput,
		Form:     rendering.NewFormView(snap.Request),
		Error:    snap.Error,
		Notice:   snap.Notice,
		Branding: s.projector.Branding(),
	}

	switch snap.State {
	case pipeline.StateLoading:
		view.Step = rendering.StepLoading
	case pipeline.StateResults:
		view.Step = rendering.StepResults
		dashboard := rendering.BuildDashboard(snap.Request, snap.Report, view.Branding)
		dashboard.ExportURL = exportURL
		dashboard.Downloading = snap.Downloading
		view.Dashboard = &dashboard
	}
	return view
}

// handlePage renders the page for the current session state.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.projector.Page(w, s.pageView(ctrl.Snapshot())); err != nil {
		s.logger.Error("failed to render page", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to render page")
	}
}

// requestFromForm reads the input form fields.
func requestFromForm(r *http.Request) types.ReportRequest {
	return types.ReportRequest{
		Role:       r.PostFormValue("role"),
		Experience: r.PostFormValue("experience"),
		Industry:   r.PostFormValue("industry"),
		Target:     r.PostFormValue("target"),
		Horizon:    types.Horizon(r.PostFormValue("horizon")),
	}
}

// handleSubmit starts generation and redirects back to the page, which shows the
// loading state until the report is ready.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := r.ParseForm(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid form")
		return
	}

	// Generation outlives this request; the page polls for the result.
	done, err := ctrl.Start(context.WithoutCancel(r.Context()), requestFromForm(r))
	if err != nil {
		s.logger.Info("submit rejected", zap.Error(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	go func() {
		if err := <-done; err != nil {
			s.logger.Warn("report generation failed", zap.Error(err))
		}
	}()

	http.Redirect(w, r, "/#results", http.StatusSeeOther)
}

// handleReset clears the session's report.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := ctrl.Reset(); err != nil {
		s.logger.Info("reset rejected", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlePrint shows the print projection of the session's report.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := ctrl.Snapshot()
	if snap.State != pipeline.StateResults || snap.Report == nil {
		s.errorResponse(w, http.StatusNotFound, pipeline.ErrNoReport.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.projector.Print(w, snap.Request, snap.Report); err != nil {
		s.logger.Error("failed to render print view", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to render print view")
	}
}

// handleDownload exports the session's report. Renderer failures send the
// browser back to the dashboard, which shows the export notice.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.controller(r)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	doc, err := ctrl.Export(r.Context())
	switch {
	case errors.Is(err, pipeline.ErrNoReport), errors.Is(err, pipeline.ErrExportInProgress):
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	case err != nil:
		http.Redirect(w, r, "/#results", http.StatusSeeOther)
		return
	}

	s.documentResponse(w, doc)
}

// documentResponse writes an exported document as a download.
func (s *Server) documentResponse(w http.ResponseWriter, doc *export.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", doc.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Content); err != nil {
		s.logger.Warn("failed to write document", zap.Error(err))
	}
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrBadRequest{Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// ReportResponse is the body of a successful POST /api/report.
type ReportResponse struct {
	Request    types.ReportRequest  `json:"request"`
	Report     *types.Report        `json:"report"`
	Warnings   []schemas.FieldError `json:"warnings"`
	Model      string               `json:"model,omitempty"`
	DurationMS int64                `json:"duration_ms"`
}

// handleAPIReport generates a report without touching any session.
func (s *Server) handleAPIReport(w http.ResponseWriter, r *http.Request) {
	var req types.ReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.logger.Warn("api report generation failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []schemas.FieldError{}
	}
	s.jsonResponse(w, http.StatusOK, ReportResponse{
		Request:    req,
		Report:     result.Report,
		Warnings:   warnings,
		Model:      result.Model,
		DurationMS: result.Duration.Milliseconds(),
	})
}

// handleAPIReportPDF renders a saved bundle to PDF.
func (s *Server) handleAPIReportPDF(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read body")
		return
	}
	bundle, err := parsing.ParseBundle(body)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	html, err := s.projector.PrintHTML(bundle.Request, bundle.Report)
	if err != nil {
		s.logger.Error("failed to render print view", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to render print view")
		return
	}

	start := time.Now()
	pdf, err := s.renderer.RenderPDF(r.Context(), html)
	if err != nil {
		s.logger.Warn("api export failed", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, pipeline.ExportFailedMessage)
		return
	}
	s.logger.Info("bundle exported", zap.Duration("duration", time.Since(start)))

	s.documentResponse(w, export.NewDocument(bundle.Request.Role, pdf))
}
