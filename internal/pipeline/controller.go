package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ritikiit/careergps1/internal/export"
	"github.com/ritikiit/careergps1/internal/logging"
	"github.com/ritikiit/careergps1/internal/metrics"
	"github.com/ritikiit/careergps1/internal/schemas"
	"github.com/ritikiit/careergps1/internal/types"
)

// State is the screen the controller is on.
type State string

// Controller states.
const (
	StateInput   State = "input"
	StateLoading State = "loading"
	StateResults State = "results"
)

// User-visible messages.
const (
	GenerateFailedMessage = "Failed to generate career strategy. Please try again."
	ExportFailedMessage   = "Error generating PDF. Please try again."
)

// DefaultSettleDelay is the wait between mounting the print view and capturing it.
const DefaultSettleDelay = 800 * time.Millisecond

var (
	// ErrBusy is returned while a report is being generated.
	ErrBusy = errors.New("a report is already being generated")
	// ErrInvalidTransition is returned for actions the current state does not allow.
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	// ErrNoReport is returned when exporting without a report.
	ErrNoReport = errors.New("no report to export")
	// ErrExportInProgress is returned when an export is already running.
	ErrExportInProgress = errors.New("export already in progress")
)

// ReportGenerator produces a report for a request.
type ReportGenerator interface {
	Generate(ctx context.Context, req types.ReportRequest) (*Result, error)
}

// PrintProjector renders the print view of a report.
type PrintProjector interface {
	PrintHTML(req types.ReportRequest, report *types.Report) (string, error)
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	// SettleDelay is waited after the print view is mounted. Negative means none.
	SettleDelay time.Duration
	Logger      *zap.Logger
}

// Snapshot is a copy of the controller state for rendering.
type Snapshot struct {
	State        State
	Request      types.ReportRequest
	Report       *types.Report
	Warnings     []schemas.FieldError
	Error        string
	Notice       string
	Downloading  bool
	PrintMounted bool
}

// Controller owns the report and UI state of one user and moves it through
// input, loading and results. It is safe for concurrent use.
type Controller struct {
	generator   ReportGenerator
	projector   PrintProjector
	renderer    export.Renderer
	settleDelay time.Duration
	logger      *zap.Logger

	mu           sync.Mutex
	state        State
	request      types.ReportRequest
	report       *types.Report
	warnings     []schemas.FieldError
	errMsg       string
	notice       string
	downloading  bool
	printMounted bool
}

// NewController creates a controller in the input state.
func NewController(generator ReportGenerator, projector PrintProjector, renderer export.Renderer, opts ControllerOptions) *Controller {
	delay := opts.SettleDelay
	if delay == 0 {
		delay = DefaultSettleDelay
	}
	if delay < 0 {
		delay = 0
	}
	return &Controller{
		generator:   generator,
		projector:   projector,
		renderer:    renderer,
		settleDelay: delay,
		logger:      logging.OrNop(opts.Logger),
		state:       StateInput,
		request:     types.ReportRequest{Horizon: types.DefaultHorizon},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:        c.state,
		Request:      c.request,
		Report:       c.report,
		Warnings:     c.warnings,
		Error:        c.errMsg,
		Notice:       c.notice,
		Downloading:  c.downloading,
		PrintMounted: c.printMounted,
	}
}

// Start validates req, moves to loading and generates the report in the
// background. The returned channel yields the generation error, or nil, once the
// controller has left the loading state.
func (c *Controller) Start(ctx context.Context, req types.ReportRequest) (<-chan error, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateLoading:
		return nil, ErrBusy
	case StateResults:
		return nil, ErrInvalidTransition
	}

	c.request = req
	if err := req.Validate(); err != nil {
		c.errMsg = err.Error()
		return nil, err
	}

	c.errMsg = ""
	c.state = StateLoading

	done := make(chan error, 1)
	go func() {
		done <- c.generate(ctx, req)
	}()
	return done, nil
}

// Submit is Start followed by waiting for the generation to finish.
func (c *Controller) Submit(ctx context.Context, req types.ReportRequest) error {
	done, err := c.Start(ctx, req)
	if err != nil {
		return err
	}
	return <-done
}

func (c *Controller) generate(ctx context.Context, req types.ReportRequest) error {
	result, err := c.generator.Generate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Warn("report generation failed", zap.Error(err))
		c.state = StateInput
		c.report = nil
		c.warnings = nil
		c.errMsg = GenerateFailedMessage
		return err
	}

	c.state = StateResults
	c.report = result.Report
	c.warnings = result.Warnings
	return nil
}

// Export mounts the print view, waits the settle delay and renders it to PDF.
// The print view is unmounted whatever the outcome. Failures set a notice and
// keep the report.
func (c *Controller) Export(ctx context.Context) (*export.Document, error) {
	c.mu.Lock()
	if c.state != StateResults || c.report == nil {
		c.mu.Unlock()
		return nil, ErrNoReport
	}
	if c.downloading {
		c.mu.Unlock()
		return nil, ErrExportInProgress
	}
	c.downloading = true
	c.notice = ""
	req, report := c.request, c.report
	c.mu.Unlock()

	start := time.Now()
	doc, err := c.export(ctx, req, report)

	c.mu.Lock()
	c.downloading = false
	c.printMounted = false
	if err != nil {
		c.notice = ExportFailedMessage
	}
	c.mu.Unlock()

	if err != nil {
		metrics.ExportsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		c.logger.Warn("export failed", zap.Error(err))
		return nil, err
	}
	metrics.ExportsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	c.logger.Info("report exported", zap.String("filename", doc.Filename), zap.Int("bytes", len(doc.Content)))
	return doc, nil
}

func (c *Controller) export(ctx context.Context, req types.ReportRequest, report *types.Report) (*export.Document, error) {
	html, err := c.projector.PrintHTML(req, report)
	if err != nil {
		return nil, &export.ExportError{Message: "failed to render print view", Cause: err}
	}

	c.mu.Lock()
	c.printMounted = true
	c.mu.Unlock()

	if err := sleepContext(ctx, c.settleDelay); err != nil {
		return nil, &export.ExportError{Message: "export cancelled", Cause: err}
	}

	pdf, err := c.renderer.RenderPDF(ctx, html)
	if err != nil {
		var exportErr *export.ExportError
		if errors.As(err, &exportErr) {
			return nil, err
		}
		return nil, &export.ExportError{Message: "renderer failed", Cause: err}
	}
	return export.NewDocument(req.Role, pdf), nil
}

// Reset discards the report and errors and returns to the input state. The last
// request stays so the form can be prefilled.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoading {
		return ErrBusy
	}
	c.state = StateInput
	c.report = nil
	c.warnings = nil
	c.errMsg = ""
	c.notice = ""
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
