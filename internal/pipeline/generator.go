package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ritikiit/careergps1/internal/llm"
	"github.com/ritikiit/careergps1/internal/logging"
	"github.com/ritikiit/careergps1/internal/metrics"
	"github.com/ritikiit/careergps1/internal/parsing"
	"github.com/ritikiit/careergps1/internal/schemas"
	"github.com/ritikiit/careergps1/internal/types"
)

// Progress steps reported by Generate.
const (
	StepPrompt = "build_prompt"
	StepModel  = "call_model"
	StepParse  = "parse_report"
	StepLint   = "lint_report"

	categoryGeneration = "generation"
)

// ProgressEvent represents a progress update during report generation
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when generation progress occurs
type ProgressCallback func(event ProgressEvent)

// Result is one generated report with its schema findings.
type Result struct {
	Report   *types.Report
	Warnings []schemas.FieldError
	Raw      string
	Model    string
	Duration time.Duration
}

// GeneratorOptions configures a Generator.
type GeneratorOptions struct {
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Generator runs prompt, model call and parsing for one request.
type Generator struct {
	client     llm.Client
	logger     *zap.Logger
	onProgress ProgressCallback
}

// NewGenerator creates a generator around client.
func NewGenerator(client llm.Client, opts GeneratorOptions) *Generator {
	return &Generator{
		client:     client,
		logger:     logging.OrNop(opts.Logger),
		onProgress: opts.OnProgress,
	}
}

func (g *Generator) emit(step, message string, content any) {
	if g.onProgress != nil {
		g.onProgress(ProgressEvent{
			Step:     step,
			Category: categoryGeneration,
			Message:  message,
			Content:  content,
		})
	}
}

// Generate makes exactly one model call for req. Model failures return
// *parsing.ModelError and undecodable output *parsing.ParseError. Schema findings
// never fail the call; they are returned as warnings.
func (g *Generator) Generate(ctx context.Context, req types.ReportRequest) (*Result, error) {
	start := time.Now()
	outcome := metrics.OutcomeError
	defer func() {
		metrics.ReportsTotal.WithLabelValues(outcome).Inc()
		metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.emit(StepPrompt, "Building prompt", nil)
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	g.emit(StepModel, "Calling "+g.client.Model(), nil)
	raw, err := g.client.GenerateJSON(ctx, prompt)
	if err != nil {
		outcome = metrics.OutcomeModelError
		g.logger.Warn("model call failed", zap.String("model", g.client.Model()), zap.Error(err))
		return nil, &parsing.ModelError{Message: "request failed", Cause: err}
	}
	if strings.TrimSpace(raw) == "" {
		outcome = metrics.OutcomeModelError
		g.logger.Warn("model returned no text", zap.String("model", g.client.Model()))
		return nil, &parsing.ModelError{Message: "no response generated"}
	}

	g.emit(StepParse, "Parsing report", nil)
	report, err := parsing.ParseReport(raw)
	if err != nil {
		outcome = metrics.OutcomeParseError
		g.logger.Warn("model response could not be parsed", zap.Int("bytes", len(raw)), zap.Error(err))
		return nil, err
	}

	warnings := schemas.LintReport(parsing.StripCodeFences(raw))
	if len(warnings) > 0 {
		metrics.SchemaWarningsTotal.Add(float64(len(warnings)))
		g.logger.Info("report has schema findings", zap.Int("count", len(warnings)))
		for _, w := range warnings {
			g.logger.Debug("schema finding", zap.String("field", w.Field), zap.String("message", w.Message))
		}
	}
	g.emit(StepLint, "Checked report shape", warnings)

	outcome = metrics.OutcomeSuccess
	result := &Result{
		Report:   report,
		Warnings: warnings,
		Raw:      raw,
		Model:    g.client.Model(),
		Duration: time.Since(start),
	}
	g.logger.Info("report generated",
		zap.String("role", req.Role),
		zap.String("horizon", string(req.Horizon)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}
