package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ritikiit/careergps1/internal/config"
	"github.com/ritikiit/careergps1/internal/export"
	"github.com/ritikiit/careergps1/internal/llm"
	"github.com/ritikiit/careergps1/internal/observability"
	"github.com/ritikiit/careergps1/internal/pipeline"
	"github.com/ritikiit/careergps1/internal/types"
)

type generateOptions struct {
	role       string
	experience string
	industry   string
	target     string
	horizon    string
	model      string
	outDir     string
	pdf        bool
	verbose    bool
}

func (o *generateOptions) request() types.ReportRequest {
	return types.ReportRequest{
		Role:       o.role,
		Experience: o.experience,
		Industry:   o.industry,
		Target:     o.target,
		Horizon:    types.Horizon(o.horizon),
	}
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one career strategy report",
		Long: `Calls the model once for the given inputs and writes report.json, dashboard.html,
print.html and, with --pdf, the exported PDF into --out.`,
		Example: `  careergps generate --role "Student" --experience 0 --industry Technology \
    --target "Software Engineer" --horizon "1 Year" --pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := opts.request()
			if err := req.Validate(); err != nil {
				return err
			}

			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client, err := newModelClient(cmd.Context(), cfg, opts.model)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			var renderer export.Renderer
			if opts.pdf {
				renderer = newRenderer(cfg, logger)
			}
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), cfg, logger, client, renderer, req, opts)
		},
	}

	cmd.Flags().StringVar(&opts.role, "role", "", "Current role or status")
	cmd.Flags().StringVar(&opts.experience, "experience", "", "Years of experience")
	cmd.Flags().StringVar(&opts.industry, "industry", "", "Current industry")
	cmd.Flags().StringVar(&opts.target, "target", "", "Desired role or direction")
	cmd.Flags().StringVar(&opts.horizon, "horizon", string(types.DefaultHorizon), `Time horizon: "6 Months", "1 Year", "3 Years" or "5+ Years"`)
	cmd.Flags().StringVar(&opts.model, "model", "", "Model override")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "out", "Output directory")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "Also export the PDF (requires Chrome)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print progress and a report summary")
	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, cfg *config.Config, logger *zap.Logger, client llm.Client, renderer export.Renderer, req types.ReportRequest, opts *generateOptions) error {
	genOpts := pipeline.GeneratorOptions{Logger: logger}
	if opts.verbose {
		genOpts.OnProgress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(out, "→ %s\n", e.Message)
		}
	}

	result, err := pipeline.NewGenerator(client, genOpts).Generate(ctx, req)
	if err != nil {
		return err
	}

	if opts.verbose {
		observability.NewPrinter(out).PrintReport(req, result.Report, result.Warnings)
	}

	projector, err := newProjector(cfg)
	if err != nil {
		return err
	}

	bundle := &types.Bundle{
		Request:     req,
		Report:      result.Report,
		Model:       result.Model,
		GeneratedAt: time.Now().UTC(),
	}
	paths, err := writeArtifacts(ctx, opts.outDir, bundle, projector, renderer)
	if err != nil {
		return err
	}

	for _, path := range paths {
		_, _ = fmt.Fprintf(out, "wrote %s\n", path)
	}
	return nil
}
