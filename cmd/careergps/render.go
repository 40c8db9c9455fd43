package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ritikiit/careergps1/internal/export"
	"github.com/ritikiit/careergps1/internal/fixtures"
	"github.com/ritikiit/careergps1/internal/parsing"
	"github.com/ritikiit/careergps1/internal/rendering"
	"github.com/ritikiit/careergps1/internal/types"
)

// Render formats.
const (
	formatDashboard = "dashboard"
	formatPrint     = "print"
	formatPDF       = "pdf"
)

type renderOptions struct {
	bundlePath string
	sample     bool
	format     string
	out        string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Re-render a saved report bundle without calling the model",
		Long: `Renders a report.json bundle written by generate (or the built-in sample with
--sample) as the dashboard page, the print page, or a PDF.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			projector, err := newProjector(cfg)
			if err != nil {
				return err
			}
			var renderer export.Renderer
			if opts.format == formatPDF {
				renderer = newRenderer(cfg, logger)
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), projector, renderer, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.bundlePath, "bundle", "b", "", "Path to a report.json bundle")
	cmd.Flags().BoolVar(&opts.sample, "sample", false, "Render the built-in sample report")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatDashboard, "Output format: dashboard, print or pdf")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (HTML defaults to stdout, PDF to the role-based file name)")
	return cmd
}

func (o *renderOptions) validate() error {
	if (o.bundlePath == "") == !o.sample {
		return fmt.Errorf("exactly one of --bundle or --sample is required")
	}
	switch o.format {
	case formatDashboard, formatPrint, formatPDF:
		return nil
	default:
		return fmt.Errorf("unknown format %q: use dashboard, print or pdf", o.format)
	}
}

func loadBundle(opts *renderOptions) (*types.Bundle, error) {
	if opts.sample {
		report, err := parsing.ParseReport(fixtures.SampleResponse())
		if err != nil {
			return nil, err
		}
		return &types.Bundle{Request: fixtures.SampleRequest(), Report: report}, nil
	}

	data, err := os.ReadFile(opts.bundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return parsing.ParseBundle(data)
}

func runRender(ctx context.Context, stdout io.Writer, projector *rendering.Projector, renderer export.Renderer, opts *renderOptions) error {
	bundle, err := loadBundle(opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch opts.format {
	case formatDashboard:
		err = projector.Dashboard(&buf, bundle.Request, bundle.Report)
	case formatPrint:
		err = projector.Print(&buf, bundle.Request, bundle.Report)
	case formatPDF:
		var html string
		html, err = projector.PrintHTML(bundle.Request, bundle.Report)
		if err == nil {
			var pdf []byte
			pdf, err = renderer.RenderPDF(ctx, html)
			buf.Write(pdf)
		}
	}
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" && opts.format == formatPDF {
		out = export.Filename(bundle.Request.Role)
	}
	if out == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	_, _ = fmt.Fprintf(stdout, "wrote %s\n", out)
	return nil
}
