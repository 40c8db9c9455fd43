package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ritikiit/careergps1/internal/export"
	"github.com/ritikiit/careergps1/internal/rendering"
	"github.com/ritikiit/careergps1/internal/types"
)

// Artifact file names inside the output directory.
const (
	bundleFile    = "report.json"
	dashboardFile = "dashboard.html"
	printFile     = "print.html"
)

// writeArtifacts writes the bundle, both HTML projections and, when renderer is
// not nil, the PDF into dir. It returns the written paths sorted.
func writeArtifacts(ctx context.Context, dir string, bundle *types.Bundle, projector *rendering.Projector, renderer export.Renderer) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		mu      sync.Mutex
		written []string
	)
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		mu.Lock()
		written = append(written, path)
		mu.Unlock()
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := json.MarshalIndent(bundle, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode bundle: %w", err)
		}
		return write(bundleFile, data)
	})

	g.Go(func() error {
		var buf bytes.Buffer
		if err := projector.Dashboard(&buf, bundle.Request, bundle.Report); err != nil {
			return err
		}
		return write(dashboardFile, buf.Bytes())
	})

	g.Go(func() error {
		html, err := projector.PrintHTML(bundle.Request, bundle.Report)
		if err != nil {
			return err
		}
		if err := write(printFile, []byte(html)); err != nil {
			return err
		}
		if renderer == nil {
			return nil
		}
		pdf, err := renderer.RenderPDF(ctx, html)
		if err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		doc := export.NewDocument(bundle.Request.Role, pdf)
		return write(doc.Filename, doc.Content)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(written)
	return written, nil
}
