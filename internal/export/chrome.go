package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ReadySelector matches the print container once its layout is complete.
const ReadySelector = `#print-container[data-ready="true"]`

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// Renderer converts a complete HTML document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// ChromeOptions configures ChromeRenderer.
type ChromeOptions struct {
	// ExecPath overrides the Chrome binary. Empty falls back to CHROME_PATH, then
	// the chromedp default lookup.
	ExecPath string
	// Timeout bounds one render, browser start included.
	Timeout time.Duration
	// MaxConcurrent bounds simultaneous browser instances.
	MaxConcurrent int64
}

// ChromeRenderer prints documents to PDF with headless Chrome.
type ChromeRenderer struct {
	opts   ChromeOptions
	sem    *semaphore.Weighted
	logger *zap.Logger
}

// NewChromeRenderer creates a renderer. Zero options take defaults.
func NewChromeRenderer(opts ChromeOptions, logger *zap.Logger) *ChromeRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.ExecPath == "" {
		opts.ExecPath = os.Getenv("CHROME_PATH")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeRenderer{
		opts:   opts,
		sem:    semaphore.NewWeighted(opts.MaxConcurrent),
		logger: logger,
	}
}

func (r *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ExecPath))
	}
	return opts
}

// RenderPDF loads html from a temporary file, waits for ReadySelector and prints
// the page as A4 with backgrounds.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, &ExportError{Message: "renderer busy", Cause: err}
	}
	defer r.sem.Release(1)

	start := time.Now()

	tmpDir, err := os.MkdirTemp("", "careergps-")
	if err != nil {
		return nil, &ExportError{Message: "failed to create temp dir", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "report.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, &ExportError{Message: "failed to write document", Cause: err}
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.opts.Timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady(ReadySelector, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &ExportError{Message: "timed out waiting for the print layout", Cause: err}
		}
		return nil, &ExportError{Message: "browser rendering failed", Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &ExportError{Message: "browser returned an empty document"}
	}

	r.logger.Debug("rendered pdf",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}
