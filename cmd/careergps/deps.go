package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ritikiit/careergps1/internal/config"
	"github.com/ritikiit/careergps1/internal/export"
	"github.com/ritikiit/careergps1/internal/llm"
	"github.com/ritikiit/careergps1/internal/rendering"
)

// modelConfig builds the client settings from cfg. A non-empty model overrides
// the configured one.
func modelConfig(cfg *config.Config, model string) *llm.Config {
	llmCfg := &llm.Config{
		Provider:    llm.ProviderGemini,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}
	if model != "" {
		llmCfg = llmCfg.WithModel(model)
	}
	return llmCfg
}

func newModelClient(ctx context.Context, cfg *config.Config, model string) (llm.Client, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, modelConfig(cfg, model), cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}

func newProjector(cfg *config.Config) (*rendering.Projector, error) {
	return rendering.NewProjector(rendering.Branding{
		ProductName: cfg.Branding.ProductName,
		Author:      cfg.Branding.Author,
		AuthorURL:   cfg.Branding.AuthorURL,
	})
}

func newRenderer(cfg *config.Config, logger *zap.Logger) *export.ChromeRenderer {
	return export.NewChromeRenderer(export.ChromeOptions{
		ExecPath:      cfg.Export.ChromePath,
		Timeout:       cfg.Export.Timeout,
		MaxConcurrent: cfg.Export.MaxConcurrent,
	}, logger)
}
