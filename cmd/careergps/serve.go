package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ritikiit/careergps1/internal/pipeline"
	"github.com/ritikiit/careergps1/internal/server"
	"github.com/ritikiit/careergps1/internal/server/ratelimit"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API server",
		Long:  `Start an HTTP server with the interactive Career GPS page, PDF download and a stateless JSON API.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := newModelClient(ctx, cfg, "")
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			projector, err := newProjector(cfg)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Port:            cfg.Server.Port,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
				SessionSecret:   cfg.Server.SessionSecret,
				SessionTTL:      cfg.Server.SessionTTL,
				SecureCookies:   cfg.Server.SecureCookies,
				AllowedOrigin:   cfg.Server.AllowedOrigin,
				SettleDelay:     cfg.Export.SettleDelay,
				RateLimit:       ratelimit.FromSettings(cfg.RateLimit),
			}, server.Dependencies{
				Generator: pipeline.NewGenerator(client, pipeline.GeneratorOptions{Logger: logger}),
				Projector: projector,
				Renderer:  newRenderer(cfg, logger),
				Logger:    logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			logger.Info("serving", zap.Int("port", cfg.Server.Port), zap.String("model", client.Model()))
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides config)")
	return cmd
}
