package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/siswa/internal/server"
	"github.com/desertthunder/siswa/internal/shared"
)

// Serve runs the JSON API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}

	host, port := r.config.Server.Host, r.config.Server.Port
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		port = cmd.Int("port")
	}

	logger := shared.WithLogger(r.logger, "component", "http")
	handler := server.NewHandler(server.HandlerOpts{
		API:     server.NewAPI(session, logger),
		Health:  server.Health{Driver: string(r.backend.Driver())},
		Metrics: r.metrics.Handler(),
		Logger:  logger,
		Wrap:    r.metrics.InstrumentHandler,
	})
	srv := server.New(host, port, handler, logger)

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/api/dashboard", srv.Addr())
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}
	return srv.Run(ctx)
}
