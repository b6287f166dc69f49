package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reoring/intellitype/internal/httpapi"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var defs, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the markers of a definitions file over HTTP",
		Long: `Starts an HTTP server exposing the markers of a definitions file:

  GET  /markers                  list markers
  GET  /markers/{name}           one marker
  GET  /markers/{name}/schema    JSON Schema of the marker props
  POST /markers/{name}/validate  validate a JSON body as the marker data
  GET  /openapi.json             OpenAPI document with every marker
  GET  /metrics                  prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.loadRegistry(defs)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Handler:           httpapi.NewHandler(reg, httpapi.WithLogger(a.log), httpapi.WithGatherer(a.prom)),
				ReadHeaderTimeout: 10 * time.Second,
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(a.out, "listening on %s\n", ln.Addr())
			return serve(ctx, srv, ln, a)
		},
	}
	cmd.Flags().StringVar(&defs, "defs", "", "marker definitions file (YAML)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, a *app) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	a.log.Info("shutting down", "addr", ln.Addr().String())
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		a.log.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
		return srv.Close()
	}
	return nil
}
