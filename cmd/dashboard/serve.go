package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"gdpdash/internal/api"
	"gdpdash/internal/app"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.setup()
			if err != nil {
				return err
			}

			if addr != "" {
				e.cfg.Server.Addr = addr
			}

			if cmd.Flags().Changed("watch") {
				e.cfg.Watch.Enabled = watch
			}

			// An empty first load is served as 503 until a refresh succeeds.
			if snap, err := e.state.Refresh(cmd.Context()); err != nil {
				e.log.Warn("initial load produced no data", "error", err)
			} else {
				e.log.Info("initial load complete", "load_id", snap.LoadID, "countries", snap.Dataset.Len())
			}

			server := api.NewServer(e.state, e.log)
			g, ctx := errgroup.WithContext(cmd.Context())

			g.Go(func() error {
				e.log.Info("listening", "addr", e.cfg.Server.Addr)

				if err := server.Start(e.cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}

				return nil
			})

			if e.cfg.Watch.Enabled {
				dirs := e.client.Resolver().LocalDirs()
				if len(dirs) == 0 {
					e.log.Warn("watch enabled but no local source directories configured")
				} else {
					w := app.NewWatcher(e.state, dirs, e.cfg.Watch.GetDebounce(), e.log)
					g.Go(func() error { return w.Run(ctx) })
				}
			}

			g.Go(func() error {
				<-ctx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				e.log.Info("shutting down")

				return server.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload when local source documents change")

	return cmd
}
