package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site and reload on content changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.init(); err != nil {
				return err
			}
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			site := c.cfg.siteConfig()
			v, err := views.NewWithLayouts(site, c.cfg.Paths.Layouts)
			if err != nil {
				return err
			}
			app := folio.New(site, v.Funcs(), folio.WithLogger(c.logger))
			defer app.Close()
			if err := app.Init(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(app.Start)
			if c.cfg.Server.Watch {
				g.Go(func() error { return app.Watch(gctx) })
			}
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return app.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
