package main

import (
	"fmt"

	"github.com/jonathan/job-matcher/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing matching runs, stored matches and exports for authenticated students.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			jwtCfg, err := a.cfg.Auth.JWT()
			if err != nil {
				return err
			}

			store, release, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer release()

			engine, client, err := a.buildEngine(ctx, store)
			if err != nil {
				return err
			}
			defer client.Close()

			srv, err := server.New(server.Options{
				Server:    a.cfg.Server,
				RateLimit: a.cfg.RateLimit,
				JWT:       jwtCfg,
				Engine:    engine,
				Health:    store,
				Logger:    a.logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}
