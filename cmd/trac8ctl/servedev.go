package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mazi76erX2/trac8-frontend/internal/devserver"
	"github.com/mazi76erX2/trac8-frontend/internal/devserver/store"
	"github.com/mazi76erX2/trac8-frontend/internal/logger"
)

func newServeDevCmd(a *app) *cobra.Command {
	var addr, dbPath, token string
	cmd := &cobra.Command{
		Use:   "serve-dev",
		Short: "Run a local stand-in for the trac8 API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.DevAddr
			}
			if !cmd.Flags().Changed("db") {
				dbPath = a.cfg.DevDBPath
			}
			if !cmd.Flags().Changed("dev-token") {
				token = a.cfg.DevToken
			}

			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := devserver.New(st,
				devserver.WithToken(token),
				devserver.WithLogger(logger.New("trac8-devserver")),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":5000", "listen address (default $TRAC8_DEV_ADDR)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file; empty keeps data in memory (default $TRAC8_DEV_DB_PATH)")
	cmd.Flags().StringVar(&token, "dev-token", "", "require this bearer token (default $TRAC8_DEV_TOKEN)")
	return cmd
}
