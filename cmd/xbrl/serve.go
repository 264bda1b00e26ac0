package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	apiConfig "xbrl_statements/pkg/api/config"
	apiEdgar "xbrl_statements/pkg/api/edgar"
	"xbrl_statements/pkg/api/statements"
	"xbrl_statements/pkg/core/ingest"
	"xbrl_statements/pkg/core/logging"
	"xbrl_statements/pkg/core/metrics"
	"xbrl_statements/pkg/core/xbrl"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve <instance.xml>",
		Short: "Answer statement queries over HTTP",
		Long: `Load a filing once and serve it:

  GET /api/statements?q=<query>[&format=json|csv|md|html]
  GET /api/roles
  GET /api/config
  POST /api/edgar/fetch {"ticker": "...", "form": "10-K"}
  GET /metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.setup(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				rt.cfg.ListenAddr = addr
			}

			paths, err := xbrl.LocateFiling(args[0])
			if err != nil {
				return err
			}
			filing, err := xbrl.LoadFiling(paths, rt.cfg.LoadOptions(), rt.log)
			if err != nil {
				return err
			}
			m := metrics.New(nil)
			m.ObserveFiling(filing)

			mux := statements.NewHandler(filing, paths.Prefix(), m, rt.log).Routes()
			mux.HandleFunc("/api/config", apiConfig.NewHandler(rt.cfg).HandleConfig)

			client := ingest.NewEDGARClient(rt.cfg.UserAgent, rt.log)
			fetcher := ingest.NewFetcher(client, ingest.NewFilingCache(rt.cfg.CacheDir), logging.Component(rt.log, "ingest"))
			mux.HandleFunc("/api/edgar/fetch", apiEdgar.NewHandler(fetcher, rt.log).HandleFetch)

			srv := &http.Server{
				Addr:              rt.cfg.ListenAddr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				rt.log.Info().Str("addr", srv.Addr).Str("filing", paths.Prefix()).Msg("server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				rt.log.Info().Msg("shutting down")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	return cmd
}
