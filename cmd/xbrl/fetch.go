package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"xbrl_statements/pkg/core/ingest"
	"xbrl_statements/pkg/core/logging"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var (
		form      string
		cacheDir  string
		extract   bool
		endpoints ingest.Endpoints
		extractOp = &extractOptions{}
	)
	cmd := &cobra.Command{
		Use:   "fetch <ticker> [query...]",
		Short: "Download the XBRL documents of a company's latest filing from EDGAR",
		Long: `Resolve the ticker to a CIK, pick the latest filing of the given form and
download its instance, label and presentation documents into
<cache_dir>/<ticker>/<accession>/. Cached documents are reused.

With --extract the statements are written right away.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.setup(cmd)
			if err != nil {
				return err
			}
			if err := extractOp.apply(rt); err != nil {
				return err
			}
			if cacheDir != "" {
				rt.cfg.CacheDir = cacheDir
			}

			client := ingest.NewEDGARClient(rt.cfg.UserAgent, rt.log)
			client.SetEndpoints(mergeEndpoints(ingest.DefaultEndpoints(), endpoints))
			fetcher := ingest.NewFetcher(client, ingest.NewFilingCache(rt.cfg.CacheDir), logging.Component(rt.log, "ingest"))

			res, err := fetcher.FetchLatest(cmd.Context(), args[0], form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (%d downloaded, %d cached)\n%s\n",
				res.Ticker, res.Filing.FormType, res.Filing.AccessionNumber, res.Downloaded, res.Cached, res.InstancePath)

			if !extract {
				return nil
			}
			queries := args[1:]
			if len(queries) == 0 {
				queries = rt.cfg.Queries
			}
			return runExtraction(cmd.Context(), rt, extractOp.persist, res.InstancePath, queries, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&form, "form", "10-K", "Form type: 10-K or 10-Q")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Download directory (default from config, .cache/edgar/filings)")
	cmd.Flags().BoolVar(&extract, "extract", false, "Write statements after downloading")
	cmd.Flags().StringVar(&endpoints.Tickers, "tickers-url", "", "Override the SEC ticker map URL")
	cmd.Flags().StringVar(&endpoints.Submissions, "submissions-url", "", "Override the SEC submissions URL (format string taking the CIK)")
	cmd.Flags().StringVar(&endpoints.Archives, "archives-url", "", "Override the SEC archives base URL")
	extractOp.bind(cmd)
	return cmd
}

func mergeEndpoints(base, override ingest.Endpoints) ingest.Endpoints {
	if override.Tickers != "" {
		base.Tickers = override.Tickers
	}
	if override.Submissions != "" {
		base.Submissions = override.Submissions
	}
	if override.Archives != "" {
		base.Archives = override.Archives
	}
	return base
}
