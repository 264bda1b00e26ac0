package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"xbrl_statements/pkg/core/export"
	"xbrl_statements/pkg/core/logging"
	"xbrl_statements/pkg/core/pipeline"
	"xbrl_statements/pkg/core/store"
	"xbrl_statements/pkg/core/xbrl"
)

type extractOptions struct {
	formats    []string
	outputDir  string
	workers    int
	convention string
	persist    bool
}

func (o *extractOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.formats, "format", "f", nil, "Output formats: csv, md, html, json")
	cmd.Flags().StringVarP(&o.outputDir, "out", "o", "", "Parent directory of the statement folder")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "Queries answered in parallel")
	cmd.Flags().StringVar(&o.convention, "convention", "", "Scaling convention: scale-minus-decimals, scale-plus-decimals, scale-only")
	cmd.Flags().BoolVar(&o.persist, "persist", false, "Save statements to the database (DATABASE_URL) or the store directory")
}

// apply copies explicit flags over the configuration.
func (o *extractOptions) apply(rt *runtime) error {
	if len(o.formats) > 0 {
		rt.cfg.Formats = o.formats
	}
	if o.outputDir != "" {
		rt.cfg.OutputDir = o.outputDir
	}
	if o.workers > 0 {
		rt.cfg.Workers = o.workers
	}
	if o.convention != "" {
		rt.cfg.Scaling.Convention = o.convention
	}
	return rt.cfg.Validate()
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract <instance.xml> [query...]",
		Short: "Write statement tables for a filing",
		Long: `Locate the label and presentation linkbases next to the instance document,
answer each query and write one table per query into
financial_statements_<TICKER>_<DATE>/.

Without queries the configured list is used (income statement, balance sheet,
earnings per share, cash flow, Goodwill).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.setup(cmd)
			if err != nil {
				return err
			}
			if err := opts.apply(rt); err != nil {
				return err
			}
			queries := args[1:]
			if len(queries) == 0 {
				queries = rt.cfg.Queries
			}
			return runExtraction(cmd.Context(), rt, opts.persist, args[0], queries, cmd.OutOrStdout())
		},
	}
	opts.bind(cmd)
	return cmd
}

// runExtraction loads the filing at instancePath and runs every query through the pipeline.
func runExtraction(ctx context.Context, rt *runtime, persist bool, instancePath string, queries []string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	paths, err := xbrl.LocateFiling(instancePath)
	if err != nil {
		return err
	}
	filing, err := xbrl.LoadFiling(paths, rt.cfg.LoadOptions(), rt.log)
	if err != nil {
		return err
	}

	formats, err := rt.cfg.ExportFormats()
	if err != nil {
		return err
	}
	dir := export.OutputDirName(paths.Instance)
	if rt.cfg.OutputDir != "" {
		dir = filepath.Join(rt.cfg.OutputDir, dir)
	}

	orch := pipeline.NewOrchestrator(filing, export.NewExporter(dir, formats, logging.Component(rt.log, "export")), rt.log)
	orch.SetWorkers(rt.cfg.Workers)
	if persist {
		vault, err := openVault(ctx, rt)
		if err != nil {
			return err
		}
		defer store.Close()
		orch.SetRepository(vault)
	}

	report, err := orch.Run(ctx, paths.Prefix(), queries)
	if err != nil {
		return err
	}

	for _, r := range report.Results {
		if r.Skipped {
			fmt.Fprintf(out, "skipped  %-24s %s\n", r.Query, r.Reason)
			continue
		}
		fmt.Fprintf(out, "wrote    %-24s %s\n", r.Query, strings.Join(r.Files, ", "))
	}
	fmt.Fprintf(out, "%d written, %d skipped in %s\n", report.Written, report.Skipped, dir)
	return nil
}

// openVault prefers Postgres when a database URL is configured and falls back to files.
func openVault(ctx context.Context, rt *runtime) (*store.StatementVault, error) {
	log := logging.Component(rt.log, "store")
	if rt.cfg.DatabaseURL == "" {
		return store.NewStatementVault(nil, rt.cfg.StoreDir, log), nil
	}
	if err := store.InitDB(ctx, rt.cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := store.EnsureSchema(ctx, store.GetPool()); err != nil {
		return nil, err
	}
	return store.NewStatementVault(store.GetPool(), rt.cfg.StoreDir, log), nil
}
