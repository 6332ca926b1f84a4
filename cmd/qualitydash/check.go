package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/qualitydash/internal/probe"
	"github.com/okian/qualitydash/internal/report"
)

var checkOpts struct {
	url     string
	format  string
	limit   int
	workers int
	timeout time.Duration
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify a running dashboard over HTTP",
	Long: `Query a running dashboard and verify its rankings and summary: priority
ordering, rank lookups, the underperforming filter and that summary counts
and the weighted distribution add up. Exits non-zero when a check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rep, runErr := probe.Run(cmd.Context(), probe.NewConfig(
			probe.WithBaseURL(checkOpts.url),
			probe.WithLimit(checkOpts.limit),
			probe.WithWorkers(checkOpts.workers),
			probe.WithTimeout(checkOpts.timeout),
		))
		if len(rep.Results) > 0 {
			if err := report.RenderChecks(cmd.OutOrStdout(), rep, checkOpts.format); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkOpts.url, "url", "http://localhost:9080", "dashboard base URL")
	f.StringVarP(&checkOpts.format, "format", "f", report.FormatText, "output format: text or json")
	f.IntVarP(&checkOpts.limit, "limit", "n", 50, "ranked entries to verify per view")
	f.IntVar(&checkOpts.workers, "workers", 8, "concurrent rank lookups")
	f.DurationVar(&checkOpts.timeout, "timeout", 10*time.Second, "per-request timeout")
}
