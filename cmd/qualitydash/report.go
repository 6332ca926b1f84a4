package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/qualitydash/internal/report"
)

var reportOpts struct {
	format   string
	domain   string
	limit    int
	view     string
	sections []string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard to the terminal",
	Long: `Print the headline summary, the ranked improvement priorities and the
slope table. Use --format json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := newService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Stop()

		return report.Render(cmd.Context(), cmd.OutOrStdout(), svc, report.Options{
			Format:   reportOpts.format,
			Domain:   reportOpts.domain,
			Limit:    reportOpts.limit,
			View:     reportOpts.view,
			Sections: reportOpts.sections,
		})
	},
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportOpts.format, "format", "f", report.FormatText, "output format: text or json")
	f.StringVarP(&reportOpts.domain, "domain", "d", "", "restrict summary and slopes to one domain")
	f.IntVarP(&reportOpts.limit, "limit", "n", 10, "number of ranked measures")
	f.StringVar(&reportOpts.view, "view", "priority", "ranking: priority, gap or underperforming")
	f.StringSliceVar(&reportOpts.sections, "section", nil, "sections to print: summary, priorities, slopes (default all)")
}
