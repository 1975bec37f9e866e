package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledgerlens-dev/ledgerlens/internal/report"
)

func newReportCommand(g *globalOptions) *cobra.Command {
	var totalsOnly bool
	var detail bool

	cmd := &cobra.Command{
		Use:   "report [file...]",
		Short: "Print category and merchant totals",
		Long: "Print each category in descending order of the total spent on it, and\n" +
			"within each category, each merchant in descending order of the total\n" +
			"spent with it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(g, args)
			if err != nil {
				return err
			}

			p := report.NewPrinter(cmd.OutOrStdout(), report.Options{
				Category:   g.category,
				TotalsOnly: totalsOnly,
				Detail:     detail,
				NoColor:    g.noColor,
			})
			p.CategoryReport(sess.snapshot)
			return nil
		},
	}

	cmd.Flags().BoolVar(&totalsOnly, "totals-only", false, "print category totals only")
	cmd.Flags().BoolVar(&detail, "detail", false, "include transaction details")

	return cmd
}
