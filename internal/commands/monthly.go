package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledgerlens-dev/ledgerlens/internal/report"
)

func newMonthlyCommand(g *globalOptions) *cobra.Command {
	var averagesOnly bool
	var detail bool

	cmd := &cobra.Command{
		Use:   "monthly [file...]",
		Short: "Print monthly totals and averages for each category",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(g, args)
			if err != nil {
				return err
			}

			p := report.NewPrinter(cmd.OutOrStdout(), report.Options{
				Category:     g.category,
				AveragesOnly: averagesOnly,
				Detail:       detail,
				NoColor:      g.noColor,
			})
			p.MonthlyReport(sess.snapshot, sess.span)
			return nil
		},
	}

	cmd.Flags().BoolVar(&averagesOnly, "averages-only", false, "print monthly averages only")
	cmd.Flags().BoolVar(&detail, "detail", false, "include per-merchant totals")

	return cmd
}
