package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledgerlens-dev/ledgerlens/internal/chart"
)

func newChartCommand(g *globalOptions) *cobra.Command {
	var timeline bool
	var shares bool
	var movingAverage bool
	var noExclude bool

	cmd := &cobra.Command{
		Use:   "chart [file...]",
		Short: "Render terminal charts of category totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(g, args)
			if err != nil {
				return err
			}

			c := chart.New(cmd.OutOrStdout(), sess.snapshot,
				sess.cfg.ChartExcludes(noExclude), sess.span, sess.start, sess.end)

			switch {
			case timeline:
				return c.MonthlyTimeline(g.category, movingAverage)
			case shares:
				c.CategoryShares()
			default:
				c.CategoryTotals()
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&timeline, "timeline", false, "plot monthly totals over time (honors --category)")
	cmd.Flags().BoolVar(&shares, "shares", false, "print each category's share of total spend")
	cmd.Flags().BoolVar(&movingAverage, "moving-average", false, "overlay a moving average on the timeline")
	cmd.Flags().BoolVar(&noExclude, "no-exclude-categories", false, "do not exclude configured chart categories")

	return cmd
}
