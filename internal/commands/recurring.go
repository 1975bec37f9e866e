package commands

import (
	"github.com/spf13/cobra"

	"github.com/ledgerlens-dev/ledgerlens/internal/recurrence"
	"github.com/ledgerlens-dev/ledgerlens/internal/report"
)

func newRecurringCommand(g *globalOptions) *cobra.Command {
	var income bool
	var includeInactive bool

	cmd := &cobra.Command{
		Use:   "recurring [file...]",
		Short: "Detect recurring charges or deposits",
		Long: "Detect merchants whose transaction history looks like a fixed monthly\n" +
			"charge (or, with --income, a repeating deposit), from the transaction\n" +
			"history alone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(g, args)
			if err != nil {
				return err
			}

			opts := recurrence.Options{
				Mode:          recurrence.Expenses,
				RequireRecent: !includeInactive,
			}
			if income {
				opts.Mode = recurrence.Income
			}

			patterns := recurrence.DetectAll(sess.snapshot.ByMerchant(), opts)

			p := report.NewPrinter(cmd.OutOrStdout(), report.Options{NoColor: g.noColor})
			p.RecurringReport(patterns, opts.Mode)
			return nil
		},
	}

	cmd.Flags().BoolVar(&income, "income", false, "detect repeating deposits instead of charges")
	cmd.Flags().BoolVar(&includeInactive, "include-inactive", false, "keep merchants with no activity in the last two years")

	return cmd
}
