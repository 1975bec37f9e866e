package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlens-dev/ledgerlens/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "ledgerlens",
		Short:   "Analyze exported bank transaction CSVs",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $HOME/.ledgerlens.yaml)")
	pf.StringVarP(&opts.start, "start", "s", "", "include transactions on or after this date (YYYY-MM-DD, or foy = first of year)")
	pf.StringVarP(&opts.end, "end", "e", "", "include transactions before this date (YYYY-MM-DD, or fom = first of month)")
	pf.StringVar(&opts.category, "category", "", "limit output to CATEGORY")
	pf.BoolVar(&opts.noColor, "no-color", false, "do not print in color")
	pf.BoolVar(&opts.useDatafiles, "use-datafiles", false, "process the CSV files named by the config datafiles glob")

	rootCmd.AddCommand(
		newReportCommand(opts),
		newMonthlyCommand(opts),
		newRecurringCommand(opts),
		newChartCommand(opts),
	)

	return rootCmd
}
