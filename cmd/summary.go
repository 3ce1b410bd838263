package cmd

import (
	"io"

	"github.com/dotcommander/reportcard/internal/outputters"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [patterns...]",
	Short: "Show grade and tier distribution across record files",
	Long: `Summary evaluates the same records as batch but prints only the aggregate
view: grade distribution, tier distribution and the lowest scoring reports.
With --format json the statistics are emitted as part of the JSON document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, patterns []string, out io.Writer) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.log.Sync()

	b, err := s.evaluateFiles(cmd.Context(), patterns)
	if err != nil {
		return err
	}

	format := "summary"
	if s.cfg.Format == "json" {
		format = "json"
	}
	return outputters.NewOutputter(s.cfg, out).Format(b, format)
}
