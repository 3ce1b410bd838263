package cmd

import (
	"io"

	"github.com/dotcommander/reportcard/internal/outputters"
	"github.com/spf13/cobra"
)

var batchRecord bool

var batchCmd = &cobra.Command{
	Use:   "batch [patterns...]",
	Short: "Generate report cards for every record file under the root",
	Long: `Batch finds record files under --root, evaluates every record concurrently
and prints the reports in file order.

A record file is YAML or JSON holding one record or a list of records:

  - student_name: Ada Lovelace
    course: Python Programming
    module: Loops
    theory: 90
    practical: "92"
    attendance: 96

Patterns are doublestar globs relative to the root. Without patterns, the
configured input.patterns are used, falling back to *.record.{yaml,yml,json}
files anywhere and any YAML or JSON file under records/.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVar(&batchRecord, "record", false, "Add every payload to the issuance ledger")
}

func runBatch(cmd *cobra.Command, patterns []string, out io.Writer) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.log.Sync()

	b, err := s.evaluateFiles(cmd.Context(), patterns)
	if err != nil {
		return err
	}
	if batchRecord {
		if b.Recorded, err = s.record(b.Results); err != nil {
			return err
		}
	}
	return outputters.NewOutputter(s.cfg, out).Format(b, s.cfg.Format)
}
