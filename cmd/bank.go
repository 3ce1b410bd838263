package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotcommander/reportcard/internal/bank"
	"github.com/dotcommander/reportcard/internal/config"
	"github.com/dotcommander/reportcard/internal/scoring"
	"github.com/spf13/cobra"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and validate template banks",
	Long: `A template bank holds the narrative sentences reports are built from: for
each course and tier, a strengths, growth and comments pool. Sentences use
[Student] where the student's first name goes.`,
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a template bank against the bank schema",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBankValidate(args, cmd.OutOrStdout())
	},
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses and pool sizes in the configured bank",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBankList(cmd.OutOrStdout())
	},
}

var bankDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in template bank as a starting point for your own",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(bank.DefaultYAML())
		return err
	},
}

func init() {
	rootCmd.AddCommand(bankCmd)
	bankCmd.AddCommand(bankValidateCmd, bankListCmd, bankDumpCmd)
}

func runBankValidate(args []string, out io.Writer) error {
	var (
		b    *bank.Bank
		name string
		err  error
	)
	if len(args) == 1 {
		name = args[0]
		b, err = bank.LoadFile(name)
	} else {
		cfg, cfgErr := config.LoadConfig(rootPath)
		if cfgErr != nil {
			return fmt.Errorf("error loading configuration: %w", cfgErr)
		}
		name = cfg.Bank
		if name == "" {
			name = "built-in bank"
		}
		b, err = loadBank(cfg)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ %s is valid: %d courses, default %q\n", name, len(b.CourseNames()), b.DefaultCourse())
	return nil
}

func runBankList(out io.Writer) error {
	cfg, err := config.LoadConfig(rootPath)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	b, err := loadBank(cfg)
	if err != nil {
		return err
	}

	bold := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	for _, name := range b.CourseNames() {
		heading := name
		if name == b.DefaultCourse() {
			heading += " (default)"
		}
		fmt.Fprintln(out, bold.Render(heading))

		_, course, _ := b.Resolve(name)
		for _, t := range scoring.Tiers {
			pools := course.Tier(t)
			fmt.Fprintf(out, "  %-13s %s\n", t, dim.Render(fmt.Sprintf("strengths %d, growth %d, comments %d",
				len(pools.Strengths), len(pools.Growth), len(pools.Comments))))
		}
	}
	return nil
}
