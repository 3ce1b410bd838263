package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dotcommander/reportcard/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rootPath     string
	bankPath     string
	issuer       string
	ledgerPath   string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	concurrency  int
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

// exitFunc is swapped out in tests
var exitFunc = os.Exit

var rootCmd = &cobra.Command{
	Use:   "reportcard",
	Short: "Generate graded report cards with verifiable payloads",
	Long: `reportcard turns raw theory, practical and attendance scores into letter
grades, a proficiency tier, narrative feedback drawn from a template bank and a
fixed-field verification payload that can be printed as a scannable code.

Use "evaluate" for a single report, "batch" to process record files,
"summary" for grade distributions and "verify" to check a scanned payload.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	output.Version = Version
	rootCmd.Version = Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Directory searched for record files (default: current directory)")
	rootCmd.PersistentFlags().StringVarP(&bankPath, "bank", "b", "", "Template bank file (default: built-in bank)")
	rootCmd.PersistentFlags().StringVar(&issuer, "issuer", "", "Issuer recorded on reports without one")
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "", "Issuance ledger file (default: .reportcard/ledger.json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "Output format (console|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write json or markdown output to a file")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "Reports evaluated in parallel (default 10)")

	bindFlags()
}

// bindFlags wires the persistent flags into viper
func bindFlags() {
	for key, flag := range map[string]string{
		"bank":        "bank",
		"issuer":      "issuer",
		"ledger":      "ledger",
		"quiet":       "quiet",
		"verbose":     "verbose",
		"format":      "format",
		"output":      "output",
		"concurrency": "concurrency",
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
}
