package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/reportcard/internal/ledger"
	"github.com/dotcommander/reportcard/internal/output"
	"github.com/dotcommander/reportcard/internal/verify"
	"github.com/spf13/cobra"
)

// ErrVerificationFailed is returned when a payload has error findings
var ErrVerificationFailed = errors.New("payload failed verification")

var verifyNoLedger bool

var verifyCmd = &cobra.Command{
	Use:   "verify [file|-]",
	Short: "Check a scanned verification payload",
	Long: `Verify reads a verification payload from a file or stdin and checks that
every field is present in order, every letter grade matches its score and the
overall grade matches the aggregate. When a ledger exists the payload must
also have been recorded there.

Exits non-zero when any check fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(args, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyNoLedger, "no-ledger", false, "Skip the issuance ledger check")
}

func runVerify(args []string, in io.Reader, out io.Writer) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.log.Sync()

	text, err := readPayload(args, in)
	if err != nil {
		return err
	}

	var l *ledger.Ledger
	if !verifyNoLedger {
		if l, err = s.openLedger(); err != nil {
			return err
		}
	}

	v := verify.Verify(text, l)
	if err := output.FormatVerdict(out, v, s.cfg.Format); err != nil {
		return err
	}
	if !v.Valid {
		return ErrVerificationFailed
	}
	return nil
}

func readPayload(args []string, in io.Reader) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("error reading payload: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("error reading payload: %w", err)
	}
	return string(data), nil
}
