package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dotcommander/reportcard/internal/engine"
	"github.com/dotcommander/reportcard/internal/intake"
	"github.com/dotcommander/reportcard/internal/output"
	"github.com/dotcommander/reportcard/internal/outputters"
	"github.com/spf13/cobra"
)

var (
	evalStudent     string
	evalCourse      string
	evalModule      string
	evalTheory      string
	evalPractical   string
	evalAttendance  string
	evalIssued      string
	evalPayloadOnly bool
	evalRecord      bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Generate one report card from command-line scores",
	Long: `Evaluate grades a single student. Scores are taken as typed: values such as
"87", "87.9" or "87 points" are read as 87, and missing or unreadable scores
count as 0. Scores are clamped to 0-100.

Examples:
  reportcard evaluate --student "Ada Lovelace" --course "Python Programming" \
      --theory 90 --practical 92 --attendance 96
  reportcard evaluate --student Ada --theory 72 --practical 68 --attendance 80 --payload-only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvaluate(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	f := evaluateCmd.Flags()
	f.StringVar(&evalStudent, "student", "", "Student's full name")
	f.StringVar(&evalCourse, "course", "", "Course name (unknown courses use the bank default)")
	f.StringVar(&evalModule, "module", "", "Module or unit name")
	f.StringVar(&evalTheory, "theory", "", "Theory score")
	f.StringVar(&evalPractical, "practical", "", "Practical score")
	f.StringVar(&evalAttendance, "attendance", "", "Attendance score")
	f.StringVar(&evalIssued, "issued", "", "Issue date, YYYY-MM-DD (default: today)")
	f.BoolVar(&evalPayloadOnly, "payload-only", false, "Print only the verification payload")
	f.BoolVar(&evalRecord, "record", false, "Add the payload to the issuance ledger")
}

func runEvaluate(out io.Writer) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.log.Sync()

	in := engine.Input{
		StudentName: evalStudent,
		CourseName:  evalCourse,
		Module:      evalModule,
		Theory:      scoreFlag(evalTheory),
		Practical:   scoreFlag(evalPractical),
		Attendance:  scoreFlag(evalAttendance),
	}
	if strings.TrimSpace(evalIssued) != "" {
		in.IssueDate, err = intake.ParseDate(evalIssued)
		if err != nil {
			return err
		}
	}

	r, err := s.engine.Evaluate(in)
	if err != nil {
		return err
	}
	s.warnFallbacks([]engine.Result{r})

	b := &output.Batch{Results: []engine.Result{r}}
	if evalRecord {
		if b.Recorded, err = s.record(b.Results); err != nil {
			return err
		}
	}

	if evalPayloadOnly {
		_, err := fmt.Fprintln(out, r.VerificationText)
		return err
	}
	return outputters.NewOutputter(s.cfg, out).Format(b, s.cfg.Format)
}

// scoreFlag passes an unset score flag through as nil so it normalizes to 0
func scoreFlag(v string) any {
	if v == "" {
		return nil
	}
	return v
}
