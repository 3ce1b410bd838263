package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotcommander/reportcard/internal/payload"
	"github.com/dotcommander/reportcard/internal/verify"
)

// FormatVerdict renders a payload verification result as console text or JSON
func FormatVerdict(out io.Writer, v verify.Verdict, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		_, err = out.Write(append(data, '\n'))
		return err
	}

	colorize := isTerminal(out)
	style := func(color string) lipgloss.Style {
		if !colorize {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}

	if student, ok := v.Lines.Value(payload.LabelStudent); ok {
		fmt.Fprintf(out, "%s %s\n", style("8").Render("Student:"), student)
	}
	if course, ok := v.Lines.Value(payload.LabelCourse); ok {
		fmt.Fprintf(out, "%s %s\n", style("8").Render("Course: "), course)
	}

	for _, f := range v.Findings {
		icon, color := "✘", "9"
		if f.Severity == verify.SeverityWarning {
			icon, color = "⚠", "3"
		}
		msg := f.Message
		if f.Field != "" {
			msg = f.Field + ": " + msg
		}
		fmt.Fprintf(out, "  %s %s\n", style(color).Render(icon), msg)
	}

	if v.Ledger != nil {
		fmt.Fprintf(out, "  %s issued %s (report %s)\n", style("10").Render("✓"),
			v.Ledger.IssuedAt, v.Ledger.ReportID)
	}

	if v.Valid {
		fmt.Fprintln(out, style("10").Render("✓ payload is consistent"))
	} else {
		fmt.Fprintln(out, style("9").Render(fmt.Sprintf("✗ payload failed verification (%d errors)", len(v.Errors()))))
	}
	return nil
}
