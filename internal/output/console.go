package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotcommander/reportcard/internal/cue"
	"github.com/dotcommander/reportcard/internal/engine"
	"github.com/dotcommander/reportcard/internal/scoring"
)

// narrativeWidth is the wrap width for narrative paragraphs
const narrativeWidth = 72

// ConsoleFormatter prints full report cards for terminal display
type ConsoleFormatter struct {
	out      io.Writer
	quiet    bool
	verbose  bool
	colorize bool
}

// NewConsoleFormatter creates a new ConsoleFormatter. Color is used only when
// out is a terminal.
func NewConsoleFormatter(out io.Writer, quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		out:      out,
		quiet:    quiet,
		verbose:  verbose,
		colorize: isTerminal(out),
	}
}

// Format prints each report card followed by intake warnings and a footer
func (f *ConsoleFormatter) Format(b *Batch) error {
	if f.quiet {
		return nil
	}

	for i, r := range b.Results {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printCard(r)
	}

	f.printFindings(b.Findings)
	f.printFooter(b)
	return nil
}

func (f *ConsoleFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// gradeColor picks the terminal color for a letter grade
func gradeColor(l scoring.Letter) string {
	switch l {
	case scoring.LetterA, scoring.LetterB:
		return "10" // green
	case scoring.LetterC:
		return "3" // yellow
	default:
		return "9" // red
	}
}

func tierColor(t scoring.Tier) string {
	switch t {
	case scoring.Advanced:
		return "10"
	case scoring.Intermediate:
		return "12"
	default:
		return "3"
	}
}

// printCard prints one report card
func (f *ConsoleFormatter) printCard(r engine.Result) {
	bold := f.style("15").Bold(f.colorize)
	dim := f.style("8")

	name := r.StudentName
	if name == "" {
		name = "Unnamed student"
	}
	heading := name
	if r.Course != "" {
		heading += " · " + r.Course
	}
	if r.Module != "" {
		heading += " (" + r.Module + ")"
	}
	fmt.Fprintln(f.out, bold.Render(heading))

	for _, m := range scoring.Metrics {
		letter := r.Grades.Letter(m)
		fmt.Fprintf(f.out, "  %-11s %3d  %s\n", metricTitle(m), r.Scores.Get(m), f.style(gradeColor(letter)).Render(string(letter)))
	}
	fmt.Fprintf(f.out, "  %-11s %3d  %s  %s\n", "Overall", r.Grades.Rounded,
		f.style(gradeColor(r.Grades.Overall)).Bold(f.colorize).Render(string(r.Grades.Overall)),
		f.style(tierColor(r.Tier)).Render(r.Tier.String()))

	if r.Narrative.FellBack {
		fmt.Fprintf(f.out, "  %s\n", f.style("3").Render(fmt.Sprintf("⚠ course %q not in template bank, used %s", r.Course, r.Narrative.Course)))
	}

	fmt.Fprintln(f.out)
	f.printParagraph("Strengths", r.Narrative.Strengths)
	f.printParagraph("Growth", r.Narrative.Growth)
	f.printParagraph("Comments", r.Narrative.Comments)

	if f.verbose {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, dim.Render("  Verification ("+r.ReportID+")"))
		for _, line := range strings.Split(r.VerificationText, "\n") {
			fmt.Fprintln(f.out, dim.Render("    "+line))
		}
	}
}

func (f *ConsoleFormatter) printParagraph(title, text string) {
	header := f.style("12").Bold(f.colorize)
	body := lipgloss.NewStyle().Width(narrativeWidth).PaddingLeft(4)
	fmt.Fprintln(f.out, header.Render("  "+title))
	for _, line := range strings.Split(body.Render(text), "\n") {
		fmt.Fprintln(f.out, strings.TrimRight(line, " "))
	}
}

// printFindings prints intake warnings with appropriate styling
func (f *ConsoleFormatter) printFindings(findings []cue.ValidationError) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintln(f.out)
	style := f.style("3")
	for _, w := range findings {
		fmt.Fprintf(f.out, "%s %s\n", style.Render("⚠"), w.Error())
	}
}

func (f *ConsoleFormatter) printFooter(b *Batch) {
	n := len(b.Results)
	text := fmt.Sprintf("%d report", n)
	if n != 1 {
		text += "s"
	}
	text += " generated"
	if len(b.Findings) > 0 {
		text += fmt.Sprintf(", %d warning", len(b.Findings))
		if len(b.Findings) != 1 {
			text += "s"
		}
	}
	if b.Recorded > 0 {
		text += fmt.Sprintf(", %d recorded", b.Recorded)
	}
	if d := elapsed(b.StartTime); d > 0 {
		text += fmt.Sprintf(" (%s)", d)
	}

	fmt.Fprintln(f.out)
	allA := n > 0 && len(b.Findings) == 0
	for _, r := range b.Results {
		if r.Grades.Overall != scoring.LetterA {
			allA = false
			break
		}
	}
	switch {
	case f.colorize && allA:
		printHonorRoll(f.out, text)
	case len(b.Findings) > 0:
		fmt.Fprintln(f.out, f.style("3").Render(text))
	default:
		fmt.Fprintln(f.out, f.style("10").Render(text))
	}
}

func metricTitle(m scoring.Metric) string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
