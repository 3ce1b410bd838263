package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotcommander/reportcard/internal/scoring"
)

// SummaryFormatter prints a boxed grade and tier distribution for a batch
type SummaryFormatter struct {
	out    io.Writer
	styles printStyles
}

// printStyles holds all the styles used in the summary report.
type printStyles struct {
	header  lipgloss.Style
	gradeA  lipgloss.Style
	gradeB  lipgloss.Style
	gradeC  lipgloss.Style
	gradeDF lipgloss.Style
	dim     lipgloss.Style
}

// newPrintStyles creates a new set of print styles.
func newPrintStyles(colorize bool) printStyles {
	if !colorize {
		plain := lipgloss.NewStyle()
		return printStyles{plain, plain, plain, plain, plain, plain}
	}
	return printStyles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		gradeA:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		gradeB:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		gradeC:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		gradeDF: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// NewSummaryFormatter creates a new SummaryFormatter
func NewSummaryFormatter(out io.Writer) *SummaryFormatter {
	return &SummaryFormatter{out: out, styles: newPrintStyles(isTerminal(out))}
}

// Format prints the summary box
func (f *SummaryFormatter) Format(b *Batch) error {
	stats := Summarize(b.Results)

	f.printHeader()
	f.printCounts(stats, b)
	f.printGradeDistribution(stats)
	f.printTierDistribution(stats)
	f.printLowest(stats)
	f.printFooter()
	return nil
}

const boxRule = "═══════════════════════════════════════════════════════════"

func (f *SummaryFormatter) printHeader() {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, f.styles.header.Render("╔"+boxRule+"╗"))
	fmt.Fprintln(f.out, f.styles.header.Render("║                  REPORT CARD SUMMARY                      ║"))
	fmt.Fprintln(f.out, f.styles.header.Render("╠"+boxRule+"╣"))
}

func (f *SummaryFormatter) printCounts(stats Stats, b *Batch) {
	fmt.Fprintf(f.out, "║ Reports: %-49d ║\n", stats.Total)
	fmt.Fprintf(f.out, "║   Mean score: %-5.1f │ Warnings: %-4d │ Fallbacks: %-5d ║\n",
		stats.MeanAggregate, len(b.Findings), stats.FellBack)
}

func (f *SummaryFormatter) section(title string) {
	fmt.Fprintln(f.out, f.styles.header.Render("╠───────────────────────────────────────────────────────────╣"))
	fmt.Fprintf(f.out, "║ %-57s ║\n", title)
}

func (f *SummaryFormatter) printGradeDistribution(stats Stats) {
	f.section("GRADE DISTRIBUTION")

	rows := []struct {
		label string
		count int
		style lipgloss.Style
		color string
	}{
		{"A (85-100)", stats.GradeCounts[scoring.LetterA], f.styles.gradeA, "10"},
		{"B (70-84) ", stats.GradeCounts[scoring.LetterB], f.styles.gradeB, "12"},
		{"C (65-69) ", stats.GradeCounts[scoring.LetterC], f.styles.gradeC, "3"},
		{"D (50-64) ", stats.GradeCounts[scoring.LetterD], f.styles.gradeDF, "9"},
		{"F (<50)   ", stats.GradeCounts[scoring.LetterF], f.styles.gradeDF, "9"},
	}
	for _, row := range rows {
		fmt.Fprintf(f.out, "║   %s: %-4d (%5.1f%%)  %s                     ║\n",
			row.style.Render(row.label), row.count, percent(row.count, stats.Total),
			renderBar(row.count, stats.Total, row.color))
	}
}

func (f *SummaryFormatter) printTierDistribution(stats Stats) {
	f.section("TIER DISTRIBUTION")
	for i := len(scoring.Tiers) - 1; i >= 0; i-- {
		t := scoring.Tiers[i]
		n := stats.TierCounts[t]
		fmt.Fprintf(f.out, "║   %-12s: %-4d (%5.1f%%)  %s              ║\n",
			t, n, percent(n, stats.Total), renderBar(n, stats.Total, tierColor(t)))
	}
}

func (f *SummaryFormatter) printLowest(stats Stats) {
	if len(stats.Lowest) == 0 {
		return
	}
	f.section("LOWEST SCORING REPORTS")

	for i, r := range stats.Lowest {
		name := r.StudentName
		if name == "" {
			name = "Unnamed student"
		}
		if len(name) > 35 {
			name = name[:32] + "..."
		}
		gradeStyle := f.styles.gradeDF
		if r.Grades.Overall == scoring.LetterC {
			gradeStyle = f.styles.gradeC
		}
		fmt.Fprintf(f.out, "║   %s %-35s %s %3d              ║\n",
			f.styles.dim.Render(fmt.Sprintf("%d.", i+1)),
			name,
			gradeStyle.Render(string(r.Grades.Overall)),
			r.Grades.Rounded)
	}
}

func (f *SummaryFormatter) printFooter() {
	fmt.Fprintln(f.out, f.styles.header.Render("╚"+boxRule+"╝"))
	fmt.Fprintln(f.out)
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func renderBar(count, total int, color string) string {
	if total == 0 {
		return strings.Repeat("░", 10)
	}
	barWidth := 10
	filled := (count * barWidth) / total
	if count > 0 && filled == 0 {
		filled = 1
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	return style.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
}
