package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/reportcard/internal/engine"
	"github.com/dotcommander/reportcard/internal/scoring"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	out        io.Writer
	verbose    bool
	outputFile string
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(out io.Writer, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		out:        out,
		verbose:    verbose,
		outputFile: outputFile,
	}
}

// Format formats the batch as a Markdown document
func (f *MarkdownFormatter) Format(b *Batch) error {
	var builder strings.Builder
	stats := Summarize(b.Results)

	builder.WriteString("# Report Cards\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	builder.WriteString(strings.Repeat("-", 50) + "\n\n")

	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Count |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Reports | %d |\n", stats.Total))
	for _, t := range scoring.Tiers {
		builder.WriteString(fmt.Sprintf("| %s | %d |\n", t, stats.TierCounts[t]))
	}
	builder.WriteString(fmt.Sprintf("| Warnings | %d |\n", len(b.Findings)))
	if b.Recorded > 0 {
		builder.WriteString(fmt.Sprintf("| Recorded | %d |\n", b.Recorded))
	}
	builder.WriteString("\n")

	builder.WriteString("## Reports\n\n")
	if len(b.Results) == 0 {
		builder.WriteString("*No records found.*\n\n")
	} else if len(b.Results) > 1 {
		for _, r := range b.Results {
			title := reportTitle(r)
			builder.WriteString(fmt.Sprintf("- [%s](#%s)\n", title, createAnchor(title)))
		}
		builder.WriteString("\n")
	}

	for _, r := range b.Results {
		f.writeReport(&builder, r)
	}

	if len(b.Findings) > 0 {
		builder.WriteString("## Warnings\n\n")
		for _, w := range b.Findings {
			builder.WriteString(fmt.Sprintf("- **%s** - ", w.File))
			if w.Path != "" {
				builder.WriteString(fmt.Sprintf("`%s` ", w.Path))
			}
			builder.WriteString(w.Message + "\n")
		}
		builder.WriteString("\n")
	}

	return writeOutput(f.out, f.outputFile, []byte(builder.String()))
}

func (f *MarkdownFormatter) writeReport(builder *strings.Builder, r engine.Result) {
	builder.WriteString(fmt.Sprintf("### %s\n\n", reportTitle(r)))
	if r.Module != "" {
		builder.WriteString(fmt.Sprintf("Module: %s\n\n", r.Module))
	}

	builder.WriteString("| Metric | Score | Grade |\n")
	builder.WriteString("|--------|-------|-------|\n")
	for _, m := range scoring.Metrics {
		builder.WriteString(fmt.Sprintf("| %s | %d | %s |\n", metricTitle(m), r.Scores.Get(m), r.Grades.Letter(m)))
	}
	builder.WriteString(fmt.Sprintf("| **Overall** | %d | **%s** |\n\n", r.Grades.Rounded, r.Grades.Overall))
	builder.WriteString(fmt.Sprintf("Tier: `%s`\n\n", r.Tier))

	builder.WriteString(fmt.Sprintf("**Strengths.** %s\n\n", r.Narrative.Strengths))
	builder.WriteString(fmt.Sprintf("**Growth.** %s\n\n", r.Narrative.Growth))
	builder.WriteString(fmt.Sprintf("**Comments.** %s\n\n", r.Narrative.Comments))

	if f.verbose {
		builder.WriteString("<details><summary>Verification</summary>\n\n")
		builder.WriteString("```\n" + r.VerificationText + "\n```\n\n")
		builder.WriteString("</details>\n\n")
	}
	builder.WriteString("---\n\n")
}

func reportTitle(r engine.Result) string {
	name := r.StudentName
	if name == "" {
		name = "Unnamed student"
	}
	if r.Course == "" {
		return name
	}
	return name + " - " + r.Course
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}
