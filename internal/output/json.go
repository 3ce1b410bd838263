package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/reportcard/internal/engine"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	out        io.Writer
	indent     bool
	outputFile string
}

// NewJSONFormatter creates a new JSONFormatter. With an outputFile the
// document is written there instead of out.
func NewJSONFormatter(out io.Writer, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		out:        out,
		indent:     indent,
		outputFile: outputFile,
	}
}

// Format formats the batch as a single JSON document
func (f *JSONFormatter) Format(b *Batch) error {
	stats := Summarize(b.Results)
	report := JSONReport{
		Header: JSONHeader{
			Tool:      "reportcard",
			Version:   Version,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			Stats:    stats,
			Warnings: len(b.Findings),
			Recorded: b.Recorded,
			Duration: elapsed(b.StartTime).String(),
		},
		Reports: b.Results,
	}
	if report.Reports == nil {
		report.Reports = []engine.Result{}
	}
	for _, w := range b.Findings {
		report.Findings = append(report.Findings, JSONFinding{
			File:     w.File,
			Path:     w.Path,
			Message:  w.Message,
			Severity: w.Severity,
		})
	}

	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(report, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	return writeOutput(f.out, f.outputFile, append(jsonBytes, '\n'))
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header   JSONHeader      `json:"header"`
	Summary  JSONSummary     `json:"summary"`
	Reports  []engine.Result `json:"reports"`
	Findings []JSONFinding   `json:"findings,omitempty"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains summary statistics
type JSONSummary struct {
	Stats
	Warnings int    `json:"warnings"`
	Recorded int    `json:"recorded"`
	Duration string `json:"duration"`
}

// JSONFinding represents an intake warning
type JSONFinding struct {
	File     string `json:"file"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// writeOutput writes data to outputFile when set, otherwise to out
func writeOutput(out io.Writer, outputFile string, data []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	_, err := out.Write(data)
	return err
}
