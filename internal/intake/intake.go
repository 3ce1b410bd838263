// Package intake reads report records from YAML and JSON files and turns them
// into engine inputs. A file holds one record or a list of records.
package intake

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/reportcard/internal/cue"
	"github.com/dotcommander/reportcard/internal/discovery"
	"github.com/dotcommander/reportcard/internal/engine"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ErrNotRecords means a file decoded but holds neither a mapping nor a list of mappings
var ErrNotRecords = errors.New("file does not contain report records")

// Record field names
const (
	FieldStudentName = "student_name"
	FieldCourse      = "course"
	FieldModule      = "module"
	FieldIssuer      = "issuer"
	FieldIssueDate   = "issue_date"
	FieldTheory      = "theory"
	FieldPractical   = "practical"
	FieldAttendance  = "attendance"
)

// Batch is what one file yielded. Findings are warnings: records that break
// the record schema are still evaluated, since the engine tolerates bad input.
type Batch struct {
	Source   string
	Inputs   []engine.Input
	Findings []cue.ValidationError
}

// Reader decodes and checks record files
type Reader struct {
	validator *cue.Validator
}

// NewReader creates a Reader with the record schema loaded
func NewReader() (*Reader, error) {
	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, err
	}
	return &Reader{validator: v}, nil
}

// ReadFile loads records from a path on disk
func (r *Reader) ReadFile(path string) (Batch, error) {
	abs, err := discovery.ValidateFilePath(path)
	if err != nil {
		return Batch{}, err
	}
	format, err := discovery.DetectFormat(abs)
	if err != nil {
		return Batch{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Batch{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.Parse(path, format, data)
}

// ReadFiles loads every discovered file in order
func (r *Reader) ReadFiles(files []discovery.File) ([]Batch, error) {
	batches := make([]Batch, 0, len(files))
	for _, f := range files {
		b, err := r.Parse(f.RelPath, f.Format, f.Contents)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// Parse decodes data and converts each record. source names the records in
// findings and in engine.Input.Source.
func (r *Reader) Parse(source string, format discovery.Format, data []byte) (Batch, error) {
	docs, err := decode(format, data)
	if err != nil {
		return Batch{}, fmt.Errorf("%s: %w", source, err)
	}

	batch := Batch{Source: source}
	for i, doc := range docs {
		where := source
		if len(docs) > 1 {
			where = fmt.Sprintf("%s[%d]", source, i)
		}

		errs, err := r.validator.ValidateRecord(doc)
		if err != nil {
			return Batch{}, fmt.Errorf("%s: %w", where, err)
		}
		for _, e := range errs {
			e.File = where
			e.Severity = "warning"
			batch.Findings = append(batch.Findings, e)
		}

		in, dateErr := ToInput(doc)
		if dateErr != nil {
			batch.Findings = append(batch.Findings, cue.ValidationError{
				File:     where,
				Path:     FieldIssueDate,
				Message:  dateErr.Error(),
				Severity: "warning",
			})
		}
		in.Source = where
		batch.Inputs = append(batch.Inputs, in)
	}
	return batch, nil
}

// ToInput converts one decoded record. Scores pass through untouched for the
// engine to normalize. An unreadable issue date is reported and left zero so
// the engine dates the report itself.
func ToInput(doc map[string]any) (engine.Input, error) {
	in := engine.Input{
		StudentName: str(doc[FieldStudentName]),
		CourseName:  str(doc[FieldCourse]),
		Module:      str(doc[FieldModule]),
		Issuer:      str(doc[FieldIssuer]),
		Theory:      doc[FieldTheory],
		Practical:   doc[FieldPractical],
		Attendance:  doc[FieldAttendance],
	}

	raw, ok := doc[FieldIssueDate]
	if !ok || raw == nil || strings.TrimSpace(str(raw)) == "" {
		return in, nil
	}
	date, err := ParseDate(raw)
	if err != nil {
		return in, err
	}
	in.IssueDate = date
	return in, nil
}

// ParseDate reads an issue date in any layout cast understands
// (2006-01-02, RFC 3339 and friends).
func ParseDate(raw any) (time.Time, error) {
	t, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("unreadable issue date %q", str(raw))
	}
	return t, nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func decode(format discovery.Format, data []byte) ([]map[string]any, error) {
	var root any
	switch format {
	case discovery.FormatJSON:
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("error parsing JSON: %w", err)
		}
	case discovery.FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported record format %s", format)
	}

	switch v := root.(type) {
	case map[string]any:
		return []map[string]any{v}, nil
	case []any:
		docs := make([]map[string]any, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: item %d is %T", ErrNotRecords, i, item)
			}
			docs = append(docs, m)
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("%w: top level is %T", ErrNotRecords, root)
	}
}
