package intake

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dotcommander/reportcard/internal/discovery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReader(t *testing.T) *Reader {
	t.Helper()
	r, err := NewReader()
	require.NoError(t, err)
	return r
}

func TestParseSingleYAMLRecord(t *testing.T) {
	data := []byte(`
student_name: Ada Lovelace
course: Python Programming
module: Loops
issuer: Codecraft Academy
issue_date: 2025-06-30
theory: 90
practical: "92"
attendance: 96.7
`)
	b, err := newReader(t).Parse("ada.yaml", discovery.FormatYAML, data)
	require.NoError(t, err)
	assert.Empty(t, b.Findings)
	require.Len(t, b.Inputs, 1)

	in := b.Inputs[0]
	assert.Equal(t, "Ada Lovelace", in.StudentName)
	assert.Equal(t, "Python Programming", in.CourseName)
	assert.Equal(t, "Loops", in.Module)
	assert.Equal(t, "Codecraft Academy", in.Issuer)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), in.IssueDate)
	assert.Equal(t, 90, in.Theory)
	assert.Equal(t, "92", in.Practical)
	assert.Equal(t, 96.7, in.Attendance)
	assert.Equal(t, "ada.yaml", in.Source)
}

func TestParseJSONList(t *testing.T) {
	data := []byte(`[
  {"student_name": "Ada", "theory": 90, "practical": 80, "attendance": 70},
  {"student_name": "Alan", "theory": null, "practical": "", "attendance": 40}
]`)
	b, err := newReader(t).Parse("class.json", discovery.FormatJSON, data)
	require.NoError(t, err)
	assert.Empty(t, b.Findings)
	require.Len(t, b.Inputs, 2)

	assert.Equal(t, "class.json[0]", b.Inputs[0].Source)
	assert.Equal(t, "class.json[1]", b.Inputs[1].Source)
	assert.Equal(t, float64(90), b.Inputs[0].Theory)
	assert.Nil(t, b.Inputs[1].Theory)
	assert.True(t, b.Inputs[1].IssueDate.IsZero())
}

func TestParseSchemaFindingsAreWarnings(t *testing.T) {
	data := []byte(`
student_name: Grace
theory: true
grade: A
`)
	b, err := newReader(t).Parse("grace.yaml", discovery.FormatYAML, data)
	require.NoError(t, err)

	// The record is still evaluated
	require.Len(t, b.Inputs, 1)
	assert.Equal(t, "Grace", b.Inputs[0].StudentName)

	require.NotEmpty(t, b.Findings)
	for _, f := range b.Findings {
		assert.Equal(t, "warning", f.Severity)
		assert.Equal(t, "grace.yaml", f.File)
	}
}

func TestParseBadIssueDate(t *testing.T) {
	b, err := newReader(t).Parse("x.yaml", discovery.FormatYAML, []byte("student_name: X\nissue_date: someday\n"))
	require.NoError(t, err)
	require.Len(t, b.Inputs, 1)
	assert.True(t, b.Inputs[0].IssueDate.IsZero())

	require.Len(t, b.Findings, 1)
	assert.Equal(t, FieldIssueDate, b.Findings[0].Path)
	assert.Contains(t, b.Findings[0].Message, "someday")
}

func TestParseRejectsNonRecords(t *testing.T) {
	r := newReader(t)
	tests := []struct {
		name   string
		format discovery.Format
		data   string
	}{
		{"scalar", discovery.FormatYAML, "just text\n"},
		{"list of scalars", discovery.FormatJSON, `[1, 2]`},
		{"empty", discovery.FormatYAML, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Parse("bad", tt.format, []byte(tt.data))
			assert.True(t, errors.Is(err, ErrNotRecords), "got %v", err)
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	r := newReader(t)

	_, err := r.Parse("bad.json", discovery.FormatJSON, []byte(`{"student_name":`))
	assert.ErrorContains(t, err, "error parsing JSON")

	_, err = r.Parse("bad.yaml", discovery.FormatYAML, []byte("student_name: [unclosed\n"))
	assert.ErrorContains(t, err, "error parsing YAML")

	_, err = r.Parse("bad.txt", discovery.FormatUnknown, []byte("x"))
	assert.ErrorContains(t, err, "unsupported record format")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ada.record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"student_name":"Ada","theory":"88"}`), 0o644))

	b, err := newReader(t).ReadFile(path)
	require.NoError(t, err)
	require.Len(t, b.Inputs, 1)
	assert.Equal(t, "88", b.Inputs[0].Theory)

	_, err = newReader(t).ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "file not found")
}

func TestReadFiles(t *testing.T) {
	files := []discovery.File{
		{RelPath: "a.yaml", Format: discovery.FormatYAML, Contents: []byte("student_name: A\n")},
		{RelPath: "b.json", Format: discovery.FormatJSON, Contents: []byte(`[{"student_name":"B"},{"student_name":"C"}]`)},
	}
	batches, err := newReader(t).ReadFiles(files)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Len(t, batches[0].Inputs, 1)
	assert.Len(t, batches[1].Inputs, 2)
	assert.Equal(t, "C", batches[1].Inputs[1].StudentName)
}

func TestToInputStringifiesScalars(t *testing.T) {
	in, err := ToInput(map[string]any{
		FieldStudentName: "  Ada  ",
		FieldModule:      3,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", in.StudentName)
	assert.Equal(t, "3", in.Module)
	assert.Equal(t, "", in.CourseName)
}
