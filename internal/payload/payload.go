// Package payload encodes the fixed-field verification text that is printed
// as a scannable code next to a report, and parses it back for verifiers.
//
// The format is part of the public contract: one "LABEL: value" pair per
// line, always the same labels in the same order, no trailing newline.
// Changing it breaks verification of reports already in circulation.
package payload

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dotcommander/reportcard/internal/scoring"
)

// Unknown stands in for any missing value
const Unknown = "Unknown"

// DateLayout is the ISSUED date format
const DateLayout = "2006-01-02"

const separator = ": "

// Field labels, in wire order
const (
	LabelStudent    = "STUDENT"
	LabelCourse     = "COURSE"
	LabelModule     = "MODULE"
	LabelTheory     = "THEORY"
	LabelPractical  = "PRACTICAL"
	LabelAttendance = "ATTENDANCE"
	LabelOverall    = "OVERALL"
	LabelIssued     = "ISSUED"
	LabelIssuer     = "ISSUER"
)

// Labels lists every label in wire order
var Labels = []string{
	LabelStudent,
	LabelCourse,
	LabelModule,
	LabelTheory,
	LabelPractical,
	LabelAttendance,
	LabelOverall,
	LabelIssued,
	LabelIssuer,
}

// MetricLabels maps each metric to its payload label
var MetricLabels = map[scoring.Metric]string{
	scoring.Theory:     LabelTheory,
	scoring.Practical:  LabelPractical,
	scoring.Attendance: LabelAttendance,
}

var (
	ErrMalformedLine  = errors.New("malformed payload line")
	ErrMalformedScore = errors.New("malformed score value")
)

// Report is everything the payload records about one issued report
type Report struct {
	StudentName string
	Course      string
	Module      string
	Scores      scoring.ScoreSet
	Grades      scoring.GradeResult
	IssueDate   time.Time
	Issuer      string
}

// Encode renders the verification text for a report. It never fails; blank
// values render as Unknown so every field keeps its line.
func Encode(r Report) string {
	issued := Unknown
	if !r.IssueDate.IsZero() {
		issued = r.IssueDate.Format(DateLayout)
	}
	overall := string(r.Grades.Overall)
	if overall == "" {
		overall = Unknown
	}

	values := []string{
		text(r.StudentName),
		text(r.Course),
		text(r.Module),
		FormatScore(r.Scores.Theory, r.Grades.Theory),
		FormatScore(r.Scores.Practical, r.Grades.Practical),
		FormatScore(r.Scores.Attendance, r.Grades.Attendance),
		overall,
		issued,
		text(r.Issuer),
	}

	lines := make([]string, len(Labels))
	for i, label := range Labels {
		lines[i] = label + separator + values[i]
	}
	return strings.Join(lines, "\n")
}

// FormatScore renders a metric value as "<score> (<letter>)"
func FormatScore(score int, letter scoring.Letter) string {
	if letter == "" {
		letter = scoring.GradeOf(score)
	}
	return fmt.Sprintf("%d (%s)", score, letter)
}

var scoreValue = regexp.MustCompile(`^(-?\d+) \(([A-Z])\)$`)

// ParseScore reads a "<score> (<letter>)" value
func ParseScore(value string) (int, scoring.Letter, error) {
	m := scoreValue.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedScore, value)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedScore, value)
	}
	return n, scoring.Letter(m[2]), nil
}

// Line is one parsed "LABEL: value" pair
type Line struct {
	Label string
	Value string
}

// Lines is a parsed payload in the order it was read
type Lines []Line

// Value returns the value for the first line carrying label
func (ls Lines) Value(label string) (string, bool) {
	for _, l := range ls {
		if l.Label == label {
			return l.Value, true
		}
	}
	return "", false
}

// Parse splits payload text into labelled lines without judging their order
// or count; that is the verifier's job. Blank trailing lines and CRLF line
// endings from scanners are tolerated.
func Parse(payload string) (Lines, error) {
	payload = strings.TrimRight(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedLine)
	}

	raw := strings.Split(payload, "\n")
	out := make(Lines, 0, len(raw))
	for i, line := range raw {
		label, value, ok := strings.Cut(line, separator)
		if !ok {
			// "LABEL:" with an empty value has no trailing space
			if strings.HasSuffix(line, ":") {
				label, value, ok = strings.TrimSuffix(line, ":"), "", true
			}
		}
		if !ok || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, i+1, line)
		}
		out = append(out, Line{Label: strings.TrimSpace(label), Value: value})
	}
	return out, nil
}

// text flattens line breaks and substitutes Unknown for blank values
func text(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return Unknown
	}
	return s
}
