package payload

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dotcommander/reportcard/internal/scoring"
)

func sampleReport() Report {
	scores := scoring.ScoreSet{Theory: 90, Practical: 92, Attendance: 96}
	return Report{
		StudentName: "Ada Lovelace",
		Course:      "Python Programming",
		Module:      "Module 3",
		Scores:      scores,
		Grades:      scoring.Grade(scores),
		IssueDate:   time.Date(2026, 10, 16, 15, 4, 5, 0, time.UTC),
		Issuer:      "Codecraft Academy",
	}
}

func TestEncode(t *testing.T) {
	want := strings.Join([]string{
		"STUDENT: Ada Lovelace",
		"COURSE: Python Programming",
		"MODULE: Module 3",
		"THEORY: 90 (A)",
		"PRACTICAL: 92 (A)",
		"ATTENDANCE: 96 (A)",
		"OVERALL: A",
		"ISSUED: 2026-10-16",
		"ISSUER: Codecraft Academy",
	}, "\n")

	if got := Encode(sampleReport()); got != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeMissingFields(t *testing.T) {
	r := sampleReport()
	r.StudentName = ""
	r.Module = "  "
	r.Issuer = ""
	r.IssueDate = time.Time{}

	got := Encode(r)
	for _, line := range []string{"STUDENT: Unknown", "MODULE: Unknown", "ISSUED: Unknown", "ISSUER: Unknown"} {
		if !strings.Contains(got, line+"\n") && !strings.HasSuffix(got, line) {
			t.Errorf("Encode() missing %q in\n%s", line, got)
		}
	}
}

func TestEncodeStableShape(t *testing.T) {
	full := sampleReport()

	sparse := Report{Scores: scoring.ScoreSet{Theory: 12}}
	sparse.Grades = scoring.Grade(sparse.Scores)

	multiline := sampleReport()
	multiline.StudentName = "Ada\nLovelace"
	multiline.Issuer = "Codecraft\r\nAcademy"

	for name, r := range map[string]Report{"full": full, "sparse": sparse, "multiline": multiline} {
		t.Run(name, func(t *testing.T) {
			lines := strings.Split(Encode(r), "\n")
			if len(lines) != len(Labels) {
				t.Fatalf("got %d lines, want %d", len(lines), len(Labels))
			}
			for i, line := range lines {
				if !strings.HasPrefix(line, Labels[i]+": ") {
					t.Errorf("line %d = %q, want label %s", i, line, Labels[i])
				}
			}
		})
	}
}

func TestEncodeFlattensLineBreaks(t *testing.T) {
	r := sampleReport()
	r.StudentName = "Ada\nLovelace"
	if got := Encode(r); !strings.HasPrefix(got, "STUDENT: Ada Lovelace\n") {
		t.Errorf("Encode() did not flatten the name:\n%s", got)
	}
}

func TestParse(t *testing.T) {
	lines, err := Parse(Encode(sampleReport()) + "\r\n")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(lines) != len(Labels) {
		t.Fatalf("Parse() returned %d lines, want %d", len(lines), len(Labels))
	}
	for i, l := range lines {
		if l.Label != Labels[i] {
			t.Errorf("line %d label = %q, want %q", i, l.Label, Labels[i])
		}
	}

	if v, ok := lines.Value(LabelCourse); !ok || v != "Python Programming" {
		t.Errorf("Value(COURSE) = %q, %v", v, ok)
	}
	if _, ok := lines.Value("GRADE"); ok {
		t.Error("Value(GRADE) should be absent")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"no separator", "STUDENT Ada"},
		{"missing label", ": Ada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.payload)
			if !errors.Is(err, ErrMalformedLine) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformedLine", tt.payload, err)
			}
		})
	}
}

func TestParseScore(t *testing.T) {
	tests := []struct {
		value      string
		wantScore  int
		wantLetter scoring.Letter
		wantErr    bool
	}{
		{"90 (A)", 90, scoring.LetterA, false},
		{" 0 (F) ", 0, scoring.LetterF, false},
		{"90", 0, "", true},
		{"ninety (A)", 0, "", true},
		{"90 (a)", 0, "", true},
	}
	for _, tt := range tests {
		score, letter, err := ParseScore(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScore(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if score != tt.wantScore || letter != tt.wantLetter {
			t.Errorf("ParseScore(%q) = %d, %q; want %d, %q", tt.value, score, letter, tt.wantScore, tt.wantLetter)
		}
	}
}

func TestFormatScoreDerivesMissingLetter(t *testing.T) {
	if got := FormatScore(66, ""); got != "66 (C)" {
		t.Errorf("FormatScore(66, \"\") = %q, want %q", got, "66 (C)")
	}
}
