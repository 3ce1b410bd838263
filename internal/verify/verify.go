// Package verify cross-checks a scanned verification payload: the field
// layout, every letter grade against its score, the overall grade against the
// re-derived aggregate, and optionally the issuance ledger.
package verify

import (
	"fmt"
	"time"

	"github.com/dotcommander/reportcard/internal/ledger"
	"github.com/dotcommander/reportcard/internal/payload"
	"github.com/dotcommander/reportcard/internal/scoring"
)

// Severity levels
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Finding is one problem found in a payload
type Finding struct {
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Verdict is the outcome of verifying one payload
type Verdict struct {
	Valid    bool              `json:"valid"`
	Findings []Finding         `json:"findings,omitempty"`
	Lines    payload.Lines     `json:"-"`
	Ledger   *ledger.Entry     `json:"ledger,omitempty"` // set when the payload was found in the ledger
	Scores   *scoring.ScoreSet `json:"scores,omitempty"` // set when all three scores parsed
}

// Verify checks payload text. A nil ledger skips the issuance check.
func Verify(text string, l *ledger.Ledger) Verdict {
	var v Verdict

	lines, err := payload.Parse(text)
	if err != nil {
		v.add("", SeverityError, err.Error())
		return v.finish()
	}
	v.Lines = lines

	checkLayout(&v, lines)
	checkGrades(&v, lines)
	checkMetadata(&v, lines)

	if l != nil {
		if entry, ok := l.Lookup(text); ok {
			v.Ledger = &entry
		} else {
			v.add("", SeverityError, "payload not found in issuance ledger")
		}
	}

	return v.finish()
}

func checkLayout(v *Verdict, lines payload.Lines) {
	if len(lines) != len(payload.Labels) {
		v.add("", SeverityError, fmt.Sprintf("payload has %d lines, want %d", len(lines), len(payload.Labels)))
	}
	for i, label := range payload.Labels {
		if i >= len(lines) {
			v.add(label, SeverityError, "field missing")
			continue
		}
		if lines[i].Label != label {
			v.add(label, SeverityError, fmt.Sprintf("line %d is %q, want %q", i+1, lines[i].Label, label))
		}
	}
}

func checkGrades(v *Verdict, lines payload.Lines) {
	var scores scoring.ScoreSet
	parsed := 0

	for _, metric := range scoring.Metrics {
		label := payload.MetricLabels[metric]
		value, ok := lines.Value(label)
		if !ok {
			continue
		}
		score, letter, err := payload.ParseScore(value)
		if err != nil {
			v.add(label, SeverityError, err.Error())
			continue
		}
		if score < 0 || score > 100 {
			v.add(label, SeverityError, fmt.Sprintf("score %d outside 0-100", score))
			continue
		}
		if want := scoring.GradeOf(score); letter != want {
			v.add(label, SeverityError, fmt.Sprintf("grade %s does not match score %d (want %s)", letter, score, want))
		}
		switch metric {
		case scoring.Theory:
			scores.Theory = score
		case scoring.Practical:
			scores.Practical = score
		case scoring.Attendance:
			scores.Attendance = score
		}
		parsed++
	}

	overall, ok := lines.Value(payload.LabelOverall)
	if !ok || parsed != len(scoring.Metrics) {
		return
	}
	v.Scores = &scores
	if want := scoring.Grade(scores).Overall; scoring.Letter(overall) != want {
		v.add(payload.LabelOverall, SeverityError,
			fmt.Sprintf("overall grade %s does not match aggregate %d (want %s)", overall, scoring.RoundHalfUp(scoring.Aggregate(scores)), want))
	}
}

func checkMetadata(v *Verdict, lines payload.Lines) {
	if issued, ok := lines.Value(payload.LabelIssued); ok {
		if issued == payload.Unknown {
			v.add(payload.LabelIssued, SeverityWarning, "issue date unknown")
		} else if _, err := time.Parse(payload.DateLayout, issued); err != nil {
			v.add(payload.LabelIssued, SeverityError, fmt.Sprintf("issue date %q is not YYYY-MM-DD", issued))
		}
	}
	for _, label := range []string{payload.LabelStudent, payload.LabelIssuer} {
		if value, ok := lines.Value(label); ok && value == payload.Unknown {
			v.add(label, SeverityWarning, "value unknown")
		}
	}
}

func (v *Verdict) add(field, severity, msg string) {
	v.Findings = append(v.Findings, Finding{Field: field, Message: msg, Severity: severity})
}

func (v *Verdict) finish() Verdict {
	v.Valid = true
	for _, f := range v.Findings {
		if f.Severity == SeverityError {
			v.Valid = false
			break
		}
	}
	return *v
}

// Errors returns only the error-severity findings
func (v Verdict) Errors() []Finding {
	var out []Finding
	for _, f := range v.Findings {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}
