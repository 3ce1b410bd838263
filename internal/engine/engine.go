// Package engine runs the evaluation pipeline: normalize raw scores, grade
// them, classify the tier, select narrative text and encode the verification
// payload.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dotcommander/reportcard/internal/bank"
	"github.com/dotcommander/reportcard/internal/narrative"
	"github.com/dotcommander/reportcard/internal/payload"
	"github.com/dotcommander/reportcard/internal/scoring"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
)

// Input is one report request as it arrives from a form or import file.
// Scores are left loosely typed; Evaluate normalizes them.
type Input struct {
	StudentName string    `json:"student_name"`
	CourseName  string    `json:"course"`
	Module      string    `json:"module,omitempty"`
	Issuer      string    `json:"issuer,omitempty"`
	IssueDate   time.Time `json:"issue_date,omitempty"`
	Theory      any       `json:"theory"`
	Practical   any       `json:"practical"`
	Attendance  any       `json:"attendance"`
	Source      string    `json:"source,omitempty"` // file the record came from, if any
}

// Result is everything the rendering layer needs for one report
type Result struct {
	ReportID         string              `json:"report_id"`
	StudentName      string              `json:"student_name"`
	Course           string              `json:"course"`
	Module           string              `json:"module,omitempty"`
	Issuer           string              `json:"issuer,omitempty"`
	IssueDate        time.Time           `json:"issue_date"`
	Scores           scoring.ScoreSet    `json:"scores"`
	Grades           scoring.GradeResult `json:"grades"`
	Tier             scoring.Tier        `json:"tier"`
	Narrative        narrative.Selection `json:"narrative"`
	VerificationText string              `json:"verification_text"`
	Source           string              `json:"source,omitempty"`
}

// Option configures an Engine
type Option func(*Engine)

// WithClassifier sets the tier classifier
func WithClassifier(c scoring.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithDefaultIssuer sets the issuer used when an input has none
func WithDefaultIssuer(issuer string) Option {
	return func(e *Engine) { e.issuer = strings.TrimSpace(issuer) }
}

// WithClock sets the clock used to date reports that carry no issue date
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the report ID generator
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithSelectorOptions passes options through to the narrative selector
func WithSelectorOptions(opts ...narrative.Option) Option {
	return func(e *Engine) { e.selectorOpts = append(e.selectorOpts, opts...) }
}

// Engine evaluates report inputs against a read-only template bank.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	selector     *narrative.Selector
	selectorOpts []narrative.Option
	classifier   scoring.Classifier
	issuer       string
	now          func() time.Time
	newID        func() string
}

// New creates an Engine over a template bank
func New(b *bank.Bank, opts ...Option) *Engine {
	e := &Engine{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.selector = narrative.NewSelector(b, e.selectorOpts...)
	return e
}

// Evaluate produces the grades, tier, narrative and verification text for one
// input. Bad or missing input never fails; the only error is a template bank
// with an empty pool.
func (e *Engine) Evaluate(in Input) (Result, error) {
	scores := scoring.NormalizeSet(in.Theory, in.Practical, in.Attendance)
	grades := scoring.Grade(scores)
	tier := e.classifier.Classify(grades.Aggregate, float64(scores.Attendance))

	sel, err := e.selector.Select(in.CourseName, tier, scores, in.StudentName)
	if err != nil {
		return Result{}, fmt.Errorf("selecting narrative for %q: %w", in.StudentName, err)
	}

	issuer := strings.TrimSpace(in.Issuer)
	if issuer == "" {
		issuer = e.issuer
	}
	issued := in.IssueDate
	if issued.IsZero() {
		issued = e.now()
	}

	r := Result{
		ReportID:    e.newID(),
		StudentName: strings.TrimSpace(in.StudentName),
		Course:      strings.TrimSpace(in.CourseName),
		Module:      strings.TrimSpace(in.Module),
		Issuer:      issuer,
		IssueDate:   issued,
		Scores:      scores,
		Grades:      grades,
		Tier:        tier,
		Narrative:   sel,
		Source:      in.Source,
	}
	r.VerificationText = payload.Encode(payload.Report{
		StudentName: r.StudentName,
		Course:      r.Course,
		Module:      r.Module,
		Scores:      r.Scores,
		Grades:      r.Grades,
		IssueDate:   r.IssueDate,
		Issuer:      r.Issuer,
	})
	return r, nil
}

// EvaluateBatch evaluates inputs concurrently with at most workers goroutines
// and returns results in input order. Evaluation stops picking up new inputs
// once ctx is done.
func (e *Engine) EvaluateBatch(ctx context.Context, inputs []Input, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	mapper := iter.Mapper[Input, Result]{MaxGoroutines: workers}
	return mapper.MapErr(inputs, func(in *Input) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		return e.Evaluate(*in)
	})
}
