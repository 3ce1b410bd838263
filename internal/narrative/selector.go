// Package narrative picks strengths, growth and comment sentences from the
// template bank. Selection is a pure function of its inputs.
package narrative

import (
	"github.com/dotcommander/reportcard/internal/bank"
	"github.com/dotcommander/reportcard/internal/scoring"
)

// Score thresholds that pick a template's position in its pool
const (
	ExceedsThreshold    = 90 // last entry
	ProficientThreshold = 80 // second entry
	AttentionThreshold  = 80 // focused growth entries need their metric below this
)

// Drivers maps each pool to the metrics whose mean drives its selection
type Drivers map[bank.Pool][]scoring.Metric

// DefaultDrivers is the pool-to-metric mapping used when none is configured
func DefaultDrivers() Drivers {
	return Drivers{
		bank.Strengths: {scoring.Practical},
		bank.Growth:    {scoring.Theory},
		bank.Comments:  {scoring.Theory, scoring.Practical},
	}
}

// Selection is the narrative chosen for one report
type Selection struct {
	Strengths string `json:"strengths"`
	Growth    string `json:"growth"`
	Comments  string `json:"comments"`
	Course    string `json:"course"`    // course whose templates were used
	FellBack  bool   `json:"fell_back"` // true when the requested course was unknown
}

// Option configures a Selector
type Option func(*Selector)

// WithDrivers overrides the driver metrics for the given pools. Pools without
// an entry, or with an empty metric list, keep their default drivers.
func WithDrivers(d Drivers) Option {
	return func(s *Selector) {
		for pool, metrics := range d {
			if len(metrics) > 0 {
				s.drivers[pool] = append([]scoring.Metric(nil), metrics...)
			}
		}
	}
}

// Selector draws narrative text from a template bank
type Selector struct {
	bank    *bank.Bank
	drivers Drivers
}

// NewSelector creates a Selector over a read-only bank
func NewSelector(b *bank.Bank, opts ...Option) *Selector {
	s := &Selector{bank: b, drivers: DefaultDrivers()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select picks one template per pool for the course and tier and fills in the
// student's first name. Unknown courses use the bank's default course. The
// only error is bank.ErrEmptyPool, which means the bank itself is broken.
func (s *Selector) Select(course string, tier scoring.Tier, scores scoring.ScoreSet, studentName string) (Selection, error) {
	name, pools, fellBack, err := s.bank.Pools(course, tier)
	if err != nil {
		return Selection{}, err
	}

	first := FirstName(studentName)
	return Selection{
		Strengths: Substitute(pick(pools.Strengths, s.driverScore(bank.Strengths, scores)).Text, first),
		Growth:    Substitute(s.pickGrowth(pools.Growth, scores).Text, first),
		Comments:  Substitute(pick(pools.Comments, s.driverScore(bank.Comments, scores)).Text, first),
		Course:    name,
		FellBack:  fellBack,
	}, nil
}

// driverScore is the mean of the pool's driver metrics
func (s *Selector) driverScore(pool bank.Pool, scores scoring.ScoreSet) float64 {
	metrics := s.drivers[pool]
	if len(metrics) == 0 {
		return scoring.Aggregate(scores)
	}
	total := 0
	for _, m := range metrics {
		total += scores.Get(m)
	}
	return float64(total) / float64(len(metrics))
}

// pickGrowth keeps unfocused templates plus those whose focus metric needs
// attention, then applies the position rule to what is left.
func (s *Selector) pickGrowth(pool []bank.Template, scores scoring.ScoreSet) bank.Template {
	candidates := make([]bank.Template, 0, len(pool))
	for _, tmpl := range pool {
		if tmpl.Focus == "" || scores.Get(tmpl.Focus) < AttentionThreshold {
			candidates = append(candidates, tmpl)
		}
	}
	if len(candidates) == 0 {
		return pool[0]
	}
	return pick(candidates, s.driverScore(bank.Growth, scores))
}

// pick applies the position rule: exceeds -> last, proficient -> second,
// otherwise the baseline first entry. pool must be non-empty.
func pick(pool []bank.Template, score float64) bank.Template {
	switch {
	case score >= ExceedsThreshold:
		return pool[len(pool)-1]
	case score >= ProficientThreshold && len(pool) > 1:
		return pool[1]
	default:
		return pool[0]
	}
}
