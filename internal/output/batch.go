package output

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/dotcommander/reportcard/internal/cue"
	"github.com/dotcommander/reportcard/internal/engine"
	"github.com/dotcommander/reportcard/internal/scoring"
	"golang.org/x/term"
)

// Version is reported in machine-readable output headers
var Version = "dev"

// Batch is one run's worth of generated reports
type Batch struct {
	Results   []engine.Result
	Findings  []cue.ValidationError // intake warnings
	Recorded  int                   // reports newly added to the ledger
	StartTime time.Time
}

// Formatter renders a batch
type Formatter interface {
	Format(b *Batch) error
}

// Stats aggregates grades and tiers across a batch
type Stats struct {
	Total         int                    `json:"total"`
	GradeCounts   map[scoring.Letter]int `json:"grades"`
	TierCounts    map[scoring.Tier]int   `json:"tiers"`
	MeanAggregate float64                `json:"mean_aggregate"`
	FellBack      int                    `json:"fell_back"`
	Lowest        []engine.Result        `json:"-"`
}

// lowestCount is how many of the weakest reports Stats keeps
const lowestCount = 5

// Summarize computes distribution statistics for results
func Summarize(results []engine.Result) Stats {
	s := Stats{
		Total:       len(results),
		GradeCounts: make(map[scoring.Letter]int),
		TierCounts:  make(map[scoring.Tier]int),
	}
	if len(results) == 0 {
		return s
	}

	total := 0.0
	for _, r := range results {
		s.GradeCounts[r.Grades.Overall]++
		s.TierCounts[r.Tier]++
		total += r.Grades.Aggregate
		if r.Narrative.FellBack {
			s.FellBack++
		}
	}
	s.MeanAggregate = total / float64(len(results))

	sorted := append([]engine.Result(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Grades.Aggregate < sorted[j].Grades.Aggregate
	})
	if len(sorted) > lowestCount {
		sorted = sorted[:lowestCount]
	}
	s.Lowest = sorted
	return s
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func elapsed(start time.Time) time.Duration {
	if start.IsZero() {
		return 0
	}
	return time.Since(start).Round(time.Millisecond)
}
