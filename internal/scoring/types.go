package scoring

// Metric names one of the three tracked score columns
type Metric string

const (
	Theory     Metric = "theory"
	Practical  Metric = "practical"
	Attendance Metric = "attendance"
)

// Metrics lists the tracked metrics in report order
var Metrics = []Metric{Theory, Practical, Attendance}

// ScoreSet holds the three normalized metrics, each in [0, 100]
type ScoreSet struct {
	Theory     int `json:"theory"`
	Practical  int `json:"practical"`
	Attendance int `json:"attendance"`
}

// Get returns the score for a metric. Unknown metrics read as 0.
func (s ScoreSet) Get(m Metric) int {
	switch m {
	case Theory:
		return s.Theory
	case Practical:
		return s.Practical
	case Attendance:
		return s.Attendance
	default:
		return 0
	}
}

// Letter is a letter grade: A, B, C, D or F
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
	LetterF Letter = "F"
)

// Rank orders letters so that F < D < C < B < A. Unknown letters rank below F.
func (l Letter) Rank() int {
	switch l {
	case LetterA:
		return 4
	case LetterB:
		return 3
	case LetterC:
		return 2
	case LetterD:
		return 1
	case LetterF:
		return 0
	default:
		return -1
	}
}

// GradeResult is the graded view of a ScoreSet
type GradeResult struct {
	Theory     Letter  `json:"theory"`
	Practical  Letter  `json:"practical"`
	Attendance Letter  `json:"attendance"`
	Aggregate  float64 `json:"aggregate"` // unrounded mean, used for tier thresholds
	Rounded    int     `json:"rounded"`   // display value, round-half-up of Aggregate
	Overall    Letter  `json:"overall"`
}

// Letter returns the per-metric letter
func (g GradeResult) Letter(m Metric) Letter {
	switch m {
	case Theory:
		return g.Theory
	case Practical:
		return g.Practical
	case Attendance:
		return g.Attendance
	default:
		return ""
	}
}
