package scoring

import "math"

// Grade band lower bounds. Each band includes its lower bound.
const (
	GradeAThreshold = 85
	GradeBThreshold = 70
	GradeCThreshold = 65
	GradeDThreshold = 50
)

// GradeOf maps a 0-100 score to its letter grade
func GradeOf(score int) Letter {
	switch {
	case score >= GradeAThreshold:
		return LetterA
	case score >= GradeBThreshold:
		return LetterB
	case score >= GradeCThreshold:
		return LetterC
	case score >= GradeDThreshold:
		return LetterD
	default:
		return LetterF
	}
}

// Aggregate returns the unweighted mean of the three metrics
func Aggregate(s ScoreSet) float64 {
	return float64(s.Theory+s.Practical+s.Attendance) / float64(len(Metrics))
}

// RoundHalfUp rounds to the nearest integer, with .5 going up
func RoundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}

// Grade computes per-metric letters and the overall grade.
// Rounding happens before the overall lookup.
func Grade(s ScoreSet) GradeResult {
	agg := Aggregate(s)
	rounded := RoundHalfUp(agg)
	return GradeResult{
		Theory:     GradeOf(s.Theory),
		Practical:  GradeOf(s.Practical),
		Attendance: GradeOf(s.Attendance),
		Aggregate:  agg,
		Rounded:    rounded,
		Overall:    GradeOf(rounded),
	}
}
