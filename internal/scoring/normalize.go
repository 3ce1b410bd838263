package scoring

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

const (
	minScore = 0
	maxScore = 100
)

// Normalize coerces a raw form value into an integer score in [0, 100].
//
// Strings parse their leading integer ("72.9" is 72, "85pts" is 85). Floats
// truncate toward zero. Anything that does not yield an integer, including
// NaN, infinities, nil and booleans, becomes 0. Normalize never fails.
func Normalize(raw any) int {
	var n int
	switch v := raw.(type) {
	case nil, bool:
		return minScore
	case string:
		n = leadingInt(v)
	case []byte:
		n = leadingInt(string(v))
	case float64:
		n = truncFloat(v)
	case float32:
		n = truncFloat(float64(v))
	case uint, uint32, uint64:
		u, err := cast.ToUint64E(v)
		if err != nil || u > maxScore {
			return maxScore
		}
		n = int(u)
	default:
		parsed, err := cast.ToIntE(v)
		if err != nil {
			// json.Number and fmt.Stringer values fall through to string parsing
			n = leadingInt(cast.ToString(v))
		} else {
			n = parsed
		}
	}
	return clamp(n)
}

// NormalizeSet normalizes the three raw metrics independently
func NormalizeSet(theory, practical, attendance any) ScoreSet {
	return ScoreSet{
		Theory:     Normalize(theory),
		Practical:  Normalize(practical),
		Attendance: Normalize(attendance),
	}
}

// leadingInt parses an optional sign followed by decimal digits at the start
// of s, ignoring surrounding whitespace. It returns 0 when no digit is found.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		// Saturate early; anything past maxScore clamps anyway.
		if n <= maxScore*10 {
			n = n*10 + int(c-'0')
		}
	}
	if neg {
		return -n
	}
	return n
}

func truncFloat(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	switch {
	case f > maxScore:
		return maxScore
	case f < minScore:
		return minScore
	}
	return int(math.Trunc(f))
}

func clamp(n int) int {
	switch {
	case n < minScore:
		return minScore
	case n > maxScore:
		return maxScore
	default:
		return n
	}
}
