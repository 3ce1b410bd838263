package scoring

import (
	"fmt"
	"strings"
)

// Tier is an ordered proficiency bucket used to key template pools
type Tier int

const (
	Beginner Tier = iota
	Intermediate
	Advanced
)

// Tiers lists every tier from lowest to highest
var Tiers = []Tier{Beginner, Intermediate, Advanced}

// Tier lower bounds on the aggregate score
const (
	AdvancedThreshold     = 85.0
	IntermediateThreshold = 70.0
)

func (t Tier) String() string {
	switch t {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// MarshalText renders the tier by name so JSON and YAML carry readable keys
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts a tier name, case-insensitively
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier parses a tier name
func ParseTier(s string) (Tier, error) {
	for _, t := range Tiers {
		if strings.EqualFold(strings.TrimSpace(s), t.String()) {
			return t, nil
		}
	}
	return Beginner, fmt.Errorf("unknown tier %q", s)
}

// Classify maps an aggregate score to a tier using the canonical thresholds
func Classify(aggregate float64) Tier {
	switch {
	case aggregate >= AdvancedThreshold:
		return Advanced
	case aggregate >= IntermediateThreshold:
		return Intermediate
	default:
		return Beginner
	}
}

// Classifier applies Classify plus an optional attendance gate.
// With AttendanceGate > 0, attendance below the gate caps the tier at
// Intermediate. The zero value behaves exactly like Classify.
type Classifier struct {
	AttendanceGate float64
}

// Classify returns the tier for an aggregate score and attendance
func (c Classifier) Classify(aggregate, attendance float64) Tier {
	tier := Classify(aggregate)
	if c.AttendanceGate > 0 && attendance < c.AttendanceGate && tier > Intermediate {
		return Intermediate
	}
	return tier
}
