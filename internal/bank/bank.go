// Package bank holds the read-only template bank: per-course, per-tier pools
// of narrative templates that the selector draws from.
package bank

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dotcommander/reportcard/internal/scoring"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoCourses       = errors.New("template bank defines no courses")
	ErrUnknownDefault  = errors.New("default course not defined in template bank")
	ErrEmptyPool       = errors.New("empty template pool")
	ErrSchema          = errors.New("template bank violates schema")
	ErrDuplicateCourse = errors.New("course names differ only by case")
)

// Pool names one of the three narrative pools
type Pool string

const (
	Strengths Pool = "strengths"
	Growth    Pool = "growth"
	Comments  Pool = "comments"
)

// Pools lists every pool in report order
var Pools = []Pool{Strengths, Growth, Comments}

// Template is a single candidate sentence. Focus, when set, ties a growth
// template to the metric it addresses.
type Template struct {
	Text  string         `yaml:"text" json:"text"`
	Focus scoring.Metric `yaml:"focus,omitempty" json:"focus,omitempty"`
}

// UnmarshalYAML accepts either a bare string or a {text, focus} mapping
func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Focus = ""
		return node.Decode(&t.Text)
	}
	type plain Template
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = Template(p)
	return nil
}

// TierPools holds the three pools for one (course, tier) pair
type TierPools struct {
	Strengths []Template `yaml:"strengths" json:"strengths"`
	Growth    []Template `yaml:"growth" json:"growth"`
	Comments  []Template `yaml:"comments" json:"comments"`
}

// Get returns the named pool
func (p TierPools) Get(pool Pool) []Template {
	switch pool {
	case Strengths:
		return p.Strengths
	case Growth:
		return p.Growth
	case Comments:
		return p.Comments
	default:
		return nil
	}
}

// Course maps every tier to its pools
type Course struct {
	Beginner     TierPools `yaml:"Beginner" json:"Beginner"`
	Intermediate TierPools `yaml:"Intermediate" json:"Intermediate"`
	Advanced     TierPools `yaml:"Advanced" json:"Advanced"`
}

// Tier returns the pools for a tier
func (c Course) Tier(t scoring.Tier) TierPools {
	switch t {
	case scoring.Advanced:
		return c.Advanced
	case scoring.Intermediate:
		return c.Intermediate
	default:
		return c.Beginner
	}
}

// Bank is an immutable template bank. It is safe for concurrent reads.
type Bank struct {
	defaultCourse string
	courses       map[string]Course
	lookup        map[string]string // folded name -> canonical name
}

// New builds a bank from a course table and checks it
func New(defaultCourse string, courses map[string]Course) (*Bank, error) {
	b := &Bank{
		defaultCourse: strings.TrimSpace(defaultCourse),
		courses:       make(map[string]Course, len(courses)),
		lookup:        make(map[string]string, len(courses)),
	}
	for name, c := range courses {
		b.courses[strings.TrimSpace(name)] = c
	}
	for _, name := range b.CourseNames() {
		if _, taken := b.lookup[fold(name)]; !taken {
			b.lookup[fold(name)] = name
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// WithDefault returns a copy of the bank using another default course
func (b *Bank) WithDefault(course string) (*Bank, error) {
	name, ok := b.lookup[fold(course)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefault, course)
	}
	return &Bank{defaultCourse: name, courses: b.courses, lookup: b.lookup}, nil
}

// DefaultCourse is the course used for unknown course names
func (b *Bank) DefaultCourse() string {
	return b.defaultCourse
}

// CourseNames returns all course names, sorted
func (b *Bank) CourseNames() []string {
	names := make([]string, 0, len(b.courses))
	for name := range b.courses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve finds a course by name, ignoring case and surrounding space.
// Unknown names resolve to the default course with fellBack set.
func (b *Bank) Resolve(course string) (name string, c Course, fellBack bool) {
	if exact, ok := b.courses[strings.TrimSpace(course)]; ok {
		return strings.TrimSpace(course), exact, false
	}
	if canonical, ok := b.lookup[fold(course)]; ok {
		return canonical, b.courses[canonical], false
	}
	return b.defaultCourse, b.courses[b.defaultCourse], true
}

// Pools returns the pools for a course and tier, resolving unknown courses to
// the default. It fails only when a resolved pool is empty.
func (b *Bank) Pools(course string, tier scoring.Tier) (string, TierPools, bool, error) {
	name, c, fellBack := b.Resolve(course)
	pools := c.Tier(tier)
	for _, p := range Pools {
		if len(pools.Get(p)) == 0 {
			return name, pools, fellBack, fmt.Errorf("%w: %s/%s/%s", ErrEmptyPool, name, tier, p)
		}
	}
	return name, pools, fellBack, nil
}

// Validate checks the invariants the selector relies on
func (b *Bank) Validate() error {
	if len(b.courses) == 0 {
		return ErrNoCourses
	}
	if _, ok := b.courses[b.defaultCourse]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDefault, b.defaultCourse)
	}

	var errs []error
	seen := make(map[string]string, len(b.courses))
	for _, name := range b.CourseNames() {
		if other, ok := seen[fold(name)]; ok {
			errs = append(errs, fmt.Errorf("%w: %q and %q", ErrDuplicateCourse, other, name))
		}
		seen[fold(name)] = name

		c := b.courses[name]
		for _, tier := range scoring.Tiers {
			pools := c.Tier(tier)
			for _, p := range Pools {
				templates := pools.Get(p)
				if len(templates) == 0 {
					errs = append(errs, fmt.Errorf("%w: %s/%s/%s", ErrEmptyPool, name, tier, p))
					continue
				}
				for i, tmpl := range templates {
					if strings.TrimSpace(tmpl.Text) == "" {
						errs = append(errs, fmt.Errorf("%s/%s/%s[%d]: blank template", name, tier, p, i))
					}
					if tmpl.Focus != "" && !knownMetric(tmpl.Focus) {
						errs = append(errs, fmt.Errorf("%s/%s/%s[%d]: unknown focus %q", name, tier, p, i, tmpl.Focus))
					}
				}
			}
		}
	}
	return errors.Join(errs...)
}

func knownMetric(m scoring.Metric) bool {
	for _, known := range scoring.Metrics {
		if m == known {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
