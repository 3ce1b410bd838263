package bank

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/dotcommander/reportcard/internal/cue"
	"gopkg.in/yaml.v3"
)

//go:embed default_bank.yaml
var defaultBankYAML []byte

// bankFile is the on-disk layout of a template bank
type bankFile struct {
	DefaultCourse string            `yaml:"default_course"`
	Courses       map[string]Course `yaml:"courses"`
}

// Parse decodes a YAML (or JSON) template bank, checks it against the
// embedded CUE schema and then against the Go-side invariants.
func Parse(data []byte) (*Bank, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing template bank: %w", err)
	}
	if raw == nil {
		return nil, ErrNoCourses
	}

	v := cue.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("error loading bank schema: %w", err)
	}
	violations, err := v.ValidateBank(raw)
	if err != nil {
		return nil, fmt.Errorf("error validating template bank: %w", err)
	}
	if len(violations) > 0 {
		msgs := make([]string, 0, len(violations))
		for _, ve := range violations {
			msgs = append(msgs, ve.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
	}

	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error decoding template bank: %w", err)
	}
	return New(f.DefaultCourse, f.Courses)
}

// LoadFile reads and parses a template bank file
func LoadFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template bank: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Load returns the bank at path, or the embedded default bank when path is empty
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Default parses the embedded default bank
func Default() (*Bank, error) {
	return Parse(defaultBankYAML)
}

// DefaultYAML returns a copy of the embedded default bank source
func DefaultYAML() []byte {
	out := make([]byte, len(defaultBankYAML))
	copy(out, defaultBankYAML)
	return out
}
