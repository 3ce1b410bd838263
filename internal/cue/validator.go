package cue

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Schema names, matching the embedded file base names
const (
	SchemaBank   = "bank"
	SchemaRecord = "record"
)

// ValidationError represents a single schema violation
type ValidationError struct {
	File     string
	Path     string // CUE path of the offending value, e.g. courses.Python.Beginner.growth
	Message  string
	Severity string // error, warning
}

func (e ValidationError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// Validator handles CUE validation. A Validator is not safe for concurrent use.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles all embedded CUE schema files
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading schema %s: %w", entry.Name(), err)
		}

		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if instErr := inst.Err(); instErr != nil {
			return fmt.Errorf("compiling schema %s: %w", entry.Name(), instErr)
		}

		// bank.cue -> bank
		schemaName := strings.TrimSuffix(entry.Name(), ".cue")
		v.schemas[schemaName] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}

	return nil
}

// ValidateBank validates decoded template bank data
func (v *Validator) ValidateBank(data map[string]any) ([]ValidationError, error) {
	return v.Validate(SchemaBank, data)
}

// ValidateRecord validates a decoded report input record
func (v *Validator) ValidateRecord(data map[string]any) ([]ValidationError, error) {
	return v.Validate(SchemaRecord, data)
}

// Validate validates data against the named schema's #Definition
// (bank -> #Bank). The error return is reserved for problems with the
// validator itself; schema violations come back as ValidationErrors.
func (v *Validator) Validate(schemaType string, data map[string]any) ([]ValidationError, error) {
	schema, ok := v.schemas[schemaType]
	if !ok {
		return nil, fmt.Errorf("schema %q not loaded", schemaType)
	}

	dataValue := v.ctx.Encode(data)
	if encErr := dataValue.Err(); encErr != nil {
		return nil, fmt.Errorf("error encoding data: %w", encErr)
	}

	defPath := cue.ParsePath("#" + strings.ToUpper(schemaType[:1]) + schemaType[1:])
	def := schema.LookupPath(defPath)
	if !def.Exists() {
		return nil, fmt.Errorf("schema %q has no definition %s", schemaType, defPath)
	}

	unified := def.Unify(dataValue)
	if err := unified.Err(); err != nil {
		return extractErrorsFromCUE(err), nil
	}

	// Concreteness catches required fields that are missing
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrorsFromCUE(err), nil
	}

	return nil, nil
}

// ValidateYAML decodes YAML content and validates it against a schema
func (v *Validator) ValidateYAML(path string, content []byte, schemaType string) ([]ValidationError, error) {
	var data map[string]any
	if err := yamlv3.Unmarshal(content, &data); err != nil {
		return []ValidationError{{
			File:     path,
			Message:  fmt.Sprintf("error parsing YAML: %v", err),
			Severity: "error",
		}}, nil
	}
	if data == nil {
		data = map[string]any{}
	}

	errs, err := v.Validate(schemaType, data)
	for i := range errs {
		errs[i].File = path
	}
	return errs, err
}

// extractErrorsFromCUE flattens a CUE error list into ValidationErrors
func extractErrorsFromCUE(err error) []ValidationError {
	var out []ValidationError
	seen := make(map[string]bool)

	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Path:     strings.Join(e.Path(), "."),
			Message:  fmt.Sprintf(format, args...),
			Severity: "error",
		}
		key := ve.Path + "|" + ve.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ve)
	}

	if len(out) == 0 {
		out = append(out, ValidationError{
			Message:  fmt.Sprintf("schema validation failed: %v", err),
			Severity: "error",
		})
	}
	return out
}
