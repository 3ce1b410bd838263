package outputters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/reportcard/internal/config"
	"github.com/dotcommander/reportcard/internal/output"
)

// ErrNilBatch is returned when Format is called without a batch
var ErrNilBatch = errors.New("nil batch")

// Formatter is the interface every output format implements
type Formatter = output.Formatter

// FormatterFactory creates a Formatter for a format name
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters from the output package
type DefaultFormatterFactory struct {
	cfg *config.Config
	out io.Writer
}

// NewDefaultFormatterFactory creates a factory writing to stdout
func NewDefaultFormatterFactory(cfg *config.Config) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{cfg: cfg, out: os.Stdout}
}

// CreateFormatter returns the formatter for format
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.out, f.cfg.Quiet, f.cfg.Verbose), nil
	case "json":
		return output.NewJSONFormatter(f.out, true, f.cfg.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.out, f.cfg.Verbose, f.cfg.Output), nil
	case "summary":
		return output.NewSummaryFormatter(f.out), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates a new Outputter writing to w
func NewOutputter(cfg *config.Config, w io.Writer) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: &DefaultFormatterFactory{cfg: cfg, out: w},
	}
}

// NewOutputterWithFactory creates an Outputter with a custom factory
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
	}
}

// Format formats the batch using the named format
func (o *Outputter) Format(b *output.Batch, format string) error {
	if b == nil {
		return ErrNilBatch
	}
	if b.StartTime.IsZero() {
		b.StartTime = time.Now()
	}

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(b)
}
