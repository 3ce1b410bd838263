package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/dotcommander/reportcard/internal/bank"
	"github.com/dotcommander/reportcard/internal/config"
	"github.com/dotcommander/reportcard/internal/discovery"
	"github.com/dotcommander/reportcard/internal/engine"
	"github.com/dotcommander/reportcard/internal/intake"
	"github.com/dotcommander/reportcard/internal/ledger"
	"github.com/dotcommander/reportcard/internal/logger"
	"github.com/dotcommander/reportcard/internal/narrative"
	"github.com/dotcommander/reportcard/internal/output"
)

// session is the configured state every command starts from
type session struct {
	cfg    *config.Config
	log    *logger.Logger
	bank   *bank.Bank
	engine *engine.Engine
}

func newSession() (*session, error) {
	cfg, err := config.LoadConfig(rootPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	log, err := logger.New("dev", logger.Level(cfg.Quiet, cfg.Verbose))
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	b, err := loadBank(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("template bank loaded", "path", cfg.Bank, "courses", len(b.CourseNames()), "default", b.DefaultCourse())

	e := engine.New(b,
		engine.WithClassifier(cfg.Classifier()),
		engine.WithDefaultIssuer(cfg.Issuer),
		engine.WithSelectorOptions(narrative.WithDrivers(cfg.Drivers())),
	)
	return &session{cfg: cfg, log: log, bank: b, engine: e}, nil
}

func loadBank(cfg *config.Config) (*bank.Bank, error) {
	b, err := bank.Load(cfg.Bank)
	if err != nil {
		return nil, fmt.Errorf("error loading template bank: %w", err)
	}
	if cfg.DefaultCourse != "" {
		if b, err = b.WithDefault(cfg.DefaultCourse); err != nil {
			return nil, fmt.Errorf("error loading template bank: %w", err)
		}
	}
	return b, nil
}

// warnFallbacks logs every report whose course was not in the bank
func (s *session) warnFallbacks(results []engine.Result) {
	for _, r := range results {
		if r.Narrative.FellBack {
			s.log.Warn("unknown course, using default templates",
				"student", r.StudentName, "course", r.Course, "used", r.Narrative.Course, "source", r.Source)
		}
	}
}

// record appends the reports' payload fingerprints to the ledger and returns
// how many were new
func (s *session) record(results []engine.Result) (int, error) {
	l, err := ledger.LoadOrNew(s.cfg.LedgerPath())
	if err != nil {
		return 0, fmt.Errorf("error loading ledger: %w", err)
	}
	added := 0
	now := time.Now()
	for _, r := range results {
		if l.Record(r.VerificationText, r.ReportID, now) {
			added++
		} else {
			s.log.Info("report already in ledger", "student", r.StudentName, "report", r.ReportID)
		}
	}
	if err := l.Save(s.cfg.LedgerPath()); err != nil {
		return added, fmt.Errorf("error saving ledger: %w", err)
	}
	s.log.Debug("ledger updated", "path", s.cfg.LedgerPath(), "added", added, "total", l.Len())
	return added, nil
}

// openLedger loads the ledger for verification; a missing file means no ledger
func (s *session) openLedger() (*ledger.Ledger, error) {
	l, err := ledger.Load(s.cfg.LedgerPath())
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("no ledger, skipping issuance check", "path", s.cfg.LedgerPath())
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading ledger: %w", err)
	}
	return l, nil
}

// evaluateFiles discovers record files, reads them and evaluates every record
func (s *session) evaluateFiles(ctx context.Context, patterns []string) (*output.Batch, error) {
	b := &output.Batch{StartTime: time.Now()}

	if len(patterns) == 0 {
		patterns = s.cfg.Input.Patterns
	}
	files, err := discovery.NewFileDiscovery(s.cfg.Root, s.cfg.FollowSymlinks).DiscoverFiles(patterns)
	if err != nil {
		return nil, fmt.Errorf("error discovering record files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no record files found under %s", s.cfg.Root)
	}
	s.log.Debug("record files discovered", "root", s.cfg.Root, "files", len(files))

	reader, err := intake.NewReader()
	if err != nil {
		return nil, fmt.Errorf("error loading record schema: %w", err)
	}
	batches, err := reader.ReadFiles(files)
	if err != nil {
		return nil, err
	}

	var inputs []engine.Input
	for _, fb := range batches {
		inputs = append(inputs, fb.Inputs...)
		for _, f := range fb.Findings {
			s.log.Debug("record warning", "file", f.File, "path", f.Path, "message", f.Message)
		}
		b.Findings = append(b.Findings, fb.Findings...)
	}

	b.Results, err = s.engine.EvaluateBatch(ctx, inputs, s.cfg.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("error evaluating records: %w", err)
	}
	s.warnFallbacks(b.Results)
	return b, nil
}
