package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dotcommander/reportcard/internal/bank"
	"github.com/dotcommander/reportcard/internal/narrative"
	"github.com/dotcommander/reportcard/internal/project"
	"github.com/dotcommander/reportcard/internal/scoring"
	"github.com/spf13/viper"
)

// Config represents the reportcard configuration
type Config struct {
	Root           string          `mapstructure:"root" json:"root"`
	FollowSymlinks bool            `mapstructure:"followSymlinks" json:"followSymlinks"`
	Bank           string          `mapstructure:"bank" json:"bank,omitempty"`
	DefaultCourse  string          `mapstructure:"defaultCourse" json:"defaultCourse,omitempty"`
	Issuer         string          `mapstructure:"issuer" json:"issuer,omitempty"`
	Format         string          `mapstructure:"format" json:"format"`
	Output         string          `mapstructure:"output" json:"output,omitempty"`
	Quiet          bool            `mapstructure:"quiet" json:"quiet"`
	Verbose        bool            `mapstructure:"verbose" json:"verbose"`
	Concurrency    int             `mapstructure:"concurrency" json:"concurrency"`
	Ledger         string          `mapstructure:"ledger" json:"ledger"`
	AttendanceGate float64         `mapstructure:"attendanceGate" json:"attendanceGate"`
	Selection      SelectionConfig `mapstructure:"selection" json:"selection"`
	Input          InputConfig     `mapstructure:"input" json:"input"`

	// ProjectDir is the workspace root the rc file was looked up in
	ProjectDir string `mapstructure:"-" json:"-"`
}

// SelectionConfig contains narrative selection configuration
type SelectionConfig struct {
	// Drivers maps a pool name to the metrics whose mean picks its template
	Drivers map[string][]string `mapstructure:"drivers" json:"drivers,omitempty"`
}

// InputConfig contains record discovery configuration
type InputConfig struct {
	Patterns []string `mapstructure:"patterns" json:"patterns,omitempty"`
}

// DefaultLedger is where issued report fingerprints are kept
const DefaultLedger = ".reportcard/ledger.json"

// LoadConfig loads configuration from various sources. The rc file is read
// from the project root found by climbing from the working directory, and a
// relative root is resolved against it.
func LoadConfig(rootPath string) (*Config, error) {
	projectDir, err := project.FindProjectRoot(".")
	if err != nil {
		return nil, fmt.Errorf("error finding project root: %w", err)
	}

	viper.SetDefault("root", ".")
	viper.SetDefault("format", "console")
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("concurrency", 10)
	viper.SetDefault("ledger", DefaultLedger)
	viper.SetDefault("attendanceGate", 0)

	configPaths := []string{".reportcardrc.json", ".reportcardrc.yaml", ".reportcardrc.yml"}
	for _, path := range configPaths {
		viper.SetConfigFile(filepath.Join(projectDir, path))
		if err := viper.ReadInConfig(); err == nil {
			break
		}
	}

	viper.SetEnvPrefix("REPORTCARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.ProjectDir = projectDir
	if rootPath != "" {
		config.Root = rootPath
	} else if !filepath.IsAbs(config.Root) {
		config.Root = filepath.Join(projectDir, config.Root)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Format != "console" && config.Format != "json" && config.Format != "markdown" {
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'markdown'", config.Format)
	}

	if config.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if config.AttendanceGate < 0 || config.AttendanceGate > 100 {
		return fmt.Errorf("attendanceGate must be between 0 and 100, got %g", config.AttendanceGate)
	}

	for pool, metrics := range config.Selection.Drivers {
		if !slices.Contains(bank.Pools, bank.Pool(pool)) {
			return fmt.Errorf("invalid selection pool: %s. Must be 'strengths', 'growth', or 'comments'", pool)
		}
		for _, m := range metrics {
			if !slices.Contains(scoring.Metrics, scoring.Metric(m)) {
				return fmt.Errorf("invalid driver metric %q for %s. Must be 'theory', 'practical', or 'attendance'", m, pool)
			}
		}
	}

	return nil
}

// LedgerPath is the ledger file, with a relative path taken from the project root
func (c *Config) LedgerPath() string {
	if c.Ledger == "" || filepath.IsAbs(c.Ledger) || c.ProjectDir == "" {
		return c.Ledger
	}
	return filepath.Join(c.ProjectDir, c.Ledger)
}

// Drivers converts the configured selection drivers. Pools left out keep
// the selector defaults.
func (c *Config) Drivers() narrative.Drivers {
	d := make(narrative.Drivers, len(c.Selection.Drivers))
	for pool, metrics := range c.Selection.Drivers {
		for _, m := range metrics {
			d[bank.Pool(pool)] = append(d[bank.Pool(pool)], scoring.Metric(m))
		}
	}
	return d
}

// Classifier builds the tier classifier from the attendance gate
func (c *Config) Classifier() scoring.Classifier {
	return scoring.Classifier{AttendanceGate: c.AttendanceGate}
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
