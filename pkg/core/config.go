package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"stale-clean/pkg/constants"
)

// Config is the on-disk configuration of the tool.
type Config struct {
	Root          string   `yaml:"root"`
	Extension     string   `yaml:"extension"`
	RetentionDays int      `yaml:"retention_days"`
	Exclude       []string `yaml:"exclude"`
	ExcludeFile   string   `yaml:"exclude_file"`
	Timezone      string   `yaml:"timezone"`
	JournalPath   string   `yaml:"journal_path"`
	LogLevel      int      `yaml:"log_level"`
	LogFile       string   `yaml:"log_file"`
	LogMaxSize    int      `yaml:"log_max_size"`
	LogMaxAge     int      `yaml:"log_max_age"`
	LogConsole    bool     `yaml:"log_console"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: constants.DefaultRetentionDays,
		ExcludeFile:   constants.ExcludeListFile,
		JournalPath:   constants.JournalFile,
		LogLevel:      constants.DefaultLogLevel,
		LogFile:       constants.LogFile,
		LogMaxSize:    constants.DefaultLogMaxSize,
		LogMaxAge:     constants.DefaultLogMaxAge,
	}
}

// ParseConfig reads a YAML config file. A missing file is not an error:
// the defaults are used instead. Patterns from exclude_file are appended to
// exclude either way.
func ParseConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.load(path); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.ExcludeFile != "" {
		patterns, err := ReadListFile(constants.ExpandHome(cfg.ExcludeFile))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read exclude list: %w", err)
		}
		cfg.Exclude = append(cfg.Exclude, patterns...)
	}
	return cfg, nil
}

func (c *Config) load(path string) error {
	f, err := os.Open(constants.ExpandHome(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.RetentionDays <= 0 {
		c.RetentionDays = constants.DefaultRetentionDays
	}
	if c.LogLevel < 0 || c.LogLevel > 3 {
		c.LogLevel = constants.DefaultLogLevel
	}
	if c.LogMaxSize <= 0 {
		c.LogMaxSize = constants.DefaultLogMaxSize
	}
	if c.LogMaxAge <= 0 {
		c.LogMaxAge = constants.DefaultLogMaxAge
	}
	if c.LogFile == "" {
		c.LogFile = constants.LogFile
	}
}

// ScanConfig builds the scan request described by the config.
func (c *Config) ScanConfig() ScanConfig {
	return ScanConfig{
		Root:      c.Root,
		Extension: c.Extension,
		Retention: time.Duration(c.RetentionDays) * 24 * time.Hour,
		Exclude:   c.Exclude,
	}
}

// LogConfig extracts the logging settings.
func (c *Config) LogConfig() LogConfig {
	return LogConfig{
		File:    c.LogFile,
		Level:   c.LogLevel,
		MaxSize: c.LogMaxSize,
		MaxAge:  c.LogMaxAge,
		Console: c.LogConsole,
	}
}

// ReadListFile reads one entry per line, skipping blanks and # comments.
func ReadListFile(filename string) ([]string, error) {
	var lines []string

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "#") && line != "" {
			lines = append(lines, line)
		}
	}

	return lines, scanner.Err()
}
