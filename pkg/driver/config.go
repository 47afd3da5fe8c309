package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the file looked up in the working directory.
const DefaultConfigName = "vizlist.yml"

// DefaultMaxSteps bounds a run when neither the config nor the environment
// sets a limit.
const DefaultMaxSteps = 100000

// Output formats.
const (
	OutputYAML = "yaml"
	OutputText = "text"
)

// Environment overrides.
const (
	EnvMaxSteps = "VIZLIST_MAX_STEPS"
	EnvLogLevel = "VIZLIST_LOG_LEVEL"
)

// Config models vizlist.yml.
type Config struct {
	Path string `yaml:"-"`

	// Program is a file path or "embedded:<name>".
	Program  string     `yaml:"program,omitempty"`
	Git      *GitSource `yaml:"git,omitempty"`
	MaxSteps int        `yaml:"max_steps,omitempty"`
	Output   string     `yaml:"output,omitempty"`
	LogLevel string     `yaml:"log_level,omitempty"`
}

// GitSource selects one file from a git repository. At most one of Rev, Tag,
// and Branch may be set; none means HEAD.
type GitSource struct {
	URL    string `yaml:"url"`
	Rev    string `yaml:"rev,omitempty"`
	Tag    string `yaml:"tag,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() Config {
	return Config{MaxSteps: DefaultMaxSteps, Output: OutputYAML, LogLevel: "info"}
}

// LoadConfig parses a config file. Unknown keys are rejected; unset values
// fall back to DefaultConfig.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	cfg, err := DecodeConfig(file)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	if cfg.Program != "" && !strings.HasPrefix(cfg.Program, EmbeddedPrefix) && !filepath.IsAbs(cfg.Program) {
		cfg.Program = filepath.Join(filepath.Dir(abs), cfg.Program)
	}
	return cfg, nil
}

// DecodeConfig reads YAML config from r without touching the filesystem.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, cfg.Validate()
}

// FindConfig returns the config file in dir, if any.
func FindConfig(dir string) (string, bool) {
	for _, name := range []string{DefaultConfigName, "vizlist.yaml"} {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if raw, ok := lookup(EnvMaxSteps); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n <= 0 {
			return fmt.Errorf("config: %s must be a positive integer, got %q", EnvMaxSteps, raw)
		}
		c.MaxSteps = n
	}
	if raw, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(raw) != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(raw))
	}
	return nil
}

// Validate reports inconsistent settings.
func (c Config) Validate() error {
	if c.MaxSteps < 0 {
		return fmt.Errorf("config: max_steps must not be negative")
	}
	switch c.Output {
	case "", OutputYAML, OutputText:
	default:
		return fmt.Errorf("config: unknown output %q (expected %s or %s)", c.Output, OutputYAML, OutputText)
	}
	if c.Git != nil {
		if c.Program != "" {
			return fmt.Errorf("config: program and git are mutually exclusive")
		}
		if err := c.Git.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Program = strings.TrimSpace(c.Program)
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.Output == "" {
		c.Output = OutputYAML
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.Git != nil {
		c.Git.URL = strings.TrimSpace(c.Git.URL)
		c.Git.Rev = strings.TrimSpace(c.Git.Rev)
		c.Git.Tag = strings.TrimSpace(c.Git.Tag)
		c.Git.Branch = strings.TrimSpace(c.Git.Branch)
		c.Git.Path = strings.TrimSpace(c.Git.Path)
	}
}

func (g *GitSource) validate() error {
	if g.URL == "" {
		return fmt.Errorf("config: git.url is required")
	}
	if g.Path == "" {
		return fmt.Errorf("config: git.path is required")
	}
	set := 0
	for _, v := range []string{g.Rev, g.Tag, g.Branch} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("config: git accepts only one of rev, tag, or branch")
	}
	return nil
}
