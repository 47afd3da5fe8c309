package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zojize/viz-list/pkg/driver"
)

// globalFlags holds options accepted before or after the command.
type globalFlags struct {
	configPath string
	logLevel   string
	maxSteps   int
	output     string
}

var valueFlags = []string{"--config", "--log-level", "--max-steps", "--output"}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var flags globalFlags
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		name, value, matched := "", "", false
		for _, flag := range valueFlags {
			if arg == flag {
				if i+1 >= len(args) {
					return flags, nil, fmt.Errorf("%s expects a value", flag)
				}
				name, value, matched = flag, args[i+1], true
				i++
				break
			}
			if v, ok := strings.CutPrefix(arg, flag+"="); ok {
				name, value, matched = flag, v, true
				break
			}
		}
		if !matched {
			remaining = append(remaining, arg)
			continue
		}
		if err := flags.set(name, value); err != nil {
			return flags, nil, err
		}
	}
	return flags, remaining, nil
}

func (f *globalFlags) set(name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s expects a value", name)
	}
	switch name {
	case "--config":
		f.configPath = value
	case "--log-level":
		if _, err := parseLevel(value); err != nil {
			return err
		}
		f.logLevel = value
	case "--max-steps":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("--max-steps expects a positive integer, got '%s'", value)
		}
		f.maxSteps = n
	case "--output":
		switch strings.ToLower(value) {
		case driver.OutputYAML, driver.OutputText:
			f.output = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown --output value '%s' (expected %s or %s)", value, driver.OutputYAML, driver.OutputText)
		}
	}
	return nil
}

// resolveConfig layers settings: defaults, then the config file, then the
// environment, then flags and the positional program.
func resolveConfig(flags globalFlags, positional []string) (driver.Config, error) {
	cfg := driver.DefaultConfig()
	path := flags.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			if found, ok := driver.FindConfig(wd); ok {
				path = found
			}
		}
	}
	if path != "" {
		loaded, err := driver.LoadConfig(path)
		if err != nil {
			return driver.Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return driver.Config{}, err
	}

	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.maxSteps > 0 {
		cfg.MaxSteps = flags.maxSteps
	}
	if flags.output != "" {
		cfg.Output = flags.output
	}
	if len(positional) == 1 {
		cfg.Program = positional[0]
		cfg.Git = nil
	}
	if cfg.Program == "" && cfg.Git == nil {
		return driver.Config{}, fmt.Errorf("no program given (pass a file, embedded:<name>, or set program in %s)", driver.DefaultConfigName)
	}
	return cfg, cfg.Validate()
}
