package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSorter(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	in, out := strings.TrimSpace(c.Paths.InputDir), strings.TrimSpace(c.Paths.OutputDir)
	if in != "" && in == out {
		return errors.New("paths.input_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateSorter() error {
	if c.Sorter.MaxNameLength < 0 {
		return errors.New("sorter.max_name_length must be >= 0 (0 disables truncation)")
	}
	if c.Sorter.Workers <= 0 {
		return errors.New("sorter.workers must be positive")
	}
	if len(c.Sorter.Extensions) == 0 {
		return errors.New("sorter.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
