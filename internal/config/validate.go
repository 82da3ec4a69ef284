package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateUpdate(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateRunLog()
}

func (c *Config) validateUpdate() error {
	if c.Update.NumRenders < 1 {
		return errors.New("update.num_renders must be at least 1")
	}
	if c.Update.MaxWorkers < 0 {
		return errors.New("update.max_workers must not be negative")
	}
	if c.Update.RenderThreads < 0 {
		return errors.New("update.render_threads must not be negative")
	}
	if c.Update.Oiiotool == "" {
		return errors.New("update.oiiotool must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateRunLog() error {
	if c.RunLog.Enabled && c.RunLog.Path == "" {
		return errors.New("run_log.path must be set when run_log.enabled is true")
	}
	return nil
}
