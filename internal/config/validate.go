package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNetwork(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DatabasePath == "" {
		return errors.New("paths.database_path must be set")
	}
	if c.Paths.DownloadDir == "" {
		return errors.New("paths.download_dir must be set")
	}
	return nil
}

func (c *Config) validateNetwork() error {
	if c.Network.AudioTimeout < c.Network.ImageTimeout {
		return fmt.Errorf("network.audio_timeout (%d) must not be shorter than network.image_timeout (%d)",
			c.Network.AudioTimeout, c.Network.ImageTimeout)
	}
	if c.Network.DownloadRetries < 1 {
		return errors.New("network.download_retries must be at least 1")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if !c.Analysis.Enabled {
		return nil
	}
	if c.Analysis.BaseURL == "" {
		return errors.New("analysis.base_url must be set when analysis is enabled")
	}
	if c.Analysis.Model == "" {
		return errors.New("analysis.model must be set when analysis is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
