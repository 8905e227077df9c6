package config

import (
	"fmt"
	"net"
	"net/url"
)

// Validate ensures the configuration is usable. The RAWG API key is
// deliberately not required: lookups degrade to empty results without one.
func (c *Config) Validate() error {
	if err := c.validateRAWG(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRAWG() error {
	for name, value := range map[string]string{
		"rawg.base_url":   c.RAWG.BaseURL,
		"rawg.media_host": c.RAWG.MediaHost,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, value)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind must be host:port, got %q: %w", c.Server.Bind, err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
