package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRAWG()
	c.normalizeCache()
	c.normalizeServer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRAWG() {
	c.RAWG.APIKey = strings.TrimSpace(c.RAWG.APIKey)
	c.RAWG.BaseURL = strings.TrimRight(strings.TrimSpace(c.RAWG.BaseURL), "/")
	if c.RAWG.BaseURL == "" {
		c.RAWG.BaseURL = defaultRAWGBaseURL
	}
	c.RAWG.MediaHost = strings.TrimRight(strings.TrimSpace(c.RAWG.MediaHost), "/")
	if c.RAWG.MediaHost == "" {
		c.RAWG.MediaHost = defaultRAWGMediaHost
	}
	if c.RAWG.RequestsPerSecond <= 0 {
		c.RAWG.RequestsPerSecond = defaultRequestsPerSecond
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	if c.Server.SessionTTLHours <= 0 {
		c.Server.SessionTTLHours = defaultSessionTTLHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
