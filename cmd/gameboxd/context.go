package main

import (
	"path/filepath"
	"strings"
	"sync"

	"log/slog"

	"github.com/spf13/cobra"

	"gameboxd/internal/config"
	"gameboxd/internal/logging"
	"gameboxd/internal/lookup"
	"gameboxd/internal/review"
	"gameboxd/internal/store"
	"gameboxd/internal/users"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the configured logger with a log file next to the console
// output.
func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		OutputPaths: []string{
			"stderr",
			filepath.Join(cfg.Paths.LogDir, "gameboxd.log"),
		},
	})
}

// withStore opens the store for the duration of fn and always closes it.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// withServices wires the domain services over an open store.
func (c *commandContext) withServices(fn func(*config.Config, *store.Store, *users.Service, *review.Service, *lookup.Service) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		logger, err := c.newLogger()
		if err != nil {
			return err
		}
		lookupSvc, err := lookup.NewService(cfg, logger)
		if err != nil {
			return err
		}
		return fn(cfg, st, users.NewService(st, logger), review.NewService(st, logger), lookupSvc)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
