package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"povstudio/internal/archive"
	"povstudio/internal/assetstore"
	"povstudio/internal/config"
	"povstudio/internal/logging"
	"povstudio/internal/projectstore"
	"povstudio/internal/storage"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
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

// library bundles the open catalog and the services built on it for the
// lifetime of one command.
type library struct {
	projects *projectstore.Store
	assets   *assetstore.Store
	codec    *archive.Codec
}

// withLibrary opens the library, runs fn, and closes the library again. The
// single-writer lock is held for the duration of fn.
func (c *commandContext) withLibrary(fn func(*library) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	assets := assetstore.New(db)
	lib := &library{
		projects: projectstore.New(db),
		assets:   assets,
		codec: archive.New(assets, commandLogger(cfg),
			archive.WithMaxAssetBytes(cfg.MaxAssetBytes())),
	}
	return fn(lib)
}

// commandLogger writes to the log file only; command output on stdout stays
// clean for piping.
func commandLogger(cfg *config.Config) *slog.Logger {
	if cfg == nil || cfg.Paths.LogDir == "" {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "povstudio.log")},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
