package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/handiism/cover-embedder/internal/config"
	"github.com/handiism/cover-embedder/internal/model"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

// configPath returns the --config value or the default settings location.
func (c *commandContext) configPath() string {
	if c.configFlag != nil {
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			return path
		}
	}
	return config.DefaultPath()
}

// ensureSettings loads the settings file once and applies environment
// overrides on top of it.
func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		settings, err := config.Load(c.configPath())
		if err != nil {
			c.settingsErr = err
			return
		}
		if err := settings.ApplyEnv(); err != nil {
			c.settingsErr = err
			return
		}
		c.settings = settings
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// logger writes structured progress to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if c.verbose() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// progressLogger forwards progress events to logger.
func progressLogger(logger *slog.Logger) model.ProgressFunc {
	return func(event model.ProgressEvent) {
		switch event.Level {
		case model.LevelVerbose:
			logger.Debug(event.Message)
		case model.LevelWarning:
			logger.Warn(event.Message)
		case model.LevelError:
			logger.Error(event.Message)
		case model.LevelSuccess:
			logger.Info(event.Message, "status", "success")
		default:
			logger.Info(event.Message)
		}
	}
}

func shouldSkipSettings(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipSettingsLoad"] == "true" {
			return true
		}
	}
	return false
}
